package models

import "time"

// WatchlistEntry represents one coin tracked by the user, with display
// metadata snapshotted at add-time plus personal annotations. The entry ID
// identifies the entry itself, not the coin; CoinID is unique within a
// user's watchlist.
type WatchlistEntry struct {
	ID         string    `json:"id"`
	CoinID     string    `json:"coinId"`
	CoinName   string    `json:"coinName"`
	CoinSymbol string    `json:"coinSymbol"`
	CoinImage  string    `json:"coinImage"`
	CoinPrice  float64   `json:"coinPrice"`
	Note       string    `json:"note"`
	Tags       []string  `json:"tags"`
	AddedAt    time.Time `json:"addedAt"`
}

// WatchlistUpdate captures the caller-editable fields of an entry.
type WatchlistUpdate struct {
	Note string   `json:"note"`
	Tags []string `json:"tags"`
}
