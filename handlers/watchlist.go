package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"coinwatch/models"
	"coinwatch/utils/filter"
)

// WatchlistHandler exposes the personal watchlist CRUD surface.
type WatchlistHandler struct {
	Store accountStore
}

func NewWatchlistHandler(store accountStore) *WatchlistHandler {
	return &WatchlistHandler{Store: store}
}

// List returns the watchlist snapshot, optionally narrowed by ?tag= and
// ?search= query parameters.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store.User() == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		return
	}

	entries := filter.Entries(h.Store.Watchlist(), filter.Options{
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"items": entries,
		"count": len(entries),
	})
}

// Add snapshots a coin summary into a new watchlist entry. Duplicate adds
// come back 200 with the unchanged snapshot; the caller owns the messaging.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	if h.Store.User() == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		return
	}

	var coin models.CoinSummary
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&coin); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if coin.ID == "" {
		http.Error(w, "missing coin id", http.StatusBadRequest)
		return
	}

	h.Store.AddToWatchlist(coin)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.Store.Watchlist()})
}

// Update replaces the note and tags of the entry for the coin id.
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Store.User() == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		return
	}

	coinID := mux.Vars(r)["coinId"]
	if !h.Store.IsInWatchlist(coinID) {
		http.Error(w, "coin not in watchlist", http.StatusNotFound)
		return
	}

	var update models.WatchlistUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Store.UpdateWatchlistItem(coinID, update.Note, update.Tags)
	writeJSON(w, http.StatusOK, map[string]any{"items": h.Store.Watchlist()})
}

// Remove drops the entry for the coin id. Removing an absent coin is fine.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if h.Store.User() == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		return
	}

	h.Store.RemoveFromWatchlist(mux.Vars(r)["coinId"])
	w.WriteHeader(http.StatusNoContent)
}
