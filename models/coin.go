package models

// Coin represents one row of the market listing, sorted by descending market cap.
type Coin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
}

// CoinDetail carries the full figures for a single coin page. It is the flattened
// form of the provider's nested detail response: prices are the USD quotes, the
// description has HTML tags stripped, and Homepage is the first listed link.
type CoinDetail struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64 `json:"price_change_percentage_7d"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	CirculatingSupply        float64 `json:"circulating_supply"`
	TotalSupply              float64 `json:"total_supply"`
	MaxSupply                float64 `json:"max_supply"`
	MarketCapRank            int     `json:"market_cap_rank"`
	Description              string  `json:"description"`
	Homepage                 string  `json:"homepage"`
}

// CoinSummary is the subset of market data snapshotted into a watchlist entry
// at add-time. Field names mirror the provider's market listing payload.
type CoinSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	Image        string  `json:"image"`
	CurrentPrice float64 `json:"current_price"`
}
