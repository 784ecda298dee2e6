package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"coinwatch/models"
	"coinwatch/services/coingecko"
)

// marketClient is the market-data surface the HTTP layer consumes.
type marketClient interface {
	GetCoinMarkets(ctx context.Context, page, perPage int) ([]models.Coin, error)
	GetCoinDetails(ctx context.Context, coinID string) (*models.CoinDetail, error)
	GetTrendingCoins(ctx context.Context) ([]models.Coin, error)
}

var _ marketClient = (*coingecko.Client)(nil)

// MarketsHandler proxies the market-data provider for the dashboard pages.
// Provider failures come back as 502 with the error text; there is no retry.
type MarketsHandler struct {
	Client marketClient
}

func NewMarketsHandler(client marketClient) *MarketsHandler {
	return &MarketsHandler{Client: client}
}

// Coins returns one page of the market listing.
func (h *MarketsHandler) Coins(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 100)

	coins, err := h.Client.GetCoinMarkets(r.Context(), page, perPage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, coins)
}

// CoinDetail returns the full figures for a single coin.
func (h *MarketsHandler) CoinDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Client.GetCoinDetails(r.Context(), mux.Vars(r)["coinId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Trending returns the trending coins with full market figures.
func (h *MarketsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	coins, err := h.Client.GetTrendingCoins(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, coins)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
