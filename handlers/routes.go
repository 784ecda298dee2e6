package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the dashboard API on the router.
func RegisterRoutes(r *mux.Router, auth *AuthHandler, watchlist *WatchlistHandler, markets *MarketsHandler) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", auth.Session).Methods(http.MethodGet)

	api.HandleFunc("/watchlist", watchlist.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", watchlist.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{coinId}", watchlist.Update).Methods(http.MethodPut)
	api.HandleFunc("/watchlist/{coinId}", watchlist.Remove).Methods(http.MethodDelete)

	api.HandleFunc("/coins", markets.Coins).Methods(http.MethodGet)
	api.HandleFunc("/coins/{coinId}", markets.CoinDetail).Methods(http.MethodGet)
	api.HandleFunc("/trending", markets.Trending).Methods(http.MethodGet)
}
