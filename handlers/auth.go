package handlers

import (
	"encoding/json"
	"net/http"

	"coinwatch/models"
	accountsvc "coinwatch/services/account"
)

// accountStore is the store surface the HTTP layer consumes. Authorization
// checks here are purely advisory; the store re-checks on every mutation.
type accountStore interface {
	Login(email, password string) bool
	Register(username, email, password string) bool
	Logout()
	AddToWatchlist(coin models.CoinSummary)
	RemoveFromWatchlist(coinID string)
	UpdateWatchlistItem(coinID, note string, tags []string)
	IsInWatchlist(coinID string) bool
	User() *models.User
	Watchlist() []models.WatchlistEntry
}

var _ accountStore = (*accountsvc.Store)(nil)

// AuthHandler exposes the simulated login, registration and session state.
type AuthHandler struct {
	Store accountStore
}

func NewAuthHandler(store accountStore) *AuthHandler {
	return &AuthHandler{Store: store}
}

// Login checks the submitted credentials and starts a session on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.Store.Login(request.Email, request.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": h.Store.User()})
}

// Register creates a fresh simulated identity. It cannot fail.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Store.Register(request.Username, request.Email, request.Password)
	writeJSON(w, http.StatusCreated, map[string]any{"user": h.Store.User()})
}

// Logout ends the session and discards the watchlist.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Store.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the current identity (null while anonymous) and the
// watchlist snapshot, so the UI can hydrate in one call.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user":      h.Store.User(),
		"watchlist": h.Store.Watchlist(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
