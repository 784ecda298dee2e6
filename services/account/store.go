package account

import (
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"coinwatch/models"
	"coinwatch/utils"
)

// Fixed record names in the durable medium.
const (
	keyUser      = "user"
	keyToken     = "token"
	keyWatchlist = "watchlist"
)

// Simulated credential pair accepted by Login. There is no user database;
// any other input fails.
const (
	demoEmail    = "demo@example.com"
	demoPassword = "password"
	demoUserID   = "1"
	demoUsername = "Demo User"
)

// fallbackToken keeps the session restorable even when token generation
// fails. Only the marker's presence matters, never its value.
const fallbackToken = "session-active"

// KV is the durable storage medium behind the store: three independent
// string-keyed records, each holding one serialized value.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store owns the current session and watchlist. Every mutation is mirrored
// wholesale into the KV medium; the in-memory state stays the source of truth
// even when a write fails. All mutating operations re-check authentication
// themselves, so handler-level gating is advisory only.
type Store struct {
	mu        sync.RWMutex
	kv        KV
	user      *models.User
	watchlist []models.WatchlistEntry
	restored  bool

	now   func() time.Time
	newID func() string
}

// NewStore creates a store over the given medium. Restore must be called
// before any other operation.
func NewStore(kv KV) *Store {
	return &Store{
		kv:        kv,
		watchlist: []models.WatchlistEntry{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Restore loads the session and watchlist records from the medium. Each
// record is parsed independently; a malformed record is discarded and reset
// to empty rather than reported. Restore never fails the caller.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = s.restoreUser()

	watchlist := s.restoreWatchlist()
	if s.user == nil && len(watchlist) > 0 {
		// A watchlist without a session is orphaned.
		log.Printf("[account] dropping orphaned watchlist of %d entries", len(watchlist))
		s.discard(keyWatchlist)
		watchlist = []models.WatchlistEntry{}
	}

	s.watchlist = watchlist
	s.restored = true
}

func (s *Store) restoreUser() *models.User {
	rawUser, haveUser, err := s.kv.Get(keyUser)
	if err != nil {
		log.Printf("[account] failed to read user record: %v", err)
		return nil
	}
	_, haveToken, err := s.kv.Get(keyToken)
	if err != nil {
		log.Printf("[account] failed to read token record: %v", err)
		return nil
	}

	// A session is only valid when both the user record and the token
	// marker are present.
	if !haveUser || !haveToken {
		if haveUser || haveToken {
			s.discard(keyUser)
			s.discard(keyToken)
		}
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		log.Printf("[account] discarding malformed user record: %v", err)
		s.discard(keyUser)
		s.discard(keyToken)
		return nil
	}
	return &user
}

func (s *Store) restoreWatchlist() []models.WatchlistEntry {
	raw, ok, err := s.kv.Get(keyWatchlist)
	if err != nil {
		log.Printf("[account] failed to read watchlist record: %v", err)
		return []models.WatchlistEntry{}
	}
	if !ok {
		return []models.WatchlistEntry{}
	}

	var watchlist []models.WatchlistEntry
	if err := json.Unmarshal([]byte(raw), &watchlist); err != nil {
		log.Printf("[account] discarding malformed watchlist record: %v", err)
		s.discard(keyWatchlist)
		return []models.WatchlistEntry{}
	}
	if watchlist == nil {
		watchlist = []models.WatchlistEntry{}
	}
	return watchlist
}

// Login checks the submitted credentials against the simulated pair. On
// success it installs the fixed demo identity and persists the session;
// any other input reports failure and leaves the session anonymous.
func (s *Store) Login(email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	if email != demoEmail || password != demoPassword {
		log.Printf("[account] login failed for %q", email)
		return false
	}

	s.user = &models.User{
		ID:       demoUserID,
		Username: demoUsername,
		Email:    email,
	}
	s.persistSession()
	return true
}

// Register always succeeds: there is no user database to collide with. The
// new identity gets a freshly minted id and is persisted like a login.
func (s *Store) Register(username, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	s.user = &models.User{
		ID:       s.newID(),
		Username: username,
		Email:    email,
	}
	s.persistSession()
	return true
}

// Logout clears the session and watchlist from memory and removes all three
// records from the medium.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	s.user = nil
	s.watchlist = []models.WatchlistEntry{}
	s.discard(keyUser)
	s.discard(keyToken)
	s.discard(keyWatchlist)
}

// AddToWatchlist appends a new entry built from the coin summary. Anonymous
// calls and duplicate coin ids are silent no-ops.
func (s *Store) AddToWatchlist(coin models.CoinSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	if s.user == nil {
		log.Printf("[account] refusing watchlist add while anonymous")
		return
	}
	if s.containsLocked(coin.ID) {
		return
	}

	price := coin.CurrentPrice
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}

	s.watchlist = append(s.watchlist, models.WatchlistEntry{
		ID:         s.newID(),
		CoinID:     coin.ID,
		CoinName:   coin.Name,
		CoinSymbol: coin.Symbol,
		CoinImage:  coin.Image,
		CoinPrice:  price,
		Note:       "",
		Tags:       []string{},
		AddedAt:    s.now(),
	})
	s.persistWatchlist()
}

// RemoveFromWatchlist drops the entry with the given coin id, if any, and
// persists the resulting list either way. Anonymous calls are no-ops.
func (s *Store) RemoveFromWatchlist(coinID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	if s.user == nil {
		log.Printf("[account] refusing watchlist remove while anonymous")
		return
	}

	kept := s.watchlist[:0]
	for _, entry := range s.watchlist {
		if entry.CoinID != coinID {
			kept = append(kept, entry)
		}
	}
	s.watchlist = kept
	s.persistWatchlist()
}

// UpdateWatchlistItem replaces the note and tags of the matching entry,
// leaving every other field untouched. No match is a no-op; anonymous calls
// are no-ops.
func (s *Store) UpdateWatchlistItem(coinID, note string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustRestored()

	if s.user == nil {
		log.Printf("[account] refusing watchlist update while anonymous")
		return
	}

	for i := range s.watchlist {
		if s.watchlist[i].CoinID == coinID {
			s.watchlist[i].Note = note
			s.watchlist[i].Tags = append([]string{}, tags...)
			break
		}
	}
	s.persistWatchlist()
}

// IsInWatchlist reports whether an entry exists for the coin id. It is a
// pure lookup and is callable while anonymous (always false then).
func (s *Store) IsInWatchlist(coinID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustRestored()

	return s.containsLocked(coinID)
}

// User returns the current session identity, or nil while anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustRestored()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Watchlist returns a snapshot of the current watchlist in insertion order.
func (s *Store) Watchlist() []models.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustRestored()

	snapshot := make([]models.WatchlistEntry, len(s.watchlist))
	copy(snapshot, s.watchlist)
	return snapshot
}

func (s *Store) containsLocked(coinID string) bool {
	for _, entry := range s.watchlist {
		if entry.CoinID == coinID {
			return true
		}
	}
	return false
}

// persistSession writes the user record and a fresh opaque token marker.
// Write failures are logged and swallowed; the in-memory session stands.
func (s *Store) persistSession() {
	data, err := json.Marshal(s.user)
	if err != nil {
		log.Printf("[account] failed to serialize user record: %v", err)
		return
	}
	if err := s.kv.Set(keyUser, string(data)); err != nil {
		log.Printf("[account] failed to persist user record: %v", err)
	}

	token, err := utils.GenerateToken()
	if err != nil {
		log.Printf("[account] failed to generate session token: %v", err)
		token = fallbackToken
	}
	if err := s.kv.Set(keyToken, token); err != nil {
		log.Printf("[account] failed to persist token record: %v", err)
	}
}

// persistWatchlist re-serializes the entire watchlist. Write failures are
// logged and swallowed.
func (s *Store) persistWatchlist() {
	data, err := json.Marshal(s.watchlist)
	if err != nil {
		log.Printf("[account] failed to serialize watchlist: %v", err)
		return
	}
	if err := s.kv.Set(keyWatchlist, string(data)); err != nil {
		log.Printf("[account] failed to persist watchlist: %v", err)
	}
}

func (s *Store) discard(key string) {
	if err := s.kv.Delete(key); err != nil {
		log.Printf("[account] failed to clear %q record: %v", key, err)
	}
}

// mustRestored guards against operations issued before Restore. That is a
// programmer error, not a runtime condition, so it panics.
func (s *Store) mustRestored() {
	if !s.restored {
		panic("account: store operation before Restore")
	}
}
