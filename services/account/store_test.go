package account

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"coinwatch/models"
)

// memKV is an in-memory stand-in for the durable medium.
type memKV struct {
	data    map[string]string
	failSet bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.failSet {
		return errors.New("storage quota exceeded")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func newTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	store := NewStore(kv)
	store.Restore()
	return store
}

func bitcoinSummary() models.CoinSummary {
	return models.CoinSummary{
		ID:           "bitcoin",
		Name:         "Bitcoin",
		Symbol:       "btc",
		Image:        "https://img/btc.png",
		CurrentPrice: 65000,
	}
}

func TestRestoreEmptyMediumIsAnonymous(t *testing.T) {
	store := newTestStore(t, newMemKV())

	if store.User() != nil {
		t.Fatal("expected anonymous session")
	}
	if len(store.Watchlist()) != 0 {
		t.Fatal("expected empty watchlist")
	}
}

func TestLoginWithDemoCredentials(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)

	if !store.Login("demo@example.com", "password") {
		t.Fatal("expected login to succeed")
	}

	user := store.User()
	if user == nil {
		t.Fatal("expected authenticated session")
	}
	if user.ID != "1" || user.Username != "Demo User" || user.Email != "demo@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, ok := kv.data["user"]; !ok {
		t.Fatal("expected user record to be persisted")
	}
	if token, ok := kv.data["token"]; !ok || token == "" {
		t.Fatal("expected token marker to be persisted")
	}
}

func TestLoginWithWrongPasswordStaysAnonymous(t *testing.T) {
	store := newTestStore(t, newMemKV())

	if store.Login("demo@example.com", "wrong") {
		t.Fatal("expected login to fail")
	}
	if store.User() != nil {
		t.Fatal("expected session to remain anonymous")
	}
}

func TestRegisterAlwaysSucceeds(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)

	if !store.Register("alice", "alice@x.com", "pw123456") {
		t.Fatal("expected register to succeed")
	}

	user := store.User()
	if user == nil {
		t.Fatal("expected authenticated session")
	}
	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.ID == "" {
		t.Fatal("expected freshly minted user id")
	}
	if _, ok := kv.data["token"]; !ok {
		t.Fatal("expected token marker to be persisted")
	}
}

func TestRegisterThenAddToWatchlist(t *testing.T) {
	store := newTestStore(t, newMemKV())

	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	watchlist := store.Watchlist()
	if len(watchlist) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(watchlist))
	}

	entry := watchlist[0]
	if entry.CoinPrice != 65000 {
		t.Fatalf("expected price 65000, got %v", entry.CoinPrice)
	}
	if entry.Note != "" {
		t.Fatalf("expected empty note, got %q", entry.Note)
	}
	if entry.Tags == nil || len(entry.Tags) != 0 {
		t.Fatalf("expected empty tags, got %#v", entry.Tags)
	}
	if entry.ID == "" || entry.ID == entry.CoinID {
		t.Fatalf("expected opaque entry id distinct from coin id, got %q", entry.ID)
	}
	if entry.AddedAt.IsZero() {
		t.Fatal("expected AddedAt to be set")
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	store := newTestStore(t, newMemKV())
	store.Register("alice", "alice@x.com", "pw123456")

	store.AddToWatchlist(bitcoinSummary())
	store.AddToWatchlist(bitcoinSummary())

	if got := len(store.Watchlist()); got != 1 {
		t.Fatalf("expected length 1 after duplicate add, got %d", got)
	}
}

func TestAddWithNaNPriceStoresZero(t *testing.T) {
	store := newTestStore(t, newMemKV())
	store.Register("alice", "alice@x.com", "pw123456")

	coin := bitcoinSummary()
	coin.CurrentPrice = math.NaN()
	store.AddToWatchlist(coin)

	if got := store.Watchlist()[0].CoinPrice; got != 0 {
		t.Fatalf("expected price 0, got %v", got)
	}
}

func TestRemoveFromWatchlist(t *testing.T) {
	store := newTestStore(t, newMemKV())
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	store.RemoveFromWatchlist("bitcoin")

	if store.IsInWatchlist("bitcoin") {
		t.Fatal("expected coin to be gone after remove")
	}
	if len(store.Watchlist()) != 0 {
		t.Fatal("expected empty watchlist")
	}
}

func TestRemoveAbsentCoinStillPersists(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	store.RemoveFromWatchlist("no-such-coin")

	if len(store.Watchlist()) != 1 {
		t.Fatal("expected watchlist unchanged")
	}
	var persisted []models.WatchlistEntry
	if err := json.Unmarshal([]byte(kv.data["watchlist"]), &persisted); err != nil {
		t.Fatalf("failed to parse persisted watchlist: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("expected persisted list of 1, got %d", len(persisted))
	}
}

func TestUpdateChangesOnlyNoteAndTags(t *testing.T) {
	store := newTestStore(t, newMemKV())
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	before := store.Watchlist()[0]
	store.UpdateWatchlistItem("bitcoin", "long term hold", []string{"hodl", "layer 1"})
	after := store.Watchlist()[0]

	if after.Note != "long term hold" {
		t.Fatalf("expected updated note, got %q", after.Note)
	}
	if !reflect.DeepEqual(after.Tags, []string{"hodl", "layer 1"}) {
		t.Fatalf("expected updated tags, got %#v", after.Tags)
	}

	after.Note = before.Note
	after.Tags = before.Tags
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected all other fields untouched: before=%+v after=%+v", before, after)
	}
}

func TestUpdateAbsentCoinIsNoOp(t *testing.T) {
	store := newTestStore(t, newMemKV())
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	store.UpdateWatchlistItem("no-such-coin", "note", []string{"tag"})

	entry := store.Watchlist()[0]
	if entry.Note != "" || len(entry.Tags) != 0 {
		t.Fatalf("expected entry untouched, got %+v", entry)
	}
}

func TestAnonymousMutationsAreNoOps(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)

	store.AddToWatchlist(bitcoinSummary())
	store.RemoveFromWatchlist("bitcoin")
	store.UpdateWatchlistItem("bitcoin", "note", []string{"tag"})

	if len(store.Watchlist()) != 0 {
		t.Fatal("expected watchlist to stay empty")
	}
	if _, ok := kv.data["watchlist"]; ok {
		t.Fatal("expected no watchlist record to be written")
	}
	if store.IsInWatchlist("bitcoin") {
		t.Fatal("expected lookup to be false while anonymous")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())

	store.Logout()

	if store.User() != nil {
		t.Fatal("expected anonymous session after logout")
	}
	if len(store.Watchlist()) != 0 {
		t.Fatal("expected empty watchlist after logout")
	}
	for _, key := range []string{"user", "token", "watchlist"} {
		if _, ok := kv.data[key]; ok {
			t.Fatalf("expected %q record to be removed", key)
		}
	}

	// A fresh restore over the same medium must come back anonymous.
	reloaded := newTestStore(t, kv)
	if reloaded.User() != nil || len(reloaded.Watchlist()) != 0 {
		t.Fatal("expected anonymous empty state after reload")
	}
}

func TestWatchlistSurvivesRestore(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)
	store.Register("alice", "alice@x.com", "pw123456")
	store.AddToWatchlist(bitcoinSummary())
	store.AddToWatchlist(models.CoinSummary{ID: "ethereum", Name: "Ethereum", Symbol: "eth", CurrentPrice: 3400})
	store.UpdateWatchlistItem("ethereum", "gas money", []string{"defi"})

	original := store.Watchlist()

	reloaded := newTestStore(t, kv)
	restored := reloaded.Watchlist()

	if len(restored) != len(original) {
		t.Fatalf("expected %d entries, got %d", len(original), len(restored))
	}
	for i := range original {
		if !original[i].AddedAt.Equal(restored[i].AddedAt) {
			t.Fatalf("entry %d AddedAt differs: %v vs %v", i, original[i].AddedAt, restored[i].AddedAt)
		}
		a, b := original[i], restored[i]
		a.AddedAt = b.AddedAt
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("entry %d differs after round trip: %+v vs %+v", i, original[i], restored[i])
		}
	}
}

func TestRestoreDiscardsMalformedUserRecord(t *testing.T) {
	kv := newMemKV()
	kv.data["user"] = "{not json"
	kv.data["token"] = "marker"

	store := newTestStore(t, kv)

	if store.User() != nil {
		t.Fatal("expected anonymous session")
	}
	if _, ok := kv.data["user"]; ok {
		t.Fatal("expected malformed user record to be cleared")
	}
	if _, ok := kv.data["token"]; ok {
		t.Fatal("expected token record to be cleared")
	}
}

func TestRestoreDiscardsNonListWatchlist(t *testing.T) {
	kv := newMemKV()
	kv.data["user"] = `{"id":"1","username":"Demo User","email":"demo@example.com"}`
	kv.data["token"] = "marker"
	kv.data["watchlist"] = `{"coinId":"bitcoin"}`

	store := newTestStore(t, kv)

	if store.User() == nil {
		t.Fatal("expected session to survive")
	}
	if len(store.Watchlist()) != 0 {
		t.Fatal("expected empty watchlist")
	}
	if _, ok := kv.data["watchlist"]; ok {
		t.Fatal("expected malformed watchlist record to be cleared")
	}
}

func TestRestoreDropsOrphanedWatchlist(t *testing.T) {
	kv := newMemKV()
	kv.data["watchlist"] = `[{"id":"a","coinId":"bitcoin"}]`

	store := newTestStore(t, kv)

	if len(store.Watchlist()) != 0 {
		t.Fatal("expected orphaned watchlist to be dropped")
	}
	if _, ok := kv.data["watchlist"]; ok {
		t.Fatal("expected orphaned watchlist record to be cleared")
	}
}

func TestRestoreRequiresBothUserAndToken(t *testing.T) {
	kv := newMemKV()
	kv.data["user"] = `{"id":"1","username":"Demo User","email":"demo@example.com"}`

	store := newTestStore(t, kv)

	if store.User() != nil {
		t.Fatal("expected anonymous session without token marker")
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	kv := newMemKV()
	store := newTestStore(t, kv)
	store.Register("alice", "alice@x.com", "pw123456")

	kv.failSet = true
	store.AddToWatchlist(bitcoinSummary())

	if len(store.Watchlist()) != 1 {
		t.Fatal("expected in-memory watchlist to keep the entry")
	}
	if store.IsInWatchlist("bitcoin") != true {
		t.Fatal("expected lookup to see the entry")
	}
}

func TestOperationBeforeRestorePanics(t *testing.T) {
	store := NewStore(newMemKV())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for operation before Restore")
		}
	}()
	store.Login("demo@example.com", "password")
}
