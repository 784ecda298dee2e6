package filter

import (
	"strings"

	"coinwatch/models"
)

// Options narrows a watchlist snapshot for display.
type Options struct {
	Tag    string // keep entries carrying this tag (case-insensitive)
	Search string // keep entries whose name or symbol contains this term
}

// Entries filters watchlist entries by tag and search term. Empty options
// return the input unchanged. Order is preserved.
func Entries(entries []models.WatchlistEntry, opts Options) []models.WatchlistEntry {
	tag := strings.ToLower(strings.TrimSpace(opts.Tag))
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	if tag == "" && search == "" {
		return entries
	}

	filtered := make([]models.WatchlistEntry, 0, len(entries))
	for _, entry := range entries {
		if tag != "" && !hasTag(entry, tag) {
			continue
		}
		if search != "" && !matchesSearch(entry, search) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func hasTag(entry models.WatchlistEntry, tag string) bool {
	for _, candidate := range entry.Tags {
		if strings.ToLower(strings.TrimSpace(candidate)) == tag {
			return true
		}
	}
	return false
}

func matchesSearch(entry models.WatchlistEntry, term string) bool {
	return strings.Contains(strings.ToLower(entry.CoinName), term) ||
		strings.Contains(strings.ToLower(entry.CoinSymbol), term)
}

// ParseTags splits a comma-separated tag string the way the edit form
// submits it, dropping empties.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
