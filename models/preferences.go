package models

// Preferences is the per-user record stored at users/{uid}/preferences.
type Preferences struct {
	// DeletedAutoForkedDecks holds origin deck ids the user has explicitly
	// removed. Membership is a permanent opt-out: reconciliation never
	// re-forks a listed deck, regardless of its autoForkForAll state.
	DeletedAutoForkedDecks []string `json:"deletedAutoForkedDecks,omitempty"`
}

// HasDeleted reports whether the origin deck id is opted out.
func (p Preferences) HasDeleted(deckID string) bool {
	for _, id := range p.DeletedAutoForkedDecks {
		if id == deckID {
			return true
		}
	}
	return false
}

// AddDeleted appends the origin deck id if not already present and reports
// whether the list changed. The stored list may contain duplicates written
// by older clients, so callers should Dedupe before persisting.
func (p *Preferences) AddDeleted(deckID string) bool {
	if p.HasDeleted(deckID) {
		return false
	}
	p.DeletedAutoForkedDecks = append(p.DeletedAutoForkedDecks, deckID)
	return true
}

// Dedupe removes duplicate entries in place, keeping first occurrences.
func (p *Preferences) Dedupe() {
	seen := make(map[string]struct{}, len(p.DeletedAutoForkedDecks))
	out := p.DeletedAutoForkedDecks[:0]
	for _, id := range p.DeletedAutoForkedDecks {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	p.DeletedAutoForkedDecks = out
}
