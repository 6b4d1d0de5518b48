package models

// ForkRef is a denormalized snapshot of the deck a record was copied from.
// It is not a live pointer; renaming the source later does not update it.
type ForkRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatorName string `json:"creatorName"`
}

// Deck represents a deck record as stored at any of the three deck paths.
// The private copy under users/{uid}/decks is authoritative; the public and
// shared copies are denormalized snapshots.
type Deck struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatorID   string `json:"creatorId"`
	CreatorName string `json:"creatorName,omitempty"`

	// Owner and OwnerEmail are only populated on the public mirror.
	Owner      string `json:"owner,omitempty"`
	OwnerEmail string `json:"ownerEmail,omitempty"`

	IsShared            bool       `json:"isShared"`
	AutoForkForAll      bool       `json:"autoForkForAll,omitempty"`
	RemovedFromAutoFork bool       `json:"removedFromAutoFork,omitempty"`
	RemovedAt           *Timestamp `json:"removedAt,omitempty"`
	RemovedBy           string     `json:"removedBy,omitempty"`

	ForkedFrom *ForkRef `json:"forkedFrom,omitempty"`
	AutoForked bool     `json:"autoForked,omitempty"`

	Cards CardMap `json:"cards,omitempty"`
}

// KnownCount reports how many cards the user has marked known.
func (d Deck) KnownCount() int {
	count := 0
	for _, c := range d.Cards {
		if c.IsKnown {
			count++
		}
	}
	return count
}
