package models

// RoleAdmin marks the identity allowed to write sharedDecks and retract
// auto-forked decks.
const RoleAdmin = "admin"

// Identity is a snapshot of the current user taken from the validated token.
// Engine operations receive it as a parameter rather than reaching into a
// process-wide auth client.
type Identity struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Resolved reports whether there is a signed-in user behind this snapshot.
func (i Identity) Resolved() bool {
	return i.ID != ""
}

func (i Identity) IsAdmin() bool {
	for _, role := range i.Roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

// BestName resolves a display name for denormalized creator fields.
func (i Identity) BestName() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		return i.Email
	}
	return i.ID
}
