package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/deckforge/deckforge-api/utils"
)

// POST /api/admin/decks/{deckID}/autofork
func (h *APIHandler) SetAutoFork(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	type AutoForkRequest struct {
		Enabled bool `json:"enabled"`
	}
	var req AutoForkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.SetAutoForkForAll(r.Context(), ident, deckID, req.Enabled); err != nil {
		log.Printf("SetAutoFork: Failed for deck %s: %v", deckID, err)
		http.Error(w, "Failed to update auto-fork", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"autoForkForAll": req.Enabled})
}

// POST /api/admin/decks/{deckID}/retract
//
// Retraction is irreversible and touches every user's collection on their
// next session, so the request must carry both confirmation flags.
func (h *APIHandler) RetractAutoFork(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	type RetractRequest struct {
		Confirm            bool `json:"confirm"`
		ConfirmPropagation bool `json:"confirmPropagation"`
	}
	var req RetractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Confirm || !req.ConfirmPropagation {
		http.Error(w, "Retraction requires both confirmations", http.StatusBadRequest)
		return
	}

	if err := h.RemoveAllAutoForkedCopies(r.Context(), ident, deckID); err != nil {
		log.Printf("RetractAutoFork: Failed for deck %s: %v", deckID, err)
		http.Error(w, "Failed to retract deck", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "success"})
}
