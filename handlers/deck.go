package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/deckforge/deckforge-api/engine"
	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/utils"
)

type APIHandler struct {
	*engine.Engine
}

// GET /api/me/decks
func (h *APIHandler) GetMyDecks(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	decks, err := h.UserDecks(r.Context(), ident)
	if err != nil {
		log.Printf("GetMyDecks: failed to fetch decks for %s: %v", ident.ID, err)
		http.Error(w, "Failed to fetch decks", statusForError(err))
		return
	}

	// Return an empty array instead of null
	if decks == nil {
		decks = []models.Deck{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(decks); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// POST /api/me/decks
func (h *APIHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		log.Printf("CreateDeck: Unauthorized request")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	type CreateDeckRequest struct {
		Name  string         `json:"name"`
		Cards models.CardMap `json:"cards"`
	}
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("CreateDeck: Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Deck name is required", http.StatusBadRequest)
		return
	}

	deck, err := h.Engine.CreateDeck(r.Context(), ident, req.Name, req.Cards)
	if err != nil {
		log.Printf("CreateDeck: Failed to create deck for %s: %v", ident.ID, err)
		http.Error(w, "Failed to create deck", statusForError(err))
		return
	}

	log.Printf("CreateDeck: Successfully created deck %s for %s", deck.ID, ident.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(deck)
}

// GET /api/me/decks/{deckID}
func (h *APIHandler) GetMyDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")
	deck, err := h.UserDeck(r.Context(), ident, deckID)
	if err != nil {
		log.Printf("GetMyDeck: Deck not found for id=%s: %v", deckID, err)
		http.Error(w, "Deck not found", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deck)
}

// PUT /api/me/decks/{deckID}
func (h *APIHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	type UpdateDeckRequest struct {
		Name *string `json:"name,omitempty"`
	}
	var req UpdateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("UpdateDeck: Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != nil {
		if err := h.RenameDeck(r.Context(), ident, deckID, *req.Name); err != nil {
			log.Printf("UpdateDeck: Failed to rename deck %s: %v", deckID, err)
			http.Error(w, "Failed to update deck", statusForError(err))
			return
		}
	}

	deck, err := h.UserDeck(r.Context(), ident, deckID)
	if err != nil {
		http.Error(w, "Deck not found", statusForError(err))
		return
	}

	log.Printf("UpdateDeck: Successfully updated deck %s", deckID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deck)
}

// DELETE /api/me/decks/{deckID}
func (h *APIHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")
	if err := h.Engine.DeleteDeck(r.Context(), ident, deckID); err != nil {
		log.Printf("DeleteDeck: Failed to delete deck %s: %v", deckID, err)
		http.Error(w, "Failed to delete deck", statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
