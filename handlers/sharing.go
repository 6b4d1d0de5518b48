package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/deckforge/deckforge-api/engine"
	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/utils"
)

// GET /api/decks
func (h *APIHandler) GetPublicDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.PublicDecks(r.Context())
	if err != nil {
		log.Printf("GetPublicDecks: Failed to fetch gallery: %v", err)
		http.Error(w, "Failed to fetch decks", statusForError(err))
		return
	}

	if decks == nil {
		decks = []models.Deck{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

// GET /api/decks/{deckID}
func (h *APIHandler) GetPublicDeck(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	deck, err := h.PublicDeck(r.Context(), deckID)
	if err != nil {
		log.Printf("GetPublicDeck: Deck not found for id=%s: %v", deckID, err)
		http.Error(w, "Deck not found", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deck)
}

// POST /api/me/decks/{deckID}/share
func (h *APIHandler) ShareDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	// Body is optional; without it the current value is toggled.
	type ShareRequest struct {
		Shared *bool `json:"shared,omitempty"`
	}
	var req ShareRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	shared, err := h.Share(r.Context(), ident, deckID, req.Shared)
	if err != nil {
		log.Printf("ShareDeck: Failed to share deck %s: %v", deckID, err)
		http.Error(w, "Failed to update sharing", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isShared": shared})
}

// POST /api/decks/{deckID}/fork
func (h *APIHandler) ForkDeck(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	type ForkRequest struct {
		Name string `json:"name,omitempty"`
	}
	var req ForkRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	src, err := h.SourceDeck(r.Context(), deckID)
	if err != nil {
		log.Printf("ForkDeck: Source deck not found for id=%s: %v", deckID, err)
		http.Error(w, "Deck not found", statusForError(err))
		return
	}

	newID, err := h.Fork(r.Context(), ident, src, engine.ForkOptions{Name: req.Name})
	if err != nil || newID == "" {
		log.Printf("ForkDeck: Failed to fork deck %s for %s: %v", deckID, ident.ID, err)
		http.Error(w, "Failed to fork deck", statusForError(err))
		return
	}

	log.Printf("ForkDeck: Successfully forked deck %s as %s for %s", deckID, newID, ident.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": newID})
}

// POST /api/me/reconcile
func (h *APIHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.Engine.Reconcile(r.Context(), ident)
	if err != nil {
		log.Printf("Reconcile: Failed for %s: %v", ident.ID, err)
		http.Error(w, "Failed to reconcile decks", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
