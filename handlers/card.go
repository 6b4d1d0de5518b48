package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/deckforge/deckforge-api/engine"
	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/utils"
)

// POST /api/me/decks/{deckID}/cards
func (h *APIHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	type CardRequestData struct {
		Front          string `json:"front"`
		Back           string `json:"back"`
		SampleSentence string `json:"sampleSentence"`
	}
	var req CardRequestData
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}
	if req.Front == "" || req.Back == "" {
		http.Error(w, "Each card must have a front and back", http.StatusBadRequest)
		return
	}

	card := models.Card{
		Front:          req.Front,
		Back:           req.Back,
		SampleSentence: req.SampleSentence,
	}
	cardID, err := h.Engine.AddCard(r.Context(), ident, deckID, card)
	if err != nil {
		log.Printf("AddCard: Failed to add card to deck %s: %v", deckID, err)
		http.Error(w, "Failed to create card", statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": cardID})
}

// PUT /api/me/decks/{deckID}/cards/{cardID}
func (h *APIHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")
	cardID := r.PathValue("cardID")

	var update engine.CardUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Engine.UpdateCard(r.Context(), ident, deckID, cardID, update); err != nil {
		log.Printf("UpdateCard: Failed to update card %s/%s: %v", deckID, cardID, err)
		http.Error(w, "Failed to update card", statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DELETE /api/me/decks/{deckID}/cards/{cardID}
func (h *APIHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Not authorized", http.StatusForbidden)
		return
	}

	deckID := r.PathValue("deckID")
	cardID := r.PathValue("cardID")

	if err := h.Engine.DeleteCard(r.Context(), ident, deckID, cardID); err != nil {
		log.Printf("DeleteCard: Failed to delete card %s/%s: %v", deckID, cardID, err)
		http.Error(w, "Failed to delete card", statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/me/decks/{deckID}/cards/{cardID}/review
func (h *APIHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	ident, ok := utils.GetIdentity(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := r.PathValue("deckID")
	cardID := r.PathValue("cardID")

	type ReviewRequest struct {
		Known bool `json:"known"`
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.MarkCardReviewed(r.Context(), ident, deckID, cardID, req.Known); err != nil {
		log.Printf("ReviewCard: Failed to mark card %s/%s: %v", deckID, cardID, err)
		http.Error(w, "Failed to record review", statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
