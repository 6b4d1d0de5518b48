package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/deckforge/deckforge-api/auth"
	"github.com/deckforge/deckforge-api/config"
	"github.com/deckforge/deckforge-api/models"
)

// POST /api/users
//
// Session bootstrap for clients outside the Auth0 flow: issues the
// first-party token as an HttpOnly cookie.
func AddUser(w http.ResponseWriter, r *http.Request) {
	ident := new(models.Identity)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&ident); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Println("Decoding error:", err)
		return
	}
	if ident.ID == "" {
		http.Error(w, "User id is required", http.StatusBadRequest)
		return
	}
	// Role claims come from the validated token, never from the request.
	ident.Roles = nil

	tokenString, err := auth.CreateToken(*ident)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		log.Println("Token generation error:", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    tokenString,
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	response := map[string]interface{}{
		"user": ident,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
	log.Printf("AddUser: session created for %s", ident.ID)
}

// GET /api/session
func GetSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ident, err := auth.VerifyToken(cookie.Value)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ident)
}
