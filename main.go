package main

import (
	"log"
	"net/http"
	"os"

	"github.com/deckforge/deckforge-api/config"
	"github.com/deckforge/deckforge-api/engine"
	"github.com/deckforge/deckforge-api/handlers"
	"github.com/deckforge/deckforge-api/middleware"
	"github.com/deckforge/deckforge-api/store"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection and the document store on top of it
	config.Connect()
	deckStore, err := store.NewGormStore(config.Database)
	if err != nil {
		log.Fatalf("main: failed to initialize store: %v", err)
	}

	authMiddleware := middleware.EnsureValidToken()
	apiHandler := &handlers.APIHandler{Engine: engine.New(deckStore)}
	mux := http.NewServeMux()

	// Public gallery
	mux.HandleFunc("GET /api/decks", apiHandler.GetPublicDecks)
	mux.HandleFunc("GET /api/decks/{deckID}", apiHandler.GetPublicDeck)
	mux.HandleFunc("POST /api/decks/{deckID}/fork", middleware.RequireIdentity(apiHandler.ForkDeck))

	// Private collection
	mux.HandleFunc("GET /api/me/decks", middleware.RequireIdentity(apiHandler.GetMyDecks))
	mux.HandleFunc("POST /api/me/decks", middleware.RequireIdentity(apiHandler.CreateDeck))
	mux.HandleFunc("GET /api/me/decks/{deckID}", middleware.RequireIdentity(apiHandler.GetMyDeck))
	mux.HandleFunc("PUT /api/me/decks/{deckID}", middleware.RequireIdentity(apiHandler.UpdateDeck))
	mux.HandleFunc("DELETE /api/me/decks/{deckID}", middleware.RequireIdentity(apiHandler.DeleteDeck))
	mux.HandleFunc("POST /api/me/decks/{deckID}/share", middleware.RequireIdentity(apiHandler.ShareDeck))
	mux.HandleFunc("POST /api/me/reconcile", middleware.RequireIdentity(apiHandler.Reconcile))

	// Cards
	mux.HandleFunc("POST /api/me/decks/{deckID}/cards", middleware.RequireIdentity(apiHandler.AddCard))
	mux.HandleFunc("PUT /api/me/decks/{deckID}/cards/{cardID}", middleware.RequireIdentity(apiHandler.UpdateCard))
	mux.HandleFunc("DELETE /api/me/decks/{deckID}/cards/{cardID}", middleware.RequireIdentity(apiHandler.DeleteCard))
	mux.HandleFunc("POST /api/me/decks/{deckID}/cards/{cardID}/review", middleware.RequireIdentity(apiHandler.ReviewCard))

	// Admin curation
	mux.HandleFunc("POST /api/admin/decks/{deckID}/autofork", middleware.RequireAdmin(apiHandler.SetAutoFork))
	mux.HandleFunc("POST /api/admin/decks/{deckID}/retract", middleware.RequireAdmin(apiHandler.RetractAutoFork))

	// Sessions
	mux.HandleFunc("POST /api/users", handlers.AddUser)
	mux.HandleFunc("GET /api/session", handlers.GetSession)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:19006", "https://deckforge.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	// Server configuration

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	http.ListenAndServe(serverAddr, corsHandler)
}
