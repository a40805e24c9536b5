package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/notecards-app/notecards-api/internal/api"
	apimiddleware "github.com/notecards-app/notecards-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	cardHandler := api.NewCardHandler(app.deckService, app.logger)
	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Public browsing endpoints. Optional authentication widens
		// visibility to the caller's own unpublished decks.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthenticateOptional)
			r.Get("/decks", deckHandler.ListPublishedDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Get("/decks/{deckID}/cards", deckHandler.ListDeckCards)
			r.Get("/users/{userID}/decks", deckHandler.ListUserDecks)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck management
			r.Post("/decks", deckHandler.CreateDeck)
			r.Put("/decks/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)
			r.Post("/decks/{deckID}/clone", deckHandler.CloneDeck)

			// Card management
			r.Post("/decks/{deckID}/cards", cardHandler.CreateCard)
			r.Put("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)

			// Practice
			r.Get("/decks/{deckID}/practice", practiceHandler.GetPracticeCard)
			r.Get("/decks/{deckID}/practice/weak", practiceHandler.GetWeakCard)
			r.Post("/decks/{deckID}/practice/answer", practiceHandler.SubmitAnswer)

			// Card suggestions, only when a generator is configured
			if app.generator != nil {
				suggestHandler := api.NewSuggestHandler(app.deckService, app.generator, app.logger)
				r.Post("/decks/{deckID}/suggest", suggestHandler.SuggestCards)
			}
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
