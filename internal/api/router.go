/**
 * @description
 * This file sets up the HTTP router for the wallet-service using the go-chi/chi
 * router. It defines the API routes, applies middleware for logging, CORS, and
 * authentication, and maps the routes to their corresponding handler functions.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: The HTTP router.
 * - github.com/go-chi/cors: CORS middleware for browser clients.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the wallet-service routes.
func NewRouter(h *WalletHandlers, adminAPIKey string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		// Health check endpoint
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.LoginHandler)
			r.Post("/register", h.RegisterHandler)
			r.Post("/check-user", h.CheckUserHandler)

			// Session-scoped route that requires a Bearer token.
			r.Group(func(r chi.Router) {
				r.Use(SessionAuthMiddleware(h.jwtSecret))
				r.Get("/me", h.MeHandler)
			})
		})

		r.Get("/user/{userID}", h.GetUserHandler)

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/topup", h.TopUpHandler)
			r.Post("/withdraw", h.WithdrawHandler)
			r.Post("/send", h.SendMoneyHandler)
			r.Get("/{userID}", h.ListTransactionsHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/{userID}", h.ListNotificationsHandler)
			r.Post("/{notificationID}/read", h.MarkNotificationReadHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminKeyMiddleware(adminAPIKey))
			r.Get("/transactions/pending", h.ListPendingHandler)
			r.Post("/transactions/{transactionID}/approve", h.ApproveTransactionHandler)
			r.Post("/transactions/{transactionID}/reject", h.RejectTransactionHandler)
			r.Get("/stats", h.StatsHandler)
		})
	})

	// Serve uploaded transfer proofs as static files.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
