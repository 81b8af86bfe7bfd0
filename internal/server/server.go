package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/middleware"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
	ws "github.com/dukerupert/shoplist/internal/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Config struct {
	Tokens         *auth.TokenIssuer
	AllowedOrigins []string
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	tokens      *auth.TokenIssuer
	origins     []string
	userStore   *store.UserStore
	authH       *handler.AuthHandler
	listH       *handler.ShoppingListHandler
	categoryH   *handler.CategoryHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	shoppingStore := store.NewShoppingStore(db)
	categoryStore := store.NewCategoryStore(db)

	svc := shopping.NewService(shoppingStore, categoryStore, logger)

	return &Server{
		db:          db,
		hub:         hub,
		tokens:      cfg.Tokens,
		origins:     cfg.AllowedOrigins,
		userStore:   userStore,
		authH:       handler.NewAuthHandler(userStore, cfg.Tokens, logger.With("component", "auth")),
		listH:       handler.NewShoppingListHandler(svc, hub, logger.With("component", "shopping_list")),
		categoryH:   handler.NewCategoryHandler(svc, hub, logger.With("component", "category")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.userStore, s.logger.With("component", "auth"))
	outerMux.Handle("/", authMiddleware(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return otelhttp.NewHandler(logged, "shoplist",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/profile", s.authH.Profile)

	// Category routes
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.Handle("POST /api/categories", middleware.RequireAdmin(http.HandlerFunc(s.categoryH.Create)))
	mux.HandleFunc("PATCH /api/users/me/category-order", s.categoryH.Reorder)
	mux.HandleFunc("PATCH /api/products/{id}", s.categoryH.SetProductCategory)

	// Shopping list routes
	mux.HandleFunc("POST /api/shopping-lists", s.listH.Create)
	mux.HandleFunc("GET /api/shopping-lists", s.listH.List)
	mux.HandleFunc("GET /api/shopping-lists/{id}", s.listH.Get)
	mux.HandleFunc("PATCH /api/shopping-lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}", s.listH.Delete)

	// Item routes
	mux.HandleFunc("POST /api/shopping-lists/{id}/items", s.listH.AddItem)
	mux.HandleFunc("PATCH /api/shopping-lists/{id}/items/{item_id}", s.listH.UpdateItem)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}/items/{item_id}", s.listH.DeleteItem)
	mux.HandleFunc("POST /api/shopping-lists/{id}/clear-checked", s.listH.ClearChecked)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.origins, s.logger.With("component", "websocket")))
}
