package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"hackdash/internal/auth"
	"hackdash/internal/config"
	"hackdash/internal/db"
	"hackdash/internal/notify"
	"hackdash/internal/sse"
)

type Server struct {
	router *chi.Mux
	config *config.Config
	hub    *sse.Hub
}

func NewServer(
	cfg *config.Config,
	database *db.DB,
	mailer Mailer,
) (*Server, error) {
	resolver, err := NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("initializing client IP resolver: %w", err)
	}

	apiLimiter := NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	adminRepo := db.NewAdminRepository(database)
	userRepo := db.NewUserRepository(database)
	authTokenRepo := db.NewAuthTokenRepository(database)
	sessionRepo := db.NewSessionRepository(database)
	teamRepo := db.NewTeamRepository(database)
	memberRepo := db.NewMemberRepository(database)
	submissionRepo := db.NewSubmissionRepository(database)
	workshopRepo := db.NewWorkshopRepository(database)
	notificationRepo := db.NewNotificationRepository(database)
	historyRepo := db.NewHistoryRepository(database)

	magicService := auth.NewMagicLinkService(cfg.Auth.MagicLinkTTL, cfg.Auth.SessionTTL)

	hub := sse.NewHub()
	notifier := notify.NewService(notificationRepo, hub)

	sessionMiddleware := NewSessionMiddleware(sessionRepo, adminRepo)

	authHandler := NewAuthHandler(
		adminRepo,
		authTokenRepo,
		sessionRepo,
		magicService,
		mailer,
		sessionMiddleware,
		cfg.Server.BaseURL,
		cfg.IsProduction(),
		!cfg.IsProduction(),
	)
	teamHandler := NewTeamHandler(teamRepo, memberRepo, userRepo, mailer, notifier)
	submissionHandler := NewSubmissionHandler(submissionRepo, teamRepo, memberRepo, notifier)
	workshopHandler := NewWorkshopHandler(workshopRepo, historyRepo, mailer, notifier)
	historyHandler := NewHistoryHandler(historyRepo)
	streamHandler := NewNotificationStreamHandler(hub)
	healthHandler := NewHealthHandler(database)

	r := chi.NewRouter()
	r.Use(slogRequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(apiLimiter, resolver))

		// The stream endpoint holds connections open; the body cap only
		// applies to the JSON surface below.
		r.Get("/notifications/stream", streamHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(maxBodySizeMiddleware(1 << 20)) // 1 MB

			r.Route("/auth", func(r chi.Router) {
				r.With(httprate.LimitByIP(10, time.Minute)).Post("/send-magic-link", authHandler.SendMagicLink)
				r.With(httprate.LimitByIP(10, time.Minute)).Post("/verify-token", authHandler.VerifyToken)
				r.Get("/check-session", authHandler.CheckSession)
				r.Post("/logout", authHandler.Logout)
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/registration", teamHandler.ListRegistrations)
				r.Get("/stats", teamHandler.Stats)
				r.Put("/approval", teamHandler.UpdateApproval)
				r.Put("/member/approval", teamHandler.UpdateMemberApproval)
				r.Get("/submission", submissionHandler.List)
				r.Get("/submission/stats", submissionHandler.Stats)
				r.Put("/submission/status", submissionHandler.UpdateStatus)
			})

			r.Route("/workshop", func(r chi.Router) {
				r.Get("/", workshopHandler.List)
				r.Get("/stats", workshopHandler.Stats)
				r.With(sessionMiddleware.RequireSession).Patch("/", workshopHandler.UpdateApproval)
			})

			r.Get("/history/{entityId}", historyHandler.GetEntityHistory)
		})
	})

	return &Server{
		router: r,
		config: cfg,
		hub:    hub,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub exposes the live notification registry, mainly for broadcast tooling.
func (s *Server) Hub() *sse.Hub {
	return s.hub
}

func (s *Server) Shutdown() {
	s.hub.Shutdown()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Cache-Control")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func maxBodySizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
