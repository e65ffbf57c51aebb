package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ludik-gifts/backend/internal/auth"
	"github.com/ludik-gifts/backend/internal/catalog"
	"github.com/ludik-gifts/backend/internal/database"
	"github.com/ludik-gifts/backend/internal/handler"
	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/metrics"
)

type Server struct {
	httpServer    *http.Server
	dbPool        database.Pool
	ledgerService ledger.Service
}

// NewServer wires the router. Health, readiness, and metrics are public;
// everything under /api requires verified Telegram init data.
func NewServer(port int, verifier *auth.Verifier, trustedProxies []string, dbPool database.Pool, ledgerService ledger.Service, snapshot *catalog.Snapshot) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API routes, all behind init-data authentication
	r.Route("/api", func(r chi.Router) {
		r.Use(handler.AuthMiddleware(verifier))

		r.Get("/cases", handler.HandleListCases(snapshot))
		r.Get("/get_user_data", handler.HandleGetUserData(ledgerService))
		r.Get("/get_leaderboard", handler.HandleGetLeaderboard(ledgerService))

		r.Post("/open_case", handler.HandleOpenCase(ledgerService))
		r.Post("/withdraw_gift", handler.HandleWithdrawGift(ledgerService))
		r.Post("/upgrade_item", handler.HandleUpgradeItem(ledgerService))
		r.Post("/convert_to_ton", handler.HandleConvertToTON(ledgerService))
		r.Post("/sell_all_items", handler.HandleSellAllItems(ledgerService))
		r.Post("/instant_topup", handler.HandleInstantTopUp(ledgerService))
		r.Post("/redeem_promocode", handler.HandleRedeemPromo(ledgerService))
		r.Post("/register_referral", handler.HandleRegisterReferral(ledgerService))
		r.Post("/withdraw_referral_earnings", handler.HandleWithdrawReferralEarnings(ledgerService))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:        dbPool,
		ledgerService: ledgerService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// The init-data header embeds the signed identity; never log it.
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, handler.HeaderInitData) || strings.EqualFold(k, "Authorization") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
