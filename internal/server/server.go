// Package server provides the HTTP API around name decoding, page
// rewriting, and company enrichment.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tahsin/mula-lens/internal/enrich"
	"github.com/tahsin/mula-lens/internal/fetch"
	"github.com/tahsin/mula-lens/internal/leet"
	"github.com/tahsin/mula-lens/internal/llm"
	"github.com/tahsin/mula-lens/internal/rewrite"
	"github.com/tahsin/mula-lens/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	decoder     *leet.Decoder
	rewriter    *rewrite.Rewriter
	resolver    *enrich.Resolver
	pages       *fetch.PageCache
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port     int
	Decoder  *leet.Decoder
	Rewriter *rewrite.Rewriter
	Resolver *enrich.Resolver
	Pages    *fetch.PageCache
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Decoder == nil {
		cfg.Decoder = leet.NewDecoder(nil, leet.CaseTitle)
	}
	if cfg.Rewriter == nil {
		cfg.Rewriter = rewrite.New(cfg.Decoder, nil)
	}
	if cfg.Pages == nil {
		cfg.Pages = fetch.NewNullPageCache()
	}

	s := &Server{
		decoder:     cfg.Decoder,
		rewriter:    cfg.Rewriter,
		resolver:    cfg.Resolver,
		pages:       cfg.Pages,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /decode", s.handleDecode)
	mux.HandleFunc("POST /enrich", s.handleEnrich)
	mux.HandleFunc("GET /rewrite", s.handleRewrite)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // enrichment waits on the model API
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the full middleware chain, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

type decodeRequest struct {
	Name  string `json:"name"`
	Style string `json:"style,omitempty"`
}

// handleDecode decodes one obfuscated name.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	decoded := s.decoder.Decode(req.Name)
	if req.Style != "" {
		decoded = s.decoder.DecodeWithStyle(req.Name, leet.ParseCaseStyle(req.Style))
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"name": req.Name, "decoded": decoded})
}

// handleEnrich decodes the supplied name and resolves its enrichment
// record, consulting the store before any external call.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "enrichment is not configured")
		return
	}

	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	record, err := s.resolver.Resolve(r.Context(), s.decoder.Decode(req.Name))
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			s.errorResponse(w, http.StatusServiceUnavailable, "AI enrichment is not configured")
			return
		}
		log.Printf("[SERVER] enrich failed for %q: %v", req.Name, err)
		s.errorResponse(w, http.StatusBadGateway, "enrichment failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleRewrite fetches the page at ?url= and returns it with company
// names decoded and ad containers removed.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	if u, err := url.Parse(target); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		s.errorResponse(w, http.StatusBadRequest, "url must be absolute http or https")
		return
	}

	page, err := s.pages.Fetch(r.Context(), target, nil)
	if err != nil {
		log.Printf("[SERVER] rewrite fetch failed for %s: %v", target, err)
		s.errorResponse(w, http.StatusBadGateway, "failed to fetch page")
		return
	}

	out, changed, err := s.rewriter.Page(page)
	if err != nil {
		log.Printf("[SERVER] rewrite failed for %s: %v", target, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to rewrite page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Rewritten-Nodes", fmt.Sprintf("%d", changed))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		log.Printf("[SERVER] failed to write rewrite response: %v", err)
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// RemoteAddr is used directly; X-Forwarded-For is only trustworthy
// behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
