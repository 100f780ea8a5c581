package web

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"feedhub/internal/feed"
)

const feedPath = "/api/youtube-feed"

type server struct {
	env        *feed.Env
	assets     AssetService
	forceHTTPS bool
}

// NewServer builds the HTTP surface over the fetch environment and the asset
// collaborator. When forceHTTPS is set, plain-HTTP requests are permanently
// redirected to their HTTPS equivalent.
func NewServer(env *feed.Env, assets AssetService, forceHTTPS bool) *server {
	return &server{
		env:        env,
		assets:     assets,
		forceHTTPS: forceHTTPS,
	}
}

// Handler assembles the full middleware chain. Every branch, including the
// HTTPS redirect, passes through the security header wrapper.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(feedPath, s.handleFeed)
	mux.HandleFunc("/", s.handleAsset)

	var handler http.Handler = mux
	if s.forceHTTPS {
		handler = s.httpsRedirect(handler)
	}
	return securityHeadersMiddleware(handler)
}

func (s *server) Start(lis net.Listener) error {
	return http.Serve(lis, s.Handler())
}

// httpsRedirect permanently redirects plain-HTTP requests to HTTPS.
func (s *server) httpsRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestIsSecure(r) {
			next.ServeHTTP(w, r)
			return
		}

		target := *r.URL
		target.Scheme = "https"
		target.Host = r.Host
		http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
	})
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

type feedUnavailableResponse struct {
	Message string                 `json:"message"`
	Items   []feed.NormalizedVideo `json:"items"`
}

// handleFeed serves the cached feed snapshot. A cold or empty cache is masked
// with one synchronous best-effort refresh so the very first requester still
// gets data when an upstream source is reachable.
func (s *server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.sendJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := s.readCachedFeed(r)

	if payload == nil || len(payload.Items) == 0 {
		fresh, err := feed.Fetch(r.Context(), s.env)
		if err != nil {
			slog.Error("on-demand feed refresh failed", "error", err)
		} else {
			if len(fresh.Items) > 0 && s.env.Store != nil {
				if err := feed.StorePayload(r.Context(), s.env.Store, fresh); err != nil {
					slog.Error("failed to store refreshed feed", "error", err)
				}
			}
			payload = fresh
		}
	}

	if payload == nil || len(payload.Items) == 0 {
		w.Header().Set("Cache-Control", "no-store")
		s.sendJSON(w, feedUnavailableResponse{
			Message: "YouTube feed not yet available",
			Items:   []feed.NormalizedVideo{},
		}, http.StatusOK)
		return
	}

	items := payload.Items
	if limit := parseLimit(r.URL.Query().Get("limit")); limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	w.Header().Set("Cache-Control", "public, max-age=300, s-maxage=600")
	s.sendJSON(w, feed.Payload{
		UpdatedAt: payload.UpdatedAt,
		Items:     items,
		Version:   payload.Version,
	}, http.StatusOK)
}

func (s *server) readCachedFeed(r *http.Request) *feed.Payload {
	if s.env.Store == nil {
		return nil
	}
	payload, err := feed.ReadPayload(r.Context(), s.env.Store)
	if err != nil {
		slog.Error("failed to read cached feed", "error", err)
		return nil
	}
	return payload
}

// parseLimit accepts positive integers only; anything else means no limit.
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// handleAsset delegates to the asset collaborator. HTML navigations that miss
// are retried against /index.html so client-side routing can take over.
func (s *server) handleAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.assets.Fetch(r.Context(), r.URL.Path)

	if isHTMLNavigation(r) && (err != nil || asset.StatusCode == http.StatusNotFound) {
		if err != nil {
			slog.Warn("asset fetch failed, trying index fallback", "path", r.URL.Path, "error", err)
		}
		fallback, ferr := s.assets.Fetch(r.Context(), "/index.html")
		if ferr == nil {
			writeAsset(w, fallback)
			return
		}
		err = ferr
	}

	if err != nil {
		slog.Error("asset fetch failed", "path", r.URL.Path, "error", err)
		s.sendJSONError(w, "failed to fetch asset", http.StatusInternalServerError)
		return
	}

	writeAsset(w, asset)
}

// isHTMLNavigation reports whether the request looks like a browser
// navigation: a safe read whose accept header asks for HTML.
func isHTMLNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeAsset(w http.ResponseWriter, asset *Asset) {
	for name, values := range asset.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(asset.StatusCode)
	w.Write(asset.Body)
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Helper functions for JSON responses
func (s *server) sendJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *server) sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
