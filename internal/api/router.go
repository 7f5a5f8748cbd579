package api

import (
	"net/http"
	"time"

	"github.com/erazemk/oglasnik/internal/listing"
)

// RequestRecorder observes completed HTTP requests.
type RequestRecorder interface {
	Request(method, route string, status int, d time.Duration)
}

// Config wires the router's collaborators. Revocations and Metrics may be
// nil.
type Config struct {
	JWTSecret   string
	Revocations RevocationList
	Metrics     RequestRecorder
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *listing.Service, cfg Config) http.Handler {
	mux := http.NewServeMux()

	items := &ItemsHandler{Service: svc}
	authMW := AuthMiddleware(cfg.JWTSecret, cfg.Revocations)

	mux.HandleFunc("GET /api/health", health)

	// Reads are public.
	mux.HandleFunc("GET /api/items", items.List)
	mux.HandleFunc("GET /api/items/{id}", items.Get)
	mux.HandleFunc("GET /api/items/{id}/related", items.Related)
	mux.HandleFunc("GET /api/items/{id}/image", items.GetImage)
	mux.HandleFunc("GET /api/items/featured", items.Featured)
	mux.HandleFunc("GET /api/items/search", items.Search)
	mux.HandleFunc("GET /api/items/price", items.PriceRange)
	mux.HandleFunc("GET /api/items/filter", items.Filter)
	mux.HandleFunc("GET /api/categories/{category}/items", items.ByCategory)

	// Mutations need a seller token.
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(items.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(items.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(items.Delete)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(items.UploadImage)))

	var h http.Handler = mux
	if cfg.Metrics != nil {
		h = MetricsMiddleware(cfg.Metrics)(h)
	}
	return RequestIDMiddleware(LoggingMiddleware(h))
}

func health(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
