// Package server exposes the recommendation engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/model"
	"github.com/sells-group/plan-advisor/internal/recommend"
)

const maxBodyBytes = 64 << 10

// Recommender is the engine surface the HTTP layer needs.
type Recommender interface {
	Configured() bool
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	// RateLimitRPS caps recommendation requests per second across all
	// clients; zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// Gatherer backs /metrics; nil omits the route.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

type handler struct {
	engine   Recommender
	cat      *catalog.Catalog
	validate *validator.Validate
	log      *zap.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(engine Recommender, cat *catalog.Catalog, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{
		engine:   engine,
		cat:      cat,
		validate: newValidator(),
		log:      log,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.catalog)
		r.With(rateLimit(opts.RateLimitRPS, opts.RateLimitBurst)).Post("/recommend", h.recommend)
	})

	return r
}

// RecommendRequest is the inbound body of POST /api/recommend.
type RecommendRequest struct {
	Answers     model.Answers `json:"answers" validate:"required"`
	Age         *int          `json:"age,omitempty" validate:"omitempty,min=0,max=120"`
	Gender      string        `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	DailyAmount *int          `json:"dailyAmount,omitempty" validate:"omitempty,min=0"`
}

// RecommendResponse is the outbound body of POST /api/recommend.
type RecommendResponse struct {
	Success    bool                       `json:"success"`
	ProductIDs []string                   `json:"productIds,omitempty"`
	AICriteria *model.Criteria            `json:"aiCriteria,omitempty"`
	Rationale  string                     `json:"rationale,omitempty"`
	Source     model.RecommendationSource `json:"source,omitempty"`
	RequestID  string                     `json:"requestId,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"products":   h.cat.Len(),
		"configured": h.engine.Configured(),
	})
}

func (h *handler) catalog(w http.ResponseWriter, _ *http.Request) {
	cache := features.NewCache()
	products := h.cat.Products()
	out := make([]features.Summary, len(products))
	for i, p := range products {
		out[i] = cache.Summarize(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *handler) recommend(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(zap.String("http_request_id", chimiddleware.GetReqID(r.Context())))

	if !h.engine.Configured() {
		log.Error("server: recommendation requested without reasoning service credential")
		writeJSON(w, http.StatusInternalServerError, RecommendResponse{Error: "server configuration error: reasoning service credential is missing"})
		return
	}

	var req RecommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RecommendResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RecommendResponse{Error: validationMessage(err)})
		return
	}

	res, err := h.engine.Recommend(r.Context(), recommend.Request{
		Answers: req.Answers,
		Profile: model.Profile{Age: req.Age, Gender: req.Gender, DailyAmount: req.DailyAmount},
	})
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("server: recommend failed", zap.Error(err))
		}
		writeJSON(w, status, RecommendResponse{Error: msg})
		return
	}

	crit := res.Criteria
	writeJSON(w, http.StatusOK, RecommendResponse{
		Success:    true,
		ProductIDs: res.ProductIDs,
		AICriteria: &crit,
		Rationale:  res.Rationale,
		Source:     res.Source,
		RequestID:  res.RequestID,
	})
}

func errorStatus(err error) (int, string) {
	switch {
	case eris.Is(err, recommend.ErrMissingCredential):
		return http.StatusInternalServerError, "server configuration error: reasoning service credential is missing"
	case eris.Is(err, recommend.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input: answers are required"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// rateLimit rejects requests beyond a global token bucket with 429.
func rateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, RecommendResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("http_request_id", chimiddleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
