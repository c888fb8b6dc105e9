// Package recommend turns questionnaire answers into a short, catalog-valid
// list of insurance product recommendations. A reasoning service proposes
// the shortlist; a deterministic scorer takes over whenever that proposal
// cannot be used.
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/criteria"
	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/model"
	"github.com/sells-group/plan-advisor/internal/monitoring"
	"github.com/sells-group/plan-advisor/internal/resilience"
)

var (
	// ErrMissingCredential is returned before any work when the reasoning
	// service credential is not configured.
	ErrMissingCredential = eris.New("recommend: reasoning service credential is not configured")
	// ErrInvalidInput is returned for absent or malformed answers.
	ErrInvalidInput = eris.New("recommend: invalid input")
)

// Reasons a reasoning shortlist is discarded, beyond resilience.FailureKind.
const (
	failureMalformed   = "malformed"
	failureCardinality = "cardinality"
)

// Request is one recommendation request.
type Request struct {
	Answers model.Answers
	Profile model.Profile
}

// Result is a recommendation. ProductIDs always holds between
// MinRecommendations and MaxRecommendations distinct catalog ids.
type Result struct {
	RequestID  string                     `json:"requestId"`
	ProductIDs []string                   `json:"productIds"`
	Criteria   model.Criteria             `json:"aiCriteria"`
	Rationale  string                     `json:"rationale,omitempty"`
	Source     model.RecommendationSource `json:"source"`
}

// Options tunes an Engine.
type Options struct {
	// RationaleOnFallback keeps a decoded rationale even when the shortlist
	// it came with was rejected.
	RationaleOnFallback bool
	Metrics             *monitoring.Metrics
	Logger              *zap.Logger
}

// Engine orchestrates criteria extraction, candidate selection, validation
// and fallback. It is safe for concurrent use.
type Engine struct {
	cat      *catalog.Catalog
	selector CandidateSelector
	opts     Options
	log      *zap.Logger
}

// NewEngine creates an Engine over cat.
func NewEngine(cat *catalog.Catalog, selector CandidateSelector, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cat: cat, selector: selector, opts: opts, log: log}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Recommend produces a recommendation for req. Reasoning-service failures
// never surface as errors; only ErrMissingCredential and ErrInvalidInput do.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if !e.Configured() {
		return nil, ErrMissingCredential
	}
	if req.Answers == nil {
		return nil, eris.Wrap(ErrInvalidInput, "recommend: answers are required")
	}

	start := time.Now()
	requestID := uuid.NewString()
	log := e.log.With(zap.String("request_id", requestID))

	local := criteria.Extract(req.Answers)
	cache := features.NewCache()

	cand, err := e.selector.Select(ctx, cache, PromptInput{Criteria: local, Profile: req.Profile})
	switch {
	case err != nil:
		kind := resilience.Classify(err)
		log.Warn("recommend: candidate selection failed, using fallback",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		e.opts.Metrics.SelectorFailure(string(kind))
	case cand == nil:
		log.Warn("recommend: no candidate in reply, using fallback")
		e.opts.Metrics.SelectorFailure(failureMalformed)
	}

	effective := local
	if cand != nil && cand.Criteria != nil {
		effective = *cand.Criteria
	}

	res := &Result{RequestID: requestID, Criteria: effective}

	if cand != nil {
		if ids, ok := ValidateIDs(e.cat, cand.ProductIDs); ok {
			res.ProductIDs = ids
			res.Source = model.SourceAI
		} else {
			log.Warn("recommend: candidate cardinality out of range, using fallback",
				zap.Int("returned", len(cand.ProductIDs)),
				zap.Int("valid", len(ids)),
			)
			e.opts.Metrics.SelectorFailure(failureCardinality)
		}
	}

	if res.Source == "" {
		res.ProductIDs = Fallback(e.cat, cache, effective)
		res.Source = model.SourceFallback
	}

	res.ProductIDs = Repair(e.cat, res.ProductIDs)

	if cand != nil && cand.HasRationale && (res.Source == model.SourceAI || e.opts.RationaleOnFallback) {
		res.Rationale = cand.Rationale
	}

	elapsed := time.Since(start)
	e.opts.Metrics.ObserveRecommendation(string(res.Source), elapsed)
	log.Info("recommend: served",
		zap.String("source", string(res.Source)),
		zap.Strings("product_ids", res.ProductIDs),
		zap.Duration("elapsed", elapsed),
	)

	return res, nil
}

// Configured reports whether the reasoning service credential is set.
func (e *Engine) Configured() bool {
	return e.selector != nil && e.selector.Configured()
}
