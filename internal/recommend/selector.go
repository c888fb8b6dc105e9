package recommend

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/resilience"
	"github.com/sells-group/plan-advisor/pkg/anthropic"
)

// CandidateSelector obtains a first-pass shortlist from the reasoning
// service.
type CandidateSelector interface {
	// Configured reports whether the reasoning service credential is set.
	Configured() bool
	// Select returns nil without error when the reply held no usable
	// candidate. A non-nil error means the call itself failed.
	Select(ctx context.Context, cache *features.Cache, in PromptInput) (*Candidate, error)
}

// SelectorConfig configures the reasoning call.
type SelectorConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	// Timeout bounds the call; zero leaves the transport default.
	Timeout time.Duration
}

// Selector is the Anthropic-backed CandidateSelector.
type Selector struct {
	client  anthropic.Client
	cat     *catalog.Catalog
	cfg     SelectorConfig
	breaker *resilience.CircuitBreaker
	log     *zap.Logger
}

// NewSelector creates a Selector. A nil breaker gets the default policy.
func NewSelector(client anthropic.Client, cat *catalog.Catalog, cfg SelectorConfig, breaker *resilience.CircuitBreaker, log *zap.Logger) *Selector {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{client: client, cat: cat, cfg: cfg, breaker: breaker, log: log}
}

// Configured implements CandidateSelector.
func (s *Selector) Configured() bool {
	return s.cfg.APIKey != "" && s.client != nil
}

// Select implements CandidateSelector.
func (s *Selector) Select(ctx context.Context, cache *features.Cache, in PromptInput) (*Candidate, error) {
	prompt, err := BuildPrompt(s.cat, cache, in)
	if err != nil {
		return nil, err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	temp := s.cfg.Temperature
	req := anthropic.MessageRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	}

	resp, err := resilience.Execute(ctx, s.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "recommend: select candidates")
	}

	resp.Usage.LogCost(s.log, s.cfg.Model, "select")

	cand, err := DecodeReply(resp.Text())
	if err != nil {
		s.log.Warn("recommend: unusable reasoning reply",
			zap.String("stop_reason", resp.StopReason),
			zap.Error(err),
		)
		return nil, nil
	}
	return cand, nil
}

// BreakerState reports the current circuit state.
func (s *Selector) BreakerState() resilience.CircuitState {
	return s.breaker.State()
}
