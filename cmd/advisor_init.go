package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/config"
	"github.com/sells-group/plan-advisor/internal/monitoring"
	"github.com/sells-group/plan-advisor/internal/recommend"
	"github.com/sells-group/plan-advisor/internal/resilience"
	anthropicpkg "github.com/sells-group/plan-advisor/pkg/anthropic"
)

// newAnthropicClient is swapped out by tests.
var newAnthropicClient = anthropicpkg.NewClient

// advisorEnv holds everything the serve and recommend commands share.
type advisorEnv struct {
	Catalog  *catalog.Catalog
	Engine   *recommend.Engine
	Metrics  *monitoring.Metrics
	Registry *prometheus.Registry
	Breaker  *resilience.CircuitBreaker
}

// initAdvisor loads the catalog and wires the reasoning client, circuit
// breaker, metrics and engine from c. A missing Anthropic key is not an
// error here; the engine reports it per request.
func initAdvisor(c *config.Config, log *zap.Logger) (*advisorEnv, error) {
	cat, err := catalog.Load(c.Advisor.CatalogPath)
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	breakerCfg := resilience.FromCircuitConfig(c.Advisor.BreakerThreshold, c.Advisor.BreakerResetSecs)
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		log.Warn("reasoning circuit state change",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetCircuitState(int(to))
	}
	breaker := resilience.NewCircuitBreaker(breakerCfg)

	client := newAnthropicClient(c.Anthropic.Key, anthropicpkg.Options{
		BaseURL: c.Anthropic.BaseURL,
		Timeout: c.Advisor.SelectorTimeout(),
	})

	selector := recommend.NewSelector(client, cat, recommend.SelectorConfig{
		APIKey:      c.Anthropic.Key,
		Model:       c.Anthropic.Model,
		MaxTokens:   c.Anthropic.MaxTokens,
		Temperature: c.Anthropic.Temperature,
		Timeout:     c.Advisor.SelectorTimeout(),
	}, breaker, log)

	engine := recommend.NewEngine(cat, selector, recommend.Options{
		RationaleOnFallback: c.Advisor.RationaleOnFallback,
		Metrics:             metrics,
		Logger:              log,
	})

	if c.Anthropic.Key == "" {
		log.Warn("anthropic.key is not set; recommendation requests will fail")
	}
	log.Info("advisor initialized",
		zap.Int("products", cat.Len()),
		zap.String("model", c.Anthropic.Model),
	)

	return &advisorEnv{
		Catalog:  cat,
		Engine:   engine,
		Metrics:  metrics,
		Registry: reg,
		Breaker:  breaker,
	}, nil
}
