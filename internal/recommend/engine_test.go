package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/plan-advisor/internal/features"
	"github.com/sells-group/plan-advisor/internal/model"
	"github.com/sells-group/plan-advisor/internal/monitoring"
	anthropicmocks "github.com/sells-group/plan-advisor/pkg/anthropic/mocks"
)

type engineFixture struct {
	engine  *Engine
	client  *anthropicmocks.MockClient
	logs    *observer.ObservedLogs
	metrics *monitoring.Metrics
}

func newEngineFixture(t *testing.T, opts Options) engineFixture {
	t.Helper()
	cat := testCatalog(t)
	client := anthropicmocks.NewMockClient(t)
	core, logs := observer.New(zap.DebugLevel)

	opts.Logger = zap.New(core)
	opts.Metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	sel := NewSelector(client, cat, testSelectorConfig(), nil, opts.Logger)

	return engineFixture{
		engine:  NewEngine(cat, sel, opts),
		client:  client,
		logs:    logs,
		metrics: opts.Metrics,
	}
}

func (f engineFixture) reply(text string) {
	f.client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(text), nil).Once()
}

func TestEngine_AcceptsValidShortlist(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.reply(`Here is my answer:
{"productIds": ["p006", "p001", "p011", "p007"],
 "aiCriteria": {"wantsOutpatient": true, "prefersHighMultiplier": true},
 "rationale": "Outpatient cover with high surgery multipliers."}`)

	res, err := f.engine.Recommend(context.Background(), Request{
		Answers: model.Answers{"q1": {"income_drop", "cancer_long"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SourceAI, res.Source)
	assert.Equal(t, []string{"p006", "p001", "p011", "p007"}, res.ProductIDs)
	assert.True(t, model.Wants(res.Criteria.WantsOutpatient))
	assert.Equal(t, "Outpatient cover with high surgery multipliers.", res.Rationale)
	assert.NotEmpty(t, res.RequestID)

	totals := f.metrics.Totals()
	assert.Equal(t, 1.0, totals.AI)
	assert.Equal(t, 0.0, totals.Fallback)
}

func TestEngine_DuplicateAndUnknownIDsFallBack(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.reply(`{"productIds": ["p001","p001","p999"], "rationale": "only one"}`)

	res, err := f.engine.Recommend(context.Background(), Request{
		Answers: model.Answers{"q1": {"advanced_med"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, []string{"p001", "p002", "p009", "p011"}, res.ProductIDs)
	assert.Empty(t, res.Rationale)
	assert.True(t, model.Wants(res.Criteria.NeedsAdvancedMedical))

	warn := f.logs.FilterMessage("recommend: candidate cardinality out of range, using fallback").All()
	require.Len(t, warn, 1)
	assert.Equal(t, int64(1), warn[0].ContextMap()["valid"])
}

func TestEngine_TooManyIDsNotTrimmed(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.reply(`{"productIds": ["p012","p011","p010","p009","p008","p007","p006"]}`)

	res, err := f.engine.Recommend(context.Background(), Request{
		Answers: model.Answers{"q5": {"death_benefit"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, []string{"p005", "p010", "p001", "p002"}, res.ProductIDs)
}

func TestEngine_ServiceErrorFallsBack(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded).Once()

	res, err := f.engine.Recommend(context.Background(), Request{Answers: model.Answers{}})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, []string{"p001", "p002", "p009", "p011"}, res.ProductIDs)
	assert.Equal(t, 1, f.logs.FilterMessage("recommend: candidate selection failed, using fallback").Len())
	assert.Equal(t, 1.0, f.metrics.Totals().Failures["timeout"])
}

func TestEngine_MalformedReplyFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no braces", "I would suggest p001, p002 and p003."},
		{"broken json", `{"productIds": ["p001", "p002", "p003"`},
		{"ids not array", `{"productIds": "p001"}`},
		{"missing ids", `{"rationale": "hello"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, Options{})
			f.reply(tt.reply)

			res, err := f.engine.Recommend(context.Background(), Request{
				Answers: model.Answers{"q8": {"waiver"}},
			})
			require.NoError(t, err)
			assert.Equal(t, model.SourceFallback, res.Source)
			assert.Equal(t, []string{"p001", "p004", "p008", "p012"}, res.ProductIDs)
			assert.Equal(t, 1.0, f.metrics.Totals().Failures["malformed"])
		})
	}
}

func TestEngine_AICriteriaDrivesFallback(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.reply(`{"productIds": ["p001"], "aiCriteria": {"prefersHealthBonus": true}}`)

	res, err := f.engine.Recommend(context.Background(), Request{
		Answers: model.Answers{"q1": {"advanced_med"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, []string{"p004", "p010", "p001", "p002"}, res.ProductIDs)
	assert.True(t, model.Wants(res.Criteria.PrefersHealthBonus))
	assert.Nil(t, res.Criteria.NeedsAdvancedMedical)
}

func TestEngine_InvalidAICriteriaEchoesLocal(t *testing.T) {
	f := newEngineFixture(t, Options{})
	f.reply(`{"productIds": ["p001","p002","p003"], "aiCriteria": "advanced", "rationale": 7}`)

	res, err := f.engine.Recommend(context.Background(), Request{
		Answers: model.Answers{"q1": {"advanced_med"}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SourceAI, res.Source)
	assert.Equal(t, []string{"p001", "p002", "p003"}, res.ProductIDs)
	assert.True(t, model.Wants(res.Criteria.NeedsAdvancedMedical))
	assert.Empty(t, res.Rationale)
}

func TestEngine_RationaleOnFallback(t *testing.T) {
	f := newEngineFixture(t, Options{RationaleOnFallback: true})
	f.reply(`{"productIds": [], "rationale": "nothing fits"}`)

	res, err := f.engine.Recommend(context.Background(), Request{Answers: model.Answers{}})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Equal(t, "nothing fits", res.Rationale)
}

func TestEngine_MissingCredential(t *testing.T) {
	cat := testCatalog(t)
	client := anthropicmocks.NewMockClient(t)
	cfg := testSelectorConfig()
	cfg.APIKey = ""

	e := NewEngine(cat, NewSelector(client, cat, cfg, nil, nil), Options{})
	res, err := e.Recommend(context.Background(), Request{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMissingCredential)

	e = NewEngine(cat, nil, Options{})
	_, err = e.Recommend(context.Background(), Request{Answers: model.Answers{}})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestEngine_AbsentAnswers(t *testing.T) {
	f := newEngineFixture(t, Options{})

	res, err := f.engine.Recommend(context.Background(), Request{})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	f.client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestEngine_OutputInvariant(t *testing.T) {
	replies := []string{
		`{"productIds": ["p001","p002","p003","p004"]}`,
		`{"productIds": ["p001","p002","p003","p004","p005","p006"]}`,
		`{"productIds": ["p001","p002","p003","p004","p005","p006","p007","p008","p009","p010","p011","p012"]}`,
		`{"productIds": []}`,
		`{"productIds": ["p001", 1, true, "p001", "x"]}`,
		`not json at all`,
		``,
	}
	answers := []model.Answers{
		{},
		{"q1": {"advanced_med", "family", "money_back"}},
		{"q3": {"account_annual"}, "q10": {"semiannual"}},
		{"q8": {"women", "outpatient"}, "q1": {"unknown"}},
	}

	for _, reply := range replies {
		for _, a := range answers {
			f := newEngineFixture(t, Options{})
			f.reply(reply)
			res, err := f.engine.Recommend(context.Background(), Request{Answers: a})
			require.NoError(t, err)
			assertValidRecommendation(t, f.engine.Catalog(), res.ProductIDs)
		}
	}
}

type stubSelector struct {
	cand *Candidate
	err  error
}

func (s stubSelector) Configured() bool { return true }

func (s stubSelector) Select(context.Context, *features.Cache, PromptInput) (*Candidate, error) {
	return s.cand, s.err
}

func TestEngine_WithStubSelector(t *testing.T) {
	cat := testCatalog(t)

	e := NewEngine(cat, stubSelector{err: errors.New("down")}, Options{})
	res, err := e.Recommend(context.Background(), Request{Answers: model.Answers{"q10": {"annual"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p002", "p005", "p010", "p001"}, res.ProductIDs)

	e = NewEngine(cat, stubSelector{cand: &Candidate{ProductIDs: []string{"p003", "p012", "p007"}}}, Options{})
	res, err = e.Recommend(context.Background(), Request{Answers: model.Answers{}})
	require.NoError(t, err)
	assert.Equal(t, model.SourceAI, res.Source)
	assert.Equal(t, []string{"p003", "p012", "p007"}, res.ProductIDs)
}
