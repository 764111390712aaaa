// Package scoring rates how strongly a company's recent actions contradict
// its stated commitments. A keyword-and-embedding rule engine always
// produces an answer; an optional delegated language model can take the
// first pass, with any failure routing back to the rules.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/veridex/distance"
	"github.com/hupe1980/veridex/embedding"
	"golang.org/x/time/rate"
)

// ErrUpstreamUnavailable wraps delegated-model failures. Callers of Analyze
// never see it; it exists so logs and tests can distinguish a degraded
// analysis from a rule-based one.
var ErrUpstreamUnavailable = errors.New("scoring: upstream model unavailable")

// defaultSimilarity stands in when no embedding provider is configured or
// embedding fails: neither agreement nor contradiction.
const defaultSimilarity = 0.5

// Model is a delegated analysis backend, typically a language model.
type Model interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type options struct {
	model    Model
	provider embedding.Provider
	logger   *slog.Logger
	limiter  *rate.Limiter
	timeout  time.Duration
}

// Option configures an Engine.
type Option func(*options)

// WithModel sets a delegated analysis model. Without one, the engine is
// purely rule-based.
func WithModel(m Model) Option {
	return func(o *options) { o.model = m }
}

// WithEmbeddings enables semantic similarity between promises and actions.
func WithEmbeddings(p embedding.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogger sets the logger. If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		o.logger = l
	}
}

// WithRateLimit bounds delegated-model calls.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) { o.limiter = rate.NewLimiter(limit, burst) }
}

// WithTimeout bounds each delegated-model call. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Engine scores contradictions between commitments and actions.
type Engine struct {
	model    Model
	provider embedding.Provider
	logger   *slog.Logger
	limiter  *rate.Limiter
	timeout  time.Duration
}

// NewEngine creates an Engine. With no options it is rule-based only.
func NewEngine(optFns ...Option) *Engine {
	opts := options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		timeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		model:    opts.model,
		provider: opts.provider,
		logger:   opts.logger,
		limiter:  opts.limiter,
		timeout:  opts.timeout,
	}
}

// Analyze scores the contradiction between promises and actions. It always
// returns a Result: delegated-model failures degrade to the rule-based
// path, and missing inputs yield an Unknown result.
func (e *Engine) Analyze(ctx context.Context, company, topic, promises, actions string) Result {
	if strings.TrimSpace(promises) == "" && strings.TrimSpace(actions) == "" {
		return Result{
			Company:         company,
			Topic:           topic,
			Level:           LevelUnknown,
			Confidence:      0,
			Rationale:       "No data available for analysis",
			PromisesExcerpt: "No promises found",
			ActionsExcerpt:  "No recent actions found",
			Similarity:      defaultSimilarity,
			AnalyzedAt:      time.Now(),
		}
	}

	if e.model != nil {
		result, err := e.delegate(ctx, company, topic, promises, actions)
		if err == nil {
			return result
		}
		e.logger.Warn("delegated analysis failed, using rule-based scoring",
			"company", company, "error", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err))
	}

	return e.ruleBased(ctx, company, topic, promises, actions)
}

// delegate runs one rate-limited, timeout-bounded model call and parses the
// reply.
func (e *Engine) delegate(ctx context.Context, company, topic, promises, actions string) (Result, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.model.Complete(ctx, systemPrompt, renderPrompt(company, topic, promises, actions))
	if err != nil {
		return Result{}, err
	}

	parsed := parseReply(reply)

	return Result{
		Company:         company,
		Topic:           topic,
		Level:           parsed.Level,
		Confidence:      parsed.Confidence,
		Rationale:       parsed.Rationale,
		PromisesExcerpt: truncate(promises, excerptLimit),
		ActionsExcerpt:  truncate(actions, excerptLimit),
		KeyPoints:       parsed.KeyPoints,
		Similarity:      e.similarity(ctx, promises, actions),
		AnalyzedAt:      time.Now(),
	}, nil
}

// ruleBased fuses lexicon counts with embedding similarity.
func (e *Engine) ruleBased(ctx context.Context, company, topic, promises, actions string) Result {
	negative := countSignals(actions, negativeTerms)
	positive := countSignals(promises, positiveTerms)
	similarity := e.similarity(ctx, promises, actions)

	score := contradictionScore(negative, positive, similarity)
	level, confidence, rationale := interpretScore(score, negative, positive, similarity)

	var keyPoints []string
	actionsLower := strings.ToLower(actions)
	for _, term := range negativeTerms {
		if strings.Contains(actionsLower, term) {
			keyPoints = append(keyPoints, "Actions show evidence of: "+term)
			if len(keyPoints) == maxKeyPoints {
				break
			}
		}
	}

	return Result{
		Company:         company,
		Topic:           topic,
		Level:           level,
		Confidence:      confidence,
		Rationale:       rationale,
		PromisesExcerpt: truncate(promises, excerptLimit),
		ActionsExcerpt:  truncate(actions, excerptLimit),
		KeyPoints:       keyPoints,
		Similarity:      similarity,
		AnalyzedAt:      time.Now(),
	}
}

// similarity computes cosine similarity of the two texts' embeddings,
// falling back to the neutral default when no provider is configured,
// either text is empty, or embedding fails.
func (e *Engine) similarity(ctx context.Context, promises, actions string) float64 {
	if e.provider == nil || strings.TrimSpace(promises) == "" || strings.TrimSpace(actions) == "" {
		return defaultSimilarity
	}

	pv, err := e.provider.Embed(ctx, promises)
	if err != nil {
		e.logger.Warn("similarity embedding failed", "error", err)
		return defaultSimilarity
	}
	av, err := e.provider.Embed(ctx, actions)
	if err != nil {
		e.logger.Warn("similarity embedding failed", "error", err)
		return defaultSimilarity
	}

	return float64(distance.Cosine(pv, av))
}

// contradictionScore fuses keyword and semantic evidence into [0, 1].
// The keyword ratio saturates at 2.0; its fused contribution caps at 1.0.
func contradictionScore(negative, positive int, similarity float64) float64 {
	keywordScore := float64(negative) / float64(max(positive, 1))
	if keywordScore > 2.0 {
		keywordScore = 2.0
	}

	semanticScore := 1.0 - similarity

	combined := 0.7*min(keywordScore, 1.0) + 0.3*semanticScore
	if combined < 0 {
		return 0
	}
	return min(combined, 1.0)
}

// interpretScore maps a fused score to level, confidence, and rationale.
func interpretScore(score float64, negative, positive int, similarity float64) (Level, float64, string) {
	switch {
	case score >= 0.7:
		return LevelHigh, min(0.9, 0.6+score*0.3), fmt.Sprintf(
			"Significant contradictions detected. Found %d concerning actions against %d positive commitments. Semantic similarity: %.2f",
			negative, positive, similarity)
	case score >= 0.4:
		return LevelMedium, min(0.8, 0.4+score*0.3), fmt.Sprintf(
			"Moderate contradictions possible. Found %d concerning actions against %d positive commitments. Semantic similarity: %.2f",
			negative, positive, similarity)
	case score >= 0.2:
		return LevelLow, min(0.6, 0.3+score*0.3), fmt.Sprintf(
			"Minor contradictions detected. Found %d concerning actions against %d positive commitments. Semantic similarity: %.2f",
			negative, positive, similarity)
	default:
		return LevelNone, min(0.7, 0.2+(1.0-score)*0.3), fmt.Sprintf(
			"No significant contradictions detected. Actions appear consistent with stated commitments. Semantic similarity: %.2f",
			similarity)
	}
}
