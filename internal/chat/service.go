package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/internal/llm"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/pkg/logger"
)

// Source names the path that produced a reply.
type Source string

const (
	SourceFAQ    Source = "faq"
	SourceIntent Source = "intent"
	SourceLLM    Source = "llm"
)

// AnswerCache stores generated answers per message.
type AnswerCache interface {
	GetAnswer(ctx context.Context, message string) (string, bool, error)
	SetAnswer(ctx context.Context, message, answer string, ttl time.Duration) error
}

// Prompter renders the generator prompt for a message.
type Prompter interface {
	Prompt(message string) string
}

type Service struct {
	engine    *faq.Engine
	generator llm.Generator
	prompter  Prompter
	cache     AnswerCache
	cacheTTL  time.Duration
}

type Option func(*Service)

// WithGenerator enables generated answers. Replies fall back to the FAQ
// engine whenever the generator fails.
func WithGenerator(g llm.Generator, p Prompter) Option {
	return func(s *Service) {
		s.generator = g
		s.prompter = p
	}
}

func WithCache(c AnswerCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(engine *faq.Engine, opts ...Option) *Service {
	s := &Service{engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generative reports whether replies may come from the external generator.
func (s *Service) Generative() bool {
	return s.generator != nil
}

// Reply answers message. It always returns a usable response.
func (s *Service) Reply(ctx context.Context, message string) (faq.Response, Source) {
	start := time.Now()
	replyID := uuid.NewString()

	resp, source, intent := s.reply(ctx, replyID, message)

	elapsed := time.Since(start)
	metrics.ChatDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	metrics.ChatReplies.WithLabelValues(string(source), intent).Inc()

	logger.Info("Chat reply produced",
		zap.String("reply_id", replyID),
		zap.String("source", string(source)),
		zap.String("intent", intent),
		zap.Int("suggestions", len(resp.Suggestions)),
		zap.Duration("latency", elapsed),
	)

	return resp, source
}

func (s *Service) reply(ctx context.Context, replyID, message string) (faq.Response, Source, string) {
	if s.generator != nil {
		answer, err := s.generate(ctx, message)
		if err == nil {
			return faq.Response{
				Response:    answer,
				Suggestions: s.engine.Suggest(message, answer),
			}, SourceLLM, ""
		}
		logger.Warn("Generated answer unavailable, falling back to FAQ matching",
			zap.String("reply_id", replyID),
			zap.Error(err),
		)
	}

	resp, res := s.engine.Explain(message)
	metrics.MatchScore.Observe(float64(res.Match.Score))

	if res.Intent != "" {
		logger.Debug("No confident FAQ match",
			zap.String("reply_id", replyID),
			zap.Int("best_score", res.Match.Score),
		)
		return resp, SourceIntent, res.Intent
	}

	logger.Debug("FAQ matched",
		zap.String("reply_id", replyID),
		zap.String("faq_id", res.Match.Record.ID),
		zap.Int("score", res.Match.Score),
	)
	return resp, SourceFAQ, ""
}

func (s *Service) generate(ctx context.Context, message string) (string, error) {
	if s.cache != nil {
		answer, found, err := s.cache.GetAnswer(ctx, message)
		switch {
		case err != nil:
			logger.Warn("Answer cache lookup failed", zap.Error(err))
		case found:
			metrics.CacheHits.WithLabelValues("answer").Inc()
			return answer, nil
		default:
			metrics.CacheMisses.WithLabelValues("answer").Inc()
		}
	}

	answer, err := s.generator.Answer(ctx, s.prompter.Prompt(message))
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetAnswer(ctx, message, answer, s.cacheTTL); err != nil {
			logger.Warn("Failed to cache generated answer", zap.Error(err))
		}
	}

	return answer, nil
}
