// Package chat answers one visitor message at a time: prepared answers for
// known topics, a single model completion for everything else.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/persona"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/metrics"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

// Replies used when no meaningful answer can be produced.
const (
	EmptyReply    = "I didn't catch that."
	FallbackReply = "Could you repeat that?"
)

// Route names the path a message took through the service.
type Route string

const (
	RouteEmpty      Route = "empty"
	RoutePrepared   Route = "prepared"
	RouteCompletion Route = "completion"
)

// Result is the outcome of handling one message.
type Result struct {
	Reply string
	Route Route
	Topic persona.Topic
}

// Service holds the process-wide system prompt and its collaborators.
// It is safe for concurrent use and never mutated after construction.
type Service struct {
	answers      *persona.AnswerSet
	completer    llm.Completer
	systemPrompt string
	timeout      time.Duration
	provider     string
	model        string
}

// Options configures a Service.
type Options struct {
	Answers      *persona.AnswerSet
	Completer    llm.Completer
	SystemPrompt string
	// Timeout bounds the remote completion. Zero means no extra bound.
	Timeout  time.Duration
	Provider string
	Model    string
}

// NewService constructs a Service. A nil answer set means the embedded default.
func NewService(opts Options) *Service {
	answers := opts.Answers
	if answers == nil {
		answers = persona.Default()
	}
	completer := opts.Completer
	if completer == nil {
		completer = llm.PlaceholderCompleter{}
	}
	return &Service{
		answers:      answers,
		completer:    completer,
		systemPrompt: opts.SystemPrompt,
		timeout:      opts.Timeout,
		provider:     opts.Provider,
		model:        opts.Model,
	}
}

// SystemPrompt returns the prompt sent with every completion.
func (s *Service) SystemPrompt() string {
	return s.systemPrompt
}

// Handle turns a raw visitor message into a reply. It never fails: every
// error from the completer collapses into FallbackReply.
func (s *Service) Handle(ctx context.Context, raw string) Result {
	metrics.IncChatRequest()

	text := strings.TrimSpace(raw)
	if text == "" {
		metrics.IncEmptyInput()
		return Result{Reply: EmptyReply, Route: RouteEmpty}
	}

	if topic, ok := s.answers.Match(text); ok {
		if answer, found := s.answers.Answer(topic); found {
			metrics.IncPreparedAnswer(string(topic))
			return Result{Reply: answer, Route: RoutePrepared, Topic: topic}
		}
	}

	return Result{Reply: s.complete(ctx, text), Route: RouteCompletion}
}

func (s *Service) complete(ctx context.Context, text string) (reply string) {
	// The call outlives a disconnected client; its result is then discarded.
	callCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			s.fail(text, time.Since(start), fmt.Errorf("completer panic: %v", rec))
			reply = FallbackReply
		}
	}()

	reply, err := s.completer.Complete(callCtx, s.systemPrompt, text)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = llm.ErrEmptyContent
	}
	if err != nil {
		s.fail(text, time.Since(start), err)
		return FallbackReply
	}
	metrics.ObserveCompletion(time.Since(start), false)
	return reply
}

func (s *Service) fail(text string, elapsed time.Duration, err error) {
	metrics.ObserveCompletion(elapsed, true)
	telemetry.Error("llm.complete.failed", map[string]any{
		"provider":    s.provider,
		"model":       s.model,
		"input_len":   len(text),
		"duration_ms": elapsed.Milliseconds(),
		"error":       err,
	})
}
