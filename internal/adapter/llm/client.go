// Package llm is the generation collaborator: a chat-completion client for
// Groq's OpenAI-compatible endpoint, guarded by a circuit breaker.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/draftdesk/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"

	httpCallTimeout = 60 * time.Second
)

var errNoChoices = errors.New("completion returned no choices")

// Config describes the completion endpoint and sampling parameters.
// A zero Temperature means greedy sampling, not the provider default.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int

	// FailureThreshold consecutive outages open the circuit for BreakerDelay.
	FailureThreshold uint
	BreakerDelay     time.Duration

	// OnStateChange is notified with "closed", "half-open" or "open".
	OnStateChange func(state string)
	HTTPClient    *http.Client
}

// Client implements domain.Generator. It never retries.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	breaker     circuitbreaker.CircuitBreaker[any]
}

var _ domain.Generator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerDelay == 0 {
		cfg.BreakerDelay = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: httpCallTimeout}
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = cfg.HTTPClient

	// The request field is omitempty, so a literal zero would be dropped.
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	onStateChange := cfg.OnStateChange
	breaker := circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(cfg.FailureThreshold).
		WithDelay(cfg.BreakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "llm",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			if onStateChange != nil {
				onStateChange(stateName(e.NewState))
			}
		}).
		Build()

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		breaker:     breaker,
	}
}

// Generate sends prompt as a single user message and returns the trimmed reply.
// Every failure is a *GenerationError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.breaker.TryAcquirePermit() {
		return "", classify(fmt.Errorf("completion endpoint unavailable: %w", circuitbreaker.ErrOpen))
	}
	trial := c.breaker.IsHalfOpen()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		genErr := classify(err)
		c.recordFailure(ctx, genErr, trial)
		return "", genErr
	}
	c.breaker.RecordSuccess()

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Kind: KindMalformed, Err: errNoChoices}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// recordFailure reports a failed call to the breaker. Deadline expiry counts
// against the upstream; a cancelled caller reports nothing, except that a
// cancelled half-open trial re-opens the circuit because it held the only permit.
func (c *Client) recordFailure(ctx context.Context, genErr *GenerationError, trial bool) {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		if trial && c.breaker.IsHalfOpen() {
			c.breaker.Open()
		}
	case countsAsFailure(genErr.Kind):
		c.breaker.RecordError(genErr)
	default:
		// The upstream answered; auth and rate-limit rejections say it is up.
		c.breaker.RecordSuccess()
	}
}

// State returns the breaker state name.
func (c *Client) State() string {
	return stateName(c.breaker.State())
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.ClosedState:
		return "closed"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	case circuitbreaker.OpenState:
		return "open"
	default:
		return "unknown"
	}
}
