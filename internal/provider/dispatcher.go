package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/port"
)

// ErrTimeout marks a call that exceeded its per-attempt deadline.
var ErrTimeout = errors.New("provider call timed out")

const (
	defaultTimeout     = 90 * time.Second
	defaultTemperature = 0.1
	defaultMaxTokens   = 4000
	defaultRetryDelay  = time.Second
	maxRetryDelay      = 30 * time.Second
)

// Target is one configured provider as seen by the dispatcher.
type Target struct {
	ID         string
	Provider   port.CompletionProvider
	Timeout    time.Duration
	MaxRetries int
	MaxTokens  int
}

// Options are the call parameters shared by every target.
type Options struct {
	Temperature float64
	Timeout     time.Duration
	MaxTokens   int
	Concurrency int // 0 = one goroutine per target
	RetryDelay  time.Duration
}

// Dispatcher fans one prompt out to every configured provider.
type Dispatcher struct {
	targets []Target
	opts    Options
}

// NewDispatcher creates a Dispatcher over targets, in the given order.
func NewDispatcher(targets []Target, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Dispatcher{targets: targets, opts: opts}
}

// NewDispatcherFromConfig builds every provider listed in cfg.Providers
// through the registry.
func NewDispatcherFromConfig(cfg *config.Config) (*Dispatcher, error) {
	if len(cfg.Providers) == 0 {
		return nil, domain.ErrNoProviders
	}
	targets := make([]Target, 0, len(cfg.Providers))
	for i := range cfg.Providers {
		pc := &cfg.Providers[i]
		p, err := NewProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("creating provider %s: %w", pc.ID, err)
		}
		targets = append(targets, Target{
			ID:         pc.ID,
			Provider:   p,
			Timeout:    time.Duration(pc.TimeoutSecs) * time.Second,
			MaxRetries: pc.MaxRetries,
			MaxTokens:  pc.MaxTokens,
		})
	}
	temperature := cfg.Dispatch.Temperature
	if temperature < 0 {
		temperature = defaultTemperature
	}
	return NewDispatcher(targets, Options{
		Temperature: temperature,
		Timeout:     cfg.Dispatch.Timeout(),
		MaxTokens:   cfg.Dispatch.MaxTokens,
		Concurrency: cfg.Dispatch.Concurrency,
	}), nil
}

// ProviderIDs returns the configured provider ids in order.
func (d *Dispatcher) ProviderIDs() []string {
	ids := make([]string, len(d.targets))
	for i := range d.targets {
		ids[i] = d.targets[i].ID
	}
	return ids
}

// Dispatch sends the prompt to every provider concurrently and waits for all
// of them. A failing or slow provider never cancels the others; each outcome
// is captured in the returned slice, which follows configuration order.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt domain.PromptPair) []domain.ProviderResponse {
	responses := make([]domain.ProviderResponse, len(d.targets))

	var g errgroup.Group
	if d.opts.Concurrency > 0 {
		g.SetLimit(d.opts.Concurrency)
	}
	for i := range d.targets {
		g.Go(func() error {
			responses[i] = d.call(ctx, &d.targets[i], prompt)
			return nil
		})
	}
	_ = g.Wait()

	return responses
}

func (d *Dispatcher) call(ctx context.Context, t *Target, prompt domain.PromptPair) (resp domain.ProviderResponse) {
	resp.ProviderID = t.ID
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp.Err = fmt.Errorf("provider %s panicked: %v", t.ID, r)
		}
		resp.Duration = time.Since(start)
		if resp.Err != nil {
			log.Printf("provider.Dispatcher: %s failed after %d attempt(s) in %s: %v", t.ID, resp.Attempts, resp.Duration, resp.Err)
		}
	}()

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = d.opts.Timeout
	}
	maxTokens := t.MaxTokens
	if maxTokens <= 0 {
		maxTokens = d.opts.MaxTokens
	}
	req := port.CompletionRequest{
		System:      prompt.System,
		User:        prompt.User,
		Temperature: d.opts.Temperature,
		MaxTokens:   maxTokens,
	}

	attempts := uint(1)
	if t.MaxRetries > 0 {
		attempts += uint(t.MaxRetries)
	}

	var completion *port.Completion
	err := retry.Do(
		func() error {
			resp.Attempts++
			c, err := completeOnce(ctx, t.Provider, req, timeout)
			if err != nil {
				return err
			}
			completion = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(d.opts.RetryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retryDelay),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if n+1 < attempts {
				log.Printf("provider.Dispatcher: retrying %s (attempt %d of %d): %v", t.ID, n+2, attempts, err)
			}
		}),
	)
	if err != nil {
		resp.Err = err
		return resp
	}

	resp.RawText = completion.Text
	resp.Model = completion.Model
	resp.InputTokens = completion.InputTokens
	resp.OutputTokens = completion.OutputTokens
	return resp
}

// completeOnce runs a single attempt under its own deadline.
func completeOnce(ctx context.Context, p port.CompletionProvider, req port.CompletionRequest, timeout time.Duration) (*port.Completion, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c, err := p.Complete(attemptCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, err)
		}
		return nil, err
	}
	if c == nil {
		return nil, ErrEmptyCompletion
	}
	return c, nil
}

// retryDelay honours a provider's Retry-After and otherwise backs off exponentially.
func retryDelay(n uint, err error, cfg *retry.Config) time.Duration {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		if rlErr.RetryAfter > maxRetryDelay {
			return maxRetryDelay
		}
		return rlErr.RetryAfter
	}
	return retry.BackOffDelay(n, err, cfg)
}
