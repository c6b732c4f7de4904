package upload

import (
	"context"
	"fmt"
	"strings"
)

// Attempt records one provider's failure while walking the chain.
type Attempt struct {
	Provider string
	Err      error
}

// ExhaustedError is returned when every provider in the chain failed.
// Its message tags each failure with the provider's name, in attempt order;
// it is meant for humans reading logs, not for machine parsing.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Provider, a.Err)
	}
	return "all upload providers failed: " + strings.Join(parts, " | ")
}

// Chain tries providers strictly in order until one returns a URL.
// Provider N+1 is never started before provider N has fully resolved; there
// is no speculative fan-out and no per-provider retry.
type Chain struct {
	limits    Limits
	providers []Provider
}

// NewChain builds a chain over the given providers. The order and the
// provider set are a configuration concern; callers assemble both from
// config rather than hardcoding them.
func NewChain(limits Limits, providers ...Provider) *Chain {
	return &Chain{limits: limits, providers: providers}
}

// Providers returns the attempt order, for logging and introspection.
func (ch *Chain) Providers() []string {
	names := make([]string, len(ch.providers))
	for i, p := range ch.providers {
		names[i] = p.Name()
	}
	return names
}

// Upload validates the candidate once, then walks the chain. The first
// provider to return a well-formed URL short-circuits the walk; if all fail
// the caller gets a single aggregated *ExhaustedError.
func (ch *Chain) Upload(ctx context.Context, c Candidate) (string, error) {
	if err := Validate(c, ch.limits); err != nil {
		return "", err
	}

	log.Info().
		Int64("bytes", c.Size()).
		Str("mime", c.MIME).
		Int("providers", len(ch.providers)).
		Msg("uploading image")

	var attempts []Attempt
	for _, p := range ch.providers {
		url, err := p.Upload(ctx, c)
		if err == nil {
			log.Info().Str("provider", p.Name()).Str("url", url).Msg("upload succeeded")
			return url, nil
		}
		log.Warn().Str("provider", p.Name()).Err(err).Msg("upload attempt failed, trying next")
		attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})

		if ctx.Err() != nil {
			break
		}
	}

	err := &ExhaustedError{Attempts: attempts}
	log.Error().Err(err).Msg("all upload providers failed")
	return "", err
}
