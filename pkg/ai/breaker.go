package ai

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerGenerator stops calling a provider after repeated failures and lets
// a probe through once the open timeout has passed.
type BreakerGenerator struct {
	inner TextGenerator
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerGenerator(inner TextGenerator) *BreakerGenerator {
	settings := gobreaker.Settings{
		Name:        "ai-" + inner.Name(),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &BreakerGenerator{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerGenerator) Name() string {
	return b.inner.Name()
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}

// BreakerStates returns the state of every breaker behind g keyed by provider
// name. It is empty for a nil g or a generator without breakers.
func BreakerStates(g TextGenerator) map[string]string {
	states := make(map[string]string)
	collectBreakerStates(g, states)
	return states
}

func collectBreakerStates(g TextGenerator, states map[string]string) {
	switch v := g.(type) {
	case *BreakerGenerator:
		states[v.Name()] = v.State().String()
	case *FallbackService:
		for _, p := range v.providers {
			collectBreakerStates(p, states)
		}
	}
}
