package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/sony/gobreaker"
)

// FallbackService tries providers in order and moves on to the next one when
// a provider fails.
type FallbackService struct {
	providers []TextGenerator
}

// NewFallbackService creates a new fallback service over the given providers
func NewFallbackService(providers ...TextGenerator) *FallbackService {
	return &FallbackService{
		providers: providers,
	}
}

func (f *FallbackService) Name() string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}
	return "auto(" + strings.Join(names, ",") + ")"
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

func describeFailure(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit open"
	case isQuotaError(err):
		return "quota exhausted"
	case isConnectionError(err):
		return "connection failed"
	default:
		return "error"
	}
}

// Generate returns the first successful provider response.
func (f *FallbackService) Generate(ctx context.Context, prompt string) (string, error) {
	if len(f.providers) == 0 {
		return "", fmt.Errorf("no AI provider available")
	}

	var lastErr error
	for i, p := range f.providers {
		result, err := p.Generate(ctx, prompt)
		if err == nil {
			if i > 0 {
				log.Printf("[AI] %s succeeded after fallback", p.Name())
			}
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if i < len(f.providers)-1 {
			log.Printf("[AI] %s %s: %v, falling back to %s", p.Name(), describeFailure(err), err, f.providers[i+1].Name())
		}
	}

	return "", fmt.Errorf("all AI providers failed: %w", lastErr)
}
