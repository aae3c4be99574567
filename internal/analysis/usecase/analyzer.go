package usecase

import (
	"context"
	"log"

	"mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"
	"mail-calendar-agent/pkg/ai"
)

const connectionTestPrompt = "Say hello and confirm you're working!"

// ConnectionResult reports a model round trip.
type ConnectionResult struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Analyzer turns messages into Results, using the language model when it
// answers with usable JSON and the heuristic fallback otherwise.
type Analyzer struct {
	generator ai.TextGenerator
}

// NewAnalyzer accepts a nil generator, in which case every message goes
// through the fallback.
func NewAnalyzer(generator ai.TextGenerator) *Analyzer {
	return &Analyzer{generator: generator}
}

// Analyze never fails.
func (a *Analyzer) Analyze(ctx context.Context, msg *emaildomain.Message) *domain.Result {
	if a.generator == nil {
		return Fallback(msg, nil)
	}

	text, err := a.generator.Generate(ctx, BuildPrompt(msg))
	if err != nil {
		log.Printf("[Analyzer] %s analysis failed for %q: %v", a.generator.Name(), msg.Subject, err)
		return Fallback(msg, nil)
	}

	result, err := ParseResponse(text)
	if err != nil {
		log.Printf("[Analyzer] JSON parse error for %q: %v", msg.Subject, err)
		return Fallback(msg, &text)
	}
	if result.Summary == "" {
		result.Summary = msg.Subject
	}

	log.Printf("[Analyzer] Email analyzed: %s", msg.Subject)
	return result
}

func (a *Analyzer) TestConnection(ctx context.Context) ConnectionResult {
	if a.generator == nil {
		return ConnectionResult{Success: false, Error: "no AI provider configured"}
	}

	text, err := a.generator.Generate(ctx, connectionTestPrompt)
	if err != nil {
		log.Printf("[Analyzer] connection test failed: %v", err)
		return ConnectionResult{Success: false, Provider: a.generator.Name(), Error: err.Error()}
	}
	return ConnectionResult{Success: true, Provider: a.generator.Name(), Response: text}
}
