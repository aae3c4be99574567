package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	out    string
	err    error
	prompt string
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.out, s.err
}

func testMessage() *emaildomain.Message {
	return &emaildomain.Message{
		ID:      "m1",
		Subject: "Quarterly report",
		From:    "boss@example.com",
		Body:    "Please send the report.",
		Snippet: "Please send",
	}
}

func TestAnalyzeParsesFencedJSON(t *testing.T) {
	gen := &stubGenerator{out: "```json\n" + `{
		"summary": "Send the quarterly report",
		"importance_score": 9,
		"deadline_info": {"has_deadline": true, "deadline_date": "2024-03-01", "deadline_time": "17:00", "deadline_description": "Report due"},
		"action_required": true,
		"category": "work",
		"sentiment": "neutral",
		"keywords": ["report", "quarterly"]
	}` + "\n```"}

	result := NewAnalyzer(gen).Analyze(context.Background(), testMessage())

	require.NotNil(t, result)
	assert.False(t, result.Fallback)
	assert.Equal(t, "Send the quarterly report", result.Summary)
	assert.Equal(t, 9, result.ImportanceScore)
	require.True(t, result.HasDeadline())
	assert.Equal(t, "2024-03-01", *result.Deadline.Date)
	assert.Equal(t, "17:00", *result.Deadline.Time)
	assert.Equal(t, "Report due", result.Deadline.Description)
	assert.Equal(t, domain.CategoryWork, result.Category)
	assert.Equal(t, []string{"report", "quarterly"}, result.Keywords)

	assert.Contains(t, gen.prompt, "Subject: Quarterly report")
	assert.Contains(t, gen.prompt, "From: boss@example.com")
	assert.Contains(t, gen.prompt, "Content: Please send the report.")
	assert.True(t, strings.HasSuffix(gen.prompt, "Please provide only the JSON response, no other text."))
}

func TestAnalyzeNormalizesModelOutput(t *testing.T) {
	gen := &stubGenerator{out: `{"summary":"x","importance_score":42,"deadline_info":{"has_deadline":true,"deadline_date":"soon","deadline_time":"null","deadline_description":"Pay"},"category":"Spam","sentiment":"ecstatic"}`}

	result := NewAnalyzer(gen).Analyze(context.Background(), testMessage())

	assert.Equal(t, 10, result.ImportanceScore)
	assert.Equal(t, domain.CategoryOther, result.Category)
	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
	assert.Equal(t, []string{}, result.Keywords)
	require.True(t, result.HasDeadline())
	assert.Nil(t, result.Deadline.Date)
	assert.Nil(t, result.Deadline.Time)
	assert.Equal(t, "Pay", result.Deadline.Description)
}

func TestAnalyzeNoDeadline(t *testing.T) {
	gen := &stubGenerator{out: `{"summary":"hi","importance_score":2,"deadline_info":{"has_deadline":false,"deadline_date":null},"category":"personal","sentiment":"positive","keywords":[]}`}

	result := NewAnalyzer(gen).Analyze(context.Background(), testMessage())

	assert.False(t, result.HasDeadline())
	assert.Equal(t, 2, result.ImportanceScore)
}

func TestAnalyzeModelErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("503 unavailable")}

	result := NewAnalyzer(gen).Analyze(context.Background(), testMessage())

	assert.True(t, result.Fallback)
	assert.Nil(t, result.RawResponse)
}

func TestAnalyzeParseErrorKeepsRawResponse(t *testing.T) {
	gen := &stubGenerator{out: "I think this email is important."}

	result := NewAnalyzer(gen).Analyze(context.Background(), testMessage())

	assert.True(t, result.Fallback)
	require.NotNil(t, result.RawResponse)
	assert.Equal(t, "I think this email is important.", *result.RawResponse)
}

func TestAnalyzeWithoutGenerator(t *testing.T) {
	result := NewAnalyzer(nil).Analyze(context.Background(), testMessage())
	assert.True(t, result.Fallback)
}

func TestTestConnection(t *testing.T) {
	gen := &stubGenerator{out: "Hello! I'm working."}

	res := NewAnalyzer(gen).TestConnection(context.Background())

	assert.True(t, res.Success)
	assert.Equal(t, "Hello! I'm working.", res.Response)
	assert.Equal(t, "Say hello and confirm you're working!", gen.prompt)

	failed := NewAnalyzer(&stubGenerator{err: errors.New("down")}).TestConnection(context.Background())
	assert.False(t, failed.Success)
	assert.Equal(t, "down", failed.Error)
}

func TestAnalyzeFallbackIsDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{err: errors.New("503 unavailable")})

	first := analyzer.Analyze(context.Background(), testMessage())
	require.True(t, first.Fallback)

	for i := 0; i < 5; i++ {
		again := analyzer.Analyze(context.Background(), testMessage())
		assert.Equal(t, first.ImportanceScore, again.ImportanceScore)
		assert.Equal(t, first.Category, again.Category)
		assert.Equal(t, first.HasDeadline(), again.HasDeadline())
		assert.Equal(t, first.Keywords, again.Keywords)
	}
}
