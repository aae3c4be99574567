package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"

	"github.com/goccy/go-json"
)

const promptTemplate = `Analyze this email and provide a JSON response with the following structure:
{
  "summary": "Brief summary of the email content (max 200 characters)",
  "importance_score": integer (1-10, 10 being most important),
  "deadline_info": {
    "has_deadline": true/false,
    "deadline_date": "YYYY-MM-DD format if found, null otherwise",
    "deadline_time": "HH:MM format if found, null otherwise",
    "deadline_description": "description of what the deadline is for"
  },
  "action_required": true/false,
  "category": "work/personal/promotional/social/other",
  "sentiment": "positive/neutral/negative",
  "keywords": ["key", "words", "from", "email"]
}

Email to analyze:
Subject: %s
From: %s
Content: %s

Please provide only the JSON response, no other text.`

// BuildPrompt embeds the message into the analysis instructions.
func BuildPrompt(msg *emaildomain.Message) string {
	return fmt.Sprintf(promptTemplate, msg.Subject, msg.From, msg.Content())
}

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// StripFences removes markdown code fences around model output.
func StripFences(text string) string {
	return strings.TrimSpace(fenceReplacer.Replace(text))
}

type wireResult struct {
	Summary         string               `json:"summary"`
	ImportanceScore float64              `json:"importance_score"`
	DeadlineInfo    *domain.DeadlineInfo `json:"deadline_info"`
	ActionRequired  bool                 `json:"action_required"`
	Category        string               `json:"category"`
	Sentiment       string               `json:"sentiment"`
	Keywords        []string             `json:"keywords"`
}

// ParseResponse decodes model output into a normalized Result.
func ParseResponse(text string) (*domain.Result, error) {
	var wire wireResult
	if err := json.Unmarshal([]byte(StripFences(text)), &wire); err != nil {
		return nil, fmt.Errorf("unable to parse model output: %w", err)
	}
	return normalize(&wire), nil
}

func normalize(w *wireResult) *domain.Result {
	result := &domain.Result{
		Summary:         strings.TrimSpace(w.Summary),
		ImportanceScore: clampImportance(w.ImportanceScore),
		ActionRequired:  w.ActionRequired,
		Category:        strings.ToLower(strings.TrimSpace(w.Category)),
		Sentiment:       strings.ToLower(strings.TrimSpace(w.Sentiment)),
		Keywords:        w.Keywords,
	}

	if !domain.IsValidCategory(result.Category) {
		result.Category = domain.CategoryOther
	}
	if !domain.IsValidSentiment(result.Sentiment) {
		result.Sentiment = domain.SentimentNeutral
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}

	if d := w.DeadlineInfo; d != nil && d.HasDeadline {
		deadline := &domain.Deadline{
			Date: optional(d.DeadlineDate),
			Time: optional(d.DeadlineTime),
		}
		if desc := optional(d.DeadlineDescription); desc != nil {
			deadline.Description = *desc
		}
		if deadline.Date != nil {
			if _, err := time.Parse("2006-01-02", *deadline.Date); err != nil {
				deadline.Date = nil
			}
		}
		if deadline.Time != nil {
			if _, err := time.Parse("15:04", *deadline.Time); err != nil {
				deadline.Time = nil
			}
		}
		result.Deadline = deadline
	}

	return result
}

// A missing score decodes as 0 and is treated as neutral importance.
func clampImportance(score float64) int {
	if score == 0 || math.IsNaN(score) {
		return 5
	}
	n := int(math.Round(score))
	if n < domain.MinImportance {
		return domain.MinImportance
	}
	if n > domain.MaxImportance {
		return domain.MaxImportance
	}
	return n
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
