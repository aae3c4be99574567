package usecase

import (
	"regexp"
	"sort"
	"strings"

	"mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"
)

const (
	fallbackDeadlineDescription = "Deadline detected but not parsed"
	summarySnippetLength        = 150
	maxKeywords                 = 5
)

var importantKeywords = []string{
	"urgent", "deadline", "asap", "important", "critical", "meeting",
	"interview", "exam", "assignment", "project", "due", "payment",
}

var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)(today|tomorrow|next week|this week)`),
	regexp.MustCompile(`(?i)(due|deadline|expires?|ends?)\s+(on|by|at)?\s*([^\n.,]+)`),
}

var (
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
	stopWords      = map[string]bool{
		"this": true, "that": true, "with": true, "from": true,
		"they": true, "have": true, "been": true, "will": true,
	}
)

// Fallback derives a deterministic Result from the message alone. raw is the
// unusable model output, if any.
func Fallback(msg *emaildomain.Message, raw *string) *domain.Result {
	content := msg.Content()
	lowerContent := strings.ToLower(content)
	lowerSubject := strings.ToLower(msg.Subject)

	important := false
	for _, kw := range importantKeywords {
		if strings.Contains(lowerContent, kw) || strings.Contains(lowerSubject, kw) {
			important = true
			break
		}
	}

	hasDeadline := false
	for _, p := range deadlinePatterns {
		if p.MatchString(content) || p.MatchString(msg.Subject) {
			hasDeadline = true
			break
		}
	}

	score := 5
	if important {
		score = 8
	}

	result := &domain.Result{
		Summary:         msg.Subject + " - " + summarySnippet(content),
		ImportanceScore: score,
		ActionRequired:  important || hasDeadline,
		Category:        Categorize(msg),
		Sentiment:       domain.SentimentNeutral,
		Keywords:        ExtractKeywords(content),
		RawResponse:     raw,
		Fallback:        true,
	}
	if hasDeadline {
		result.Deadline = &domain.Deadline{Description: fallbackDeadlineDescription}
	}
	return result
}

func summarySnippet(content string) string {
	runes := []rune(content)
	if len(runes) > summarySnippetLength {
		return string(runes[:summarySnippetLength]) + "..."
	}
	return content
}

// Categorize applies the sender, subject and body rules in priority order.
func Categorize(msg *emaildomain.Message) string {
	content := strings.ToLower(msg.Content())
	subject := strings.ToLower(msg.Subject)
	from := strings.ToLower(msg.From)

	switch {
	case strings.Contains(from, "noreply") || strings.Contains(from, "no-reply") ||
		strings.Contains(content, "unsubscribe") || strings.Contains(subject, "newsletter"):
		return domain.CategoryPromotional
	case strings.Contains(subject, "meeting") || strings.Contains(subject, "calendar") ||
		strings.Contains(content, "appointment") || strings.Contains(content, "schedule"):
		return domain.CategoryWork
	case strings.Contains(from, "facebook") || strings.Contains(from, "twitter") ||
		strings.Contains(from, "linkedin") || strings.Contains(from, "instagram"):
		return domain.CategorySocial
	default:
		return domain.CategoryPersonal
	}
}

// ExtractKeywords returns up to five of the most frequent words longer than
// three characters. Ties keep first-occurrence order.
func ExtractKeywords(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 || stopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	if order == nil {
		return []string{}
	}
	return order
}
