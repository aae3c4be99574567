package domain

const (
	CategoryWork        = "work"
	CategoryPersonal    = "personal"
	CategoryPromotional = "promotional"
	CategorySocial      = "social"
	CategoryOther       = "other"

	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"

	MinImportance = 1
	MaxImportance = 10
)

// Deadline is present on a Result only when a deadline was detected.
// Date is YYYY-MM-DD and Time is HH:MM; either may be unknown.
type Deadline struct {
	Date        *string
	Time        *string
	Description string
}

// Result is the structured outcome of analyzing one message.
type Result struct {
	Summary         string
	ImportanceScore int
	Deadline        *Deadline
	ActionRequired  bool
	Category        string
	Sentiment       string
	Keywords        []string

	// RawResponse holds the model output when it could not be used.
	RawResponse *string
	// Fallback is set when the heuristic analysis produced this result.
	Fallback bool
}

func (r *Result) HasDeadline() bool {
	return r != nil && r.Deadline != nil
}

// DeadlineInfo is the JSON form of a deadline, shared by the model output,
// the stored deadline_extracted column and API responses.
type DeadlineInfo struct {
	HasDeadline         bool    `json:"has_deadline"`
	DeadlineDate        *string `json:"deadline_date"`
	DeadlineTime        *string `json:"deadline_time"`
	DeadlineDescription *string `json:"deadline_description"`
}

// DeadlineInfo converts the optional deadline into its JSON form.
func (r *Result) DeadlineInfo() DeadlineInfo {
	if !r.HasDeadline() {
		return DeadlineInfo{}
	}
	desc := r.Deadline.Description
	return DeadlineInfo{
		HasDeadline:         true,
		DeadlineDate:        r.Deadline.Date,
		DeadlineTime:        r.Deadline.Time,
		DeadlineDescription: &desc,
	}
}

func IsValidCategory(c string) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryPromotional, CategorySocial, CategoryOther:
		return true
	}
	return false
}

func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}
