package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	AgentMarkerKey   = "ai-agent"
	AgentMarkerValue = "true"
	SourceTitle      = "Mail Calendar AI Agent"

	defaultStartTime     = "09:00"
	maxTitleLength       = 100
	maxDescriptionBody   = 500
	meetingDuration      = 60 * time.Minute
	taskDuration         = 30 * time.Minute
	emailReminderMinutes = 24 * 60
	popupReminderMinutes = 30
)

// BuildEvent composes the calendar payload for an analyzed message. now and
// loc fix the default start time and the zone dates are interpreted in.
func BuildEvent(msg *emaildomain.Message, result *analysisdomain.Result, now time.Time, loc *time.Location) *gcal.Event {
	start := resolveStart(result.Deadline, now, loc)
	end := start.Add(eventDuration(msg, result))

	event := &gcal.Event{
		Summary:     EventTitle(msg, result),
		Description: EventDescription(msg, result),
		Start:       eventTime(start, loc),
		End:         eventTime(end, loc),
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: emailReminderMinutes},
				{Method: "popup", Minutes: popupReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				AgentMarkerKey:     AgentMarkerValue,
				"email-subject":    msg.Subject,
				"importance-score": strconv.Itoa(result.ImportanceScore),
				"email-from":       msg.From,
			},
		},
	}

	if msg.ID != "" {
		event.Source = &gcal.EventSource{
			Title: SourceTitle,
			Url:   "https://mail.google.com/mail/#inbox/" + msg.ID,
		}
	}
	return event
}

// resolveStart uses the deadline date (and time, default 09:00) when it
// parses, otherwise tomorrow at 09:00.
func resolveStart(deadline *analysisdomain.Deadline, now time.Time, loc *time.Location) time.Time {
	if deadline != nil && deadline.Date != nil {
		clock := defaultStartTime
		if deadline.Time != nil {
			clock = *deadline.Time
		}
		if start, err := time.ParseInLocation("2006-01-02 15:04", *deadline.Date+" "+clock, loc); err == nil {
			return start
		}
		if start, err := time.ParseInLocation("2006-01-02 15:04", *deadline.Date+" "+defaultStartTime, loc); err == nil {
			return start
		}
	}

	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 9, 0, 0, 0, loc)
}

func eventDuration(msg *emaildomain.Message, result *analysisdomain.Result) time.Duration {
	if result.Category == analysisdomain.CategoryWork && strings.Contains(strings.ToLower(msg.Subject), "meeting") {
		return meetingDuration
	}
	return taskDuration
}

func eventTime(t time.Time, loc *time.Location) *gcal.EventDateTime {
	edt := &gcal.EventDateTime{DateTime: t.Format(time.RFC3339)}
	if name := loc.String(); name != "" && name != "Local" {
		edt.TimeZone = name
	}
	return edt
}

// EventTitle prefers the deadline description, then the subject.
func EventTitle(msg *emaildomain.Message, result *analysisdomain.Result) string {
	var title string
	switch {
	case result.Deadline != nil && result.Deadline.Description != "":
		title = "📧 " + result.Deadline.Description
	case result.ActionRequired:
		title = "📧 Action Required: " + msg.Subject
	default:
		title = "📧 " + msg.Subject
	}

	runes := []rune(title)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength-3]) + "..."
	}
	return title
}

func EventDescription(msg *emaildomain.Message, result *analysisdomain.Result) string {
	actionRequired := "No"
	if result.ActionRequired {
		actionRequired = "Yes"
	}

	parts := []string{
		"🤖 This event was created automatically by Mail Calendar AI Agent",
		"",
		"📧 **Original Email:**",
		"From: " + msg.From,
		"Subject: " + msg.Subject,
		"Date: " + msg.Date,
		"",
		"🧠 **AI Analysis:**",
		"Summary: " + result.Summary,
		fmt.Sprintf("Importance: %d/10", result.ImportanceScore),
		"Category: " + result.Category,
		"Action Required: " + actionRequired,
	}

	if result.Deadline != nil && result.Deadline.Description != "" {
		parts = append(parts, "Deadline: "+result.Deadline.Description)
	}
	if len(result.Keywords) > 0 {
		parts = append(parts, "Keywords: "+strings.Join(result.Keywords, ", "))
	}

	parts = append(parts, "", "📎 **Original Email Content:**")

	content := []rune(msg.Content())
	if len(content) > maxDescriptionBody {
		parts = append(parts, string(content[:maxDescriptionBody])+"... [truncated]")
	} else {
		parts = append(parts, string(content))
	}

	return strings.Join(parts, "\n")
}

// IsAgentCreated reports whether the event carries the private agent marker.
func IsAgentCreated(event *gcal.Event) bool {
	return event != nil && event.ExtendedProperties != nil &&
		event.ExtendedProperties.Private[AgentMarkerKey] == AgentMarkerValue
}
