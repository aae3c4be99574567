package usecase

import (
	"context"
	"fmt"
	"log"

	agentdto "mail-calendar-agent/internal/agent/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emaildto "mail-calendar-agent/internal/email/dto"
	"mail-calendar-agent/internal/email/repository"
	"mail-calendar-agent/pkg/gmail"
	"mail-calendar-agent/pkg/throttle"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	DefaultMaxEmails = 10
	DefaultTimeRange = "1d"
	DefaultLogLimit  = 50

	statusProcessedLimit = 20
	statusRecentLimit    = 5
	statusEventsLimit    = 10
)

// agentUsecase implements AgentUsecase interface
type agentUsecase struct {
	mail             MailGateway
	analyzer         Analyzer
	calendar         CalendarGateway
	processedRepo    repository.ProcessedEmailRepository
	logRepo          repository.AgentLogRepository
	requestThrottle  throttle.Throttle
	defaultMax       int
	defaultTimeRange string
}

// NewAgentUsecase creates a new instance of agentUsecase. requestThrottle
// paces successive messages inside a run; nil disables pacing.
func NewAgentUsecase(
	mail MailGateway,
	analyzer Analyzer,
	calendar CalendarGateway,
	processedRepo repository.ProcessedEmailRepository,
	logRepo repository.AgentLogRepository,
	requestThrottle throttle.Throttle,
	defaultMax int,
	defaultTimeRange string,
) AgentUsecase {
	if requestThrottle == nil {
		requestThrottle = throttle.Noop()
	}
	if defaultMax <= 0 {
		defaultMax = DefaultMaxEmails
	}
	if defaultTimeRange == "" {
		defaultTimeRange = DefaultTimeRange
	}
	return &agentUsecase{
		mail:             mail,
		analyzer:         analyzer,
		calendar:         calendar,
		processedRepo:    processedRepo,
		logRepo:          logRepo,
		requestThrottle:  requestThrottle,
		defaultMax:       defaultMax,
		defaultTimeRange: defaultTimeRange,
	}
}

// Process runs one pass over the user's recent mail. Only a failure to list
// messages aborts the run; per-message failures are recorded in the result.
func (u *agentUsecase) Process(ctx context.Context, req agentdto.ProcessRequest) (*agentdto.ProcessResult, error) {
	if req.MaxEmails <= 0 {
		req.MaxEmails = u.defaultMax
	}
	if req.TimeRange == "" {
		req.TimeRange = u.defaultTimeRange
	}
	if err := gmail.ValidateTimeRange(req.TimeRange); err != nil {
		return nil, err
	}
	email := req.Email
	runID := uuid.New().String()

	log.Printf("[Agent] Starting run %s for %s", runID, email)
	u.logAction(email, emaildomain.ActionAgentProcessStart, emaildomain.LogStatusInfo,
		fmt.Sprintf("Processing up to %d emails from last %s", req.MaxEmails, req.TimeRange))

	results := agentdto.NewResults()

	refs, err := u.mail.ListRecent(ctx, email, req.MaxEmails, req.TimeRange)
	if err != nil {
		u.logAction(email, emaildomain.ActionAgentProcessError, emaildomain.LogStatusError, err.Error())
		return nil, fmt.Errorf("agent processing failed: %w", err)
	}
	results.Summary.TotalEmails = len(refs)

	if len(refs) == 0 {
		log.Printf("[Agent] No new emails found for %s", email)
		return &agentdto.ProcessResult{Success: true, Message: "No new emails found to process", RunID: runID, Results: results}, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	messages, fetchErrors := u.mail.GetDetailsBatch(ctx, email, ids)
	results.Errors = append(results.Errors, fetchErrors...)
	results.Summary.Errors = len(fetchErrors)

	if len(messages) == 0 {
		log.Printf("[Agent] No email details could be retrieved for %s", email)
		return &agentdto.ProcessResult{Success: true, Message: "No email details could be retrieved", RunID: runID, Results: results}, nil
	}

	for i, msg := range messages {
		log.Printf("[Agent] Processing email %d/%d: %s", i+1, len(messages), msg.Subject)

		if err := u.processMessage(ctx, email, msg, req.ShouldCreateEvents(), &results); err != nil {
			log.Printf("[Agent] Process email %q failed: %v", msg.Subject, err)
			results.Errors = append(results.Errors, emaildto.ProcessingError{
				Type:         emaildto.ErrorTypeProcessing,
				MessageID:    msg.ID,
				EmailSubject: msg.Subject,
				Error:        err.Error(),
			})
			results.Summary.Errors++
		}

		if i < len(messages)-1 {
			if err := u.requestThrottle.Wait(ctx); err != nil {
				log.Printf("[Agent] Run %s interrupted: %v", runID, err)
				break
			}
		}
	}

	u.logAction(email, emaildomain.ActionAgentProcessComplete, emaildomain.LogStatusSuccess,
		fmt.Sprintf("Processed %d emails, created %d events", results.Summary.ProcessedEmails, results.Summary.CreatedEvents))
	log.Printf("[Agent] Run %s complete: %d processed, %d events, %d errors",
		runID, results.Summary.ProcessedEmails, results.Summary.CreatedEvents, results.Summary.Errors)

	return &agentdto.ProcessResult{Success: true, Message: "AI agent processing completed", RunID: runID, Results: results}, nil
}

// processMessage analyzes, optionally schedules and persists one message. A
// calendar failure is recorded but the message is still persisted.
func (u *agentUsecase) processMessage(ctx context.Context, email string, msg *emaildomain.Message, createEvents bool, results *agentdto.Results) error {
	analysis := u.analyzer.Analyze(ctx, msg)

	record := &emaildomain.ProcessedEmail{
		UserEmail:       email,
		MessageID:       msg.ID,
		Subject:         msg.Subject,
		Sender:          msg.From,
		Content:         msg.Content(),
		AISummary:       analysis.Summary,
		ImportanceScore: analysis.ImportanceScore,
	}
	if analysis.HasDeadline() {
		encoded, err := json.Marshal(analysis.DeadlineInfo())
		if err != nil {
			return fmt.Errorf("failed to encode deadline: %w", err)
		}
		deadline := string(encoded)
		record.DeadlineExtracted = &deadline
	}

	var created *gcal.Event
	if createEvents && analysis.HasDeadline() {
		event, err := u.calendar.CreateFromAnalysis(ctx, email, msg, analysis)
		if err != nil {
			log.Printf("[Agent] Calendar event creation for %q failed: %v", msg.Subject, err)
			results.Errors = append(results.Errors, emaildto.ProcessingError{
				Type:         emaildto.ErrorTypeCalendar,
				MessageID:    msg.ID,
				EmailSubject: msg.Subject,
				Error:        err.Error(),
			})
			results.Summary.Errors++
		} else if event != nil {
			created = event
			record.CalendarEventID = &event.Id
		}
	}

	changes, err := u.processedRepo.Save(record)
	if err != nil {
		return fmt.Errorf("failed to save processed email: %w", err)
	}
	if changes == 0 {
		results.Summary.SkippedEmails++
		return nil
	}

	item := agentdto.ProcessedItem{
		ID:              msg.ID,
		Subject:         msg.Subject,
		From:            msg.From,
		ImportanceScore: analysis.ImportanceScore,
		HasDeadline:     analysis.HasDeadline(),
		Category:        analysis.Category,
		Summary:         analysis.Summary,
	}
	if created != nil {
		item.CreatedEvent = &agentdto.EventRef{ID: created.Id, Title: created.Summary}
		results.CreatedEvents = append(results.CreatedEvents, agentdto.CreatedEvent{
			EventID:      created.Id,
			EventTitle:   created.Summary,
			EventDate:    eventStart(created),
			EmailSubject: msg.Subject,
		})
		results.Summary.CreatedEvents++
	}
	results.ProcessedEmails = append(results.ProcessedEmails, item)
	results.Summary.ProcessedEmails++
	return nil
}

// Status summarizes recent activity. A calendar failure is reported in the
// stats rather than failing the read.
func (u *agentUsecase) Status(ctx context.Context, email string) (*agentdto.StatusResponse, error) {
	records, err := u.processedRepo.ListByUser(email, statusProcessedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get processed emails: %w", err)
	}

	stats := agentdto.Stats{
		TotalProcessedEmails: len(records),
		RecentEmails:         make([]agentdto.RecentEmail, 0, statusRecentLimit),
		RecentEvents:         make([]agentdto.RecentEvent, 0, statusRecentLimit),
	}
	for i, r := range records {
		if i == 0 {
			processedAt := r.ProcessedAt
			stats.LastProcessed = &processedAt
		}
		if i >= statusRecentLimit {
			break
		}
		stats.RecentEmails = append(stats.RecentEmails, agentdto.RecentEmail{
			Subject:          r.Subject,
			Sender:           r.Sender,
			ImportanceScore:  r.ImportanceScore,
			ProcessedAt:      r.ProcessedAt,
			HasCalendarEvent: r.HasCalendarEvent(),
		})
	}

	events, err := u.calendar.ListAgentCreated(ctx, email, statusEventsLimit)
	if err != nil {
		log.Printf("[Agent] status calendar lookup failed for %s: %v", email, err)
		stats.CalendarError = err.Error()
	}
	for i, e := range events {
		if i >= statusRecentLimit {
			break
		}
		stats.RecentEvents = append(stats.RecentEvents, agentdto.RecentEvent{
			ID:          e.Id,
			Title:       e.Summary,
			Start:       eventStart(e),
			Description: e.Description,
		})
	}

	return &agentdto.StatusResponse{Success: true, Email: email, Stats: stats}, nil
}

func (u *agentUsecase) TestServices(ctx context.Context, email string) *agentdto.ServiceTestResponse {
	results := agentdto.ServiceResults{
		Gmail:    u.mail.TestConnection(ctx, email),
		AI:       u.analyzer.TestConnection(ctx),
		Calendar: u.calendar.TestConnection(ctx, email),
	}

	resp := &agentdto.ServiceTestResponse{
		Success: results.Gmail.Success && results.AI.Success && results.Calendar.Success,
		Results: results,
	}
	if resp.Success {
		resp.Message = "All services working correctly"
	} else {
		resp.Message = "Some services have issues"
	}
	return resp
}

func (u *agentUsecase) Logs(email string, limit int) ([]agentdto.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	logs, err := u.logRepo.ListByUser(email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent logs: %w", err)
	}

	entries := make([]agentdto.LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, agentdto.LogEntry{
			ID:        l.ID,
			Action:    l.Action,
			Status:    l.Status,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		})
	}
	return entries, nil
}

func (u *agentUsecase) logAction(email, action, status, details string) {
	if err := u.logRepo.Log(email, action, status, details); err != nil {
		log.Printf("[Agent] failed to write agent log: %v", err)
	}
}

func eventStart(e *gcal.Event) string {
	if e.Start == nil {
		return ""
	}
	if e.Start.DateTime != "" {
		return e.Start.DateTime
	}
	return e.Start.Date
}
