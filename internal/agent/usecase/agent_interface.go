package usecase

import (
	"context"

	agentdto "mail-calendar-agent/internal/agent/dto"
	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	analysisusecase "mail-calendar-agent/internal/analysis/usecase"
	calendardto "mail-calendar-agent/internal/calendar/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emaildto "mail-calendar-agent/internal/email/dto"

	gcal "google.golang.org/api/calendar/v3"
)

// MailGateway is the part of the mail usecase a run depends on.
type MailGateway interface {
	ListRecent(ctx context.Context, email string, maxResults int, timeRange string) ([]emaildomain.MessageRef, error)
	GetDetailsBatch(ctx context.Context, email string, messageIDs []string) ([]*emaildomain.Message, []emaildto.ProcessingError)
	TestConnection(ctx context.Context, email string) *emaildto.ConnectionResult
}

type Analyzer interface {
	Analyze(ctx context.Context, msg *emaildomain.Message) *analysisdomain.Result
	TestConnection(ctx context.Context) analysisusecase.ConnectionResult
}

// CalendarGateway is the part of the calendar usecase a run depends on.
type CalendarGateway interface {
	CreateFromAnalysis(ctx context.Context, email string, msg *emaildomain.Message, result *analysisdomain.Result) (*gcal.Event, error)
	ListAgentCreated(ctx context.Context, email string, maxResults int) ([]*gcal.Event, error)
	TestConnection(ctx context.Context, email string) *calendardto.ConnectionResult
}

// AgentUsecase defines the processing orchestrator operations
type AgentUsecase interface {
	Process(ctx context.Context, req agentdto.ProcessRequest) (*agentdto.ProcessResult, error)
	Status(ctx context.Context, email string) (*agentdto.StatusResponse, error)
	TestServices(ctx context.Context, email string) *agentdto.ServiceTestResponse
	Logs(email string, limit int) ([]agentdto.LogEntry, error)
}
