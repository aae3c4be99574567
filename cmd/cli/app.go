package cli

import (
	"fmt"
	"log"

	api "mail-calendar-agent/cmd/api"
	agentDelivery "mail-calendar-agent/internal/agent/delivery"
	"mail-calendar-agent/internal/agent/scheduler"
	agentUsecase "mail-calendar-agent/internal/agent/usecase"
	analysisUsecase "mail-calendar-agent/internal/analysis/usecase"
	authDelivery "mail-calendar-agent/internal/auth/delivery"
	authdomain "mail-calendar-agent/internal/auth/domain"
	authRepo "mail-calendar-agent/internal/auth/repository"
	authUsecase "mail-calendar-agent/internal/auth/usecase"
	calendarDelivery "mail-calendar-agent/internal/calendar/delivery"
	calendarUsecase "mail-calendar-agent/internal/calendar/usecase"
	dashboardDelivery "mail-calendar-agent/internal/dashboard/delivery"
	dashboardUsecase "mail-calendar-agent/internal/dashboard/usecase"
	emailDelivery "mail-calendar-agent/internal/email/delivery"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emailRepo "mail-calendar-agent/internal/email/repository"
	emailUsecase "mail-calendar-agent/internal/email/usecase"
	"mail-calendar-agent/pkg/ai"
	calendarclient "mail-calendar-agent/pkg/calendar"
	"mail-calendar-agent/pkg/config"
	"mail-calendar-agent/pkg/database"
	"mail-calendar-agent/pkg/gmail"
	"mail-calendar-agent/pkg/googleauth"
	"mail-calendar-agent/pkg/throttle"

	"gorm.io/gorm"
)

// Models are the tables owned by the service.
var Models = []interface{}{
	&authdomain.User{},
	&emaildomain.ProcessedEmail{},
	&emaildomain.AgentLog{},
}

// App is the composition root shared by every command.
type App struct {
	Config *config.Config
	DB     *gorm.DB

	userRepo      authRepo.UserRepository
	processedRepo emailRepo.ProcessedEmailRepository
	logRepo       emailRepo.AgentLogRepository

	auth      authUsecase.AuthUsecase
	mail      emailUsecase.MailUsecase
	calendar  calendarUsecase.CalendarUsecase
	agent     agentUsecase.AgentUsecase
	dashboard dashboardUsecase.DashboardUsecase

	settings    *api.RuntimeSettings
	aiProvider  string
	aiGenerator ai.TextGenerator
}

// OpenDatabase connects and migrates.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, Models...); err != nil {
		return nil, err
	}
	return db, nil
}

// NewApp wires repositories, Google clients, the analyzer and every usecase.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	oauthConfig, err := googleauth.NewOAuthConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build OAuth config: %w", err)
	}

	a := &App{
		Config:        cfg,
		DB:            db,
		userRepo:      authRepo.NewUserRepository(db),
		processedRepo: emailRepo.NewProcessedEmailRepository(db),
		logRepo:       emailRepo.NewAgentLogRepository(db),
		settings:      api.NewRuntimeSettings(cfg.OllamaBaseURL, cfg.OllamaModel),
	}

	a.auth = authUsecase.NewAuthUsecase(a.userRepo, a.logRepo, oauthConfig, cfg)
	a.mail = emailUsecase.NewMailUsecase(a.auth, gmail.NewService(), a.processedRepo, a.logRepo, throttle.NewInterval(cfg.FetchDelay))
	a.calendar = calendarUsecase.NewCalendarUsecase(a.auth, calendarclient.NewService(), a.processedRepo, a.logRepo, cfg.Location())

	generator, err := ai.NewTextGenerator(ai.Config{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiApiKey,
		GeminiModel:      cfg.GeminiModel,
		OllamaBaseURL:    cfg.OllamaBaseURL,
		OllamaModel:      cfg.OllamaModel,
		GetOllamaBaseURL: a.settings.OllamaBaseURL,
		GetOllamaModel:   a.settings.OllamaModel,
		OpenAIAPIKey:     cfg.OpenAIApiKey,
		OpenAIModel:      cfg.OpenAIModel,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize AI service, using heuristic analysis only: %v", err)
		a.aiProvider = "none"
	} else {
		a.aiProvider = generator.Name()
		a.aiGenerator = generator
		log.Printf("AI service initialized with provider: %s", a.aiProvider)
	}

	a.agent = agentUsecase.NewAgentUsecase(
		a.mail,
		analysisUsecase.NewAnalyzer(generator),
		a.calendar,
		a.processedRepo,
		a.logRepo,
		throttle.NewInterval(cfg.RequestDelay),
		cfg.DefaultMaxEmails,
		cfg.DefaultTimeRange,
	)
	a.dashboard = dashboardUsecase.NewDashboardUsecase(a.userRepo, a.processedRepo, a.logRepo, db.Migrator())

	return a, nil
}

// Handler builds the HTTP layer.
func (a *App) Handler() *api.Handler {
	return api.NewHandler(a.Config, a.auth, api.Handlers{
		Auth:      authDelivery.NewAuthHandler(a.auth, a.Config.FrontendURL),
		Email:     emailDelivery.NewEmailHandler(a.mail, a.Config.DefaultMaxEmails, a.Config.DefaultTimeRange),
		Calendar:  calendarDelivery.NewCalendarHandler(a.calendar),
		Agent:     agentDelivery.NewAgentHandler(a.agent),
		Dashboard: dashboardDelivery.NewDashboardHandler(a.dashboard),
		Settings:  api.NewSettingsHandler(a.settings, a.aiProvider, a.aiGenerator),
	})
}

// Scheduler returns nil when periodic runs are disabled.
func (a *App) Scheduler() *scheduler.AgentScheduler {
	if !a.Config.SchedulerEnabled {
		return nil
	}
	return scheduler.NewAgentScheduler(a.agent, a.userRepo, a.Config.SchedulerInterval, a.Config.SchedulerWorkers)
}

func (a *App) Close() {
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
