package usecase

import (
	"fmt"
	"math"

	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	authrepo "mail-calendar-agent/internal/auth/repository"
	dashboarddto "mail-calendar-agent/internal/dashboard/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emailrepo "mail-calendar-agent/internal/email/repository"

	"github.com/goccy/go-json"
)

const (
	DefaultInspectLimit = 100

	recentUsersLimit    = 10
	dashboardLogsLimit  = 20
	recentActivityLimit = 10
	contentPreviewLen   = 200
)

// dashboardUsecase implements DashboardUsecase interface
type dashboardUsecase struct {
	userRepo      authrepo.UserRepository
	processedRepo emailrepo.ProcessedEmailRepository
	logRepo       emailrepo.AgentLogRepository
	tables        TableLister
}

// NewDashboardUsecase creates a new instance of dashboardUsecase
func NewDashboardUsecase(userRepo authrepo.UserRepository, processedRepo emailrepo.ProcessedEmailRepository, logRepo emailrepo.AgentLogRepository, tables TableLister) DashboardUsecase {
	return &dashboardUsecase{
		userRepo:      userRepo,
		processedRepo: processedRepo,
		logRepo:       logRepo,
		tables:        tables,
	}
}

func (u *dashboardUsecase) Stats() (*dashboarddto.OverallStats, error) {
	totalUsers, err := u.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalEmails, err := u.processedRepo.CountAll()
	if err != nil {
		return nil, err
	}
	successful, err := u.logRepo.CountByStatus(emaildomain.LogStatusSuccess)
	if err != nil {
		return nil, err
	}
	users, err := u.userRepo.List(recentUsersLimit)
	if err != nil {
		return nil, err
	}

	refs := make([]dashboarddto.UserRef, 0, len(users))
	for _, user := range users {
		refs = append(refs, dashboarddto.UserRef{Email: user.Email, CreatedAt: user.CreatedAt})
	}

	return &dashboarddto.OverallStats{
		TotalUsers:        totalUsers,
		TotalEmails:       totalEmails,
		SuccessfulActions: successful,
		RegisteredUsers:   int(totalUsers),
		Users:             refs,
	}, nil
}

// UserDashboard computes action stats over the user's 20 most recent logs.
func (u *dashboardUsecase) UserDashboard(email string) (*dashboarddto.UserDashboard, error) {
	logs, err := u.logRepo.ListByUser(email, dashboardLogsLimit)
	if err != nil {
		return nil, err
	}

	stats := dashboarddto.ActionStats{TotalActions: len(logs)}
	for _, l := range logs {
		switch l.Status {
		case emaildomain.LogStatusSuccess:
			stats.SuccessfulActions++
		case emaildomain.LogStatusError:
			stats.ErrorActions++
		}
	}
	if stats.TotalActions > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.SuccessfulActions) / float64(stats.TotalActions) * 100))
	}

	recent := logs
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}

	return &dashboarddto.UserDashboard{
		Email:          email,
		RecentLogs:     logs,
		RecentActivity: recent,
		Stats:          stats,
	}, nil
}

func (u *dashboardUsecase) Tables() ([]string, error) {
	return u.tables.GetTables()
}

func (u *dashboardUsecase) Users() ([]dashboarddto.UserDetail, error) {
	users, err := u.userRepo.List(0)
	if err != nil {
		return nil, err
	}

	details := make([]dashboarddto.UserDetail, 0, len(users))
	for _, user := range users {
		processed, err := u.processedRepo.CountByUser(user.Email)
		if err != nil {
			return nil, fmt.Errorf("count processed emails for %s: %w", user.Email, err)
		}
		logs, err := u.logRepo.CountByUser(user.Email)
		if err != nil {
			return nil, fmt.Errorf("count agent logs for %s: %w", user.Email, err)
		}
		details = append(details, dashboarddto.UserDetail{
			Email:                user.Email,
			CreatedAt:            user.CreatedAt,
			ProcessedEmailsCount: processed,
			AgentLogsCount:       logs,
			HasTokens:            user.AccessToken != "" && user.RefreshToken != "",
		})
	}
	return details, nil
}

func (u *dashboardUsecase) Emails(email string, limit int) ([]dashboarddto.EmailRow, error) {
	if limit <= 0 {
		limit = DefaultInspectLimit
	}
	records, err := u.processedRepo.ListByUser(email, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]dashboarddto.EmailRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dashboarddto.EmailRow{
			ID:               r.ID,
			MessageID:        r.MessageID,
			Subject:          r.Subject,
			Sender:           r.Sender,
			ImportanceScore:  r.ImportanceScore,
			HasDeadline:      r.DeadlineExtracted != nil && *r.DeadlineExtracted != "",
			HasCalendarEvent: r.HasCalendarEvent(),
			ProcessedAt:      r.ProcessedAt,
			AISummary:        r.AISummary,
			Content:          contentPreview(r.Content),
		})
	}
	return rows, nil
}

func (u *dashboardUsecase) Logs(email string, limit int) ([]*emaildomain.AgentLog, error) {
	if limit <= 0 {
		limit = DefaultInspectLimit
	}
	return u.logRepo.ListByUser(email, limit)
}

func (u *dashboardUsecase) DatabaseStats() (*dashboarddto.DatabaseStats, error) {
	users, err := u.userRepo.Count()
	if err != nil {
		return nil, err
	}
	emails, err := u.processedRepo.CountAll()
	if err != nil {
		return nil, err
	}
	logs, err := u.logRepo.CountAll()
	if err != nil {
		return nil, err
	}
	successful, err := u.logRepo.CountByStatus(emaildomain.LogStatusSuccess)
	if err != nil {
		return nil, err
	}
	withEvents, err := u.processedRepo.CountWithEvents()
	if err != nil {
		return nil, err
	}
	avg, err := u.processedRepo.AverageImportance()
	if err != nil {
		return nil, err
	}

	return &dashboarddto.DatabaseStats{
		TotalUsers:        users,
		TotalEmails:       emails,
		SuccessfulActions: successful,
		Users:             users,
		ProcessedEmails:   emails,
		AgentLogs:         logs,
		EmailsWithEvents:  withEvents,
		AvgImportance:     math.Round(avg*10) / 10,
	}, nil
}

// EmailByMessageID returns (nil, nil) when no record exists. Stored deadline
// JSON that does not decode leaves DeadlineInfo nil.
func (u *dashboardUsecase) EmailByMessageID(messageID string) (*dashboarddto.EmailDetail, error) {
	record, err := u.processedRepo.FindByMessageID(messageID)
	if err != nil || record == nil {
		return nil, err
	}

	detail := &dashboarddto.EmailDetail{ProcessedEmail: record}
	if record.DeadlineExtracted != nil && *record.DeadlineExtracted != "" {
		var info analysisdomain.DeadlineInfo
		if err := json.Unmarshal([]byte(*record.DeadlineExtracted), &info); err == nil {
			detail.DeadlineInfo = &info
		}
	}
	return detail, nil
}

func contentPreview(content string) *string {
	if content == "" {
		return nil
	}
	runes := []rune(content)
	if len(runes) > contentPreviewLen {
		runes = runes[:contentPreviewLen]
	}
	preview := string(runes) + "..."
	return &preview
}
