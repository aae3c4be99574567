package usecase

import (
	"testing"

	authdomain "mail-calendar-agent/internal/auth/domain"
	authrepo "mail-calendar-agent/internal/auth/repository"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emailrepo "mail-calendar-agent/internal/email/repository"
	"mail-calendar-agent/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	uc        DashboardUsecase
	users     authrepo.UserRepository
	processed emailrepo.ProcessedEmailRepository
	logs      emailrepo.AgentLogRepository
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	db := dbtest.New(t, &authdomain.User{}, &emaildomain.ProcessedEmail{}, &emaildomain.AgentLog{})
	f := &dashboardFixture{
		users:     authrepo.NewUserRepository(db),
		processed: emailrepo.NewProcessedEmailRepository(db),
		logs:      emailrepo.NewAgentLogRepository(db),
	}
	f.uc = NewDashboardUsecase(f.users, f.processed, f.logs, db.Migrator())
	return f
}

func strPtr(s string) *string { return &s }

func TestStats(t *testing.T) {
	f := newDashboardFixture(t)
	_, err := f.users.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at"})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m1"})
	require.NoError(t, err)
	require.NoError(t, f.logs.Log("a@example.com", emaildomain.ActionFetchEmails, emaildomain.LogStatusSuccess, "Found 1 emails"))
	require.NoError(t, f.logs.Log("a@example.com", emaildomain.ActionFetchEmails, emaildomain.LogStatusError, "boom"))

	stats, err := f.uc.Stats()

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalEmails)
	assert.Equal(t, int64(1), stats.SuccessfulActions)
	assert.Equal(t, 1, stats.RegisteredUsers)
	require.Len(t, stats.Users, 1)
	assert.Equal(t, "a@example.com", stats.Users[0].Email)
}

func TestUserDashboardSuccessRate(t *testing.T) {
	f := newDashboardFixture(t)
	for _, status := range []string{emaildomain.LogStatusSuccess, emaildomain.LogStatusSuccess, emaildomain.LogStatusError} {
		require.NoError(t, f.logs.Log("a@example.com", emaildomain.ActionFetchEmails, status, ""))
	}

	dash, err := f.uc.UserDashboard("a@example.com")

	require.NoError(t, err)
	assert.Equal(t, 3, dash.Stats.TotalActions)
	assert.Equal(t, 2, dash.Stats.SuccessfulActions)
	assert.Equal(t, 1, dash.Stats.ErrorActions)
	assert.Equal(t, 67, dash.Stats.SuccessRate)
	assert.Len(t, dash.RecentActivity, 3)
}

func TestUserDashboardEmpty(t *testing.T) {
	dash, err := newDashboardFixture(t).uc.UserDashboard("nobody@example.com")

	require.NoError(t, err)
	assert.Equal(t, 0, dash.Stats.SuccessRate)
}

func TestTables(t *testing.T) {
	tables, err := newDashboardFixture(t).uc.Tables()

	require.NoError(t, err)
	assert.Subset(t, tables, []string{"users", "processed_emails", "agent_logs"})
}

func TestUsersHideTokens(t *testing.T) {
	f := newDashboardFixture(t)
	_, err := f.users.Upsert(&authdomain.User{Email: "full@example.com", AccessToken: "at", RefreshToken: "rt"})
	require.NoError(t, err)
	_, err = f.users.Upsert(&authdomain.User{Email: "partial@example.com", AccessToken: "at"})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "full@example.com", MessageID: "m1"})
	require.NoError(t, err)

	users, err := f.uc.Users()

	require.NoError(t, err)
	byEmail := map[string]bool{}
	for _, u := range users {
		byEmail[u.Email] = u.HasTokens
		if u.Email == "full@example.com" {
			assert.Equal(t, int64(1), u.ProcessedEmailsCount)
		}
	}
	assert.True(t, byEmail["full@example.com"])
	assert.False(t, byEmail["partial@example.com"])
}

func TestEmailsPreview(t *testing.T) {
	f := newDashboardFixture(t)
	long := make([]rune, 250)
	for i := range long {
		long[i] = 'é'
	}
	_, err := f.processed.Save(&emaildomain.ProcessedEmail{
		UserEmail:         "a@example.com",
		MessageID:         "m1",
		Content:           string(long),
		DeadlineExtracted: strPtr(`{"has_deadline":true}`),
	})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m2"})
	require.NoError(t, err)

	rows, err := f.uc.Emails("a@example.com", 0)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		switch r.MessageID {
		case "m1":
			require.NotNil(t, r.Content)
			assert.Len(t, []rune(*r.Content), 203)
			assert.True(t, r.HasDeadline)
		case "m2":
			assert.Nil(t, r.Content)
			assert.False(t, r.HasDeadline)
		}
	}
}

func TestDatabaseStats(t *testing.T) {
	f := newDashboardFixture(t)
	evt := "evt-1"
	_, err := f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m1", ImportanceScore: 8, CalendarEventID: &evt})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m2", ImportanceScore: 5})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m3", ImportanceScore: 5})
	require.NoError(t, err)

	stats, err := f.uc.DatabaseStats()

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ProcessedEmails)
	assert.Equal(t, int64(1), stats.EmailsWithEvents)
	assert.Equal(t, 6.0, stats.AvgImportance)
}

func TestEmailByMessageID(t *testing.T) {
	f := newDashboardFixture(t)
	_, err := f.processed.Save(&emaildomain.ProcessedEmail{
		UserEmail:         "a@example.com",
		MessageID:         "m1",
		DeadlineExtracted: strPtr(`{"has_deadline":true,"deadline_date":"2024-03-01","deadline_time":null,"deadline_description":"Report"}`),
	})
	require.NoError(t, err)
	_, err = f.processed.Save(&emaildomain.ProcessedEmail{UserEmail: "a@example.com", MessageID: "m2", DeadlineExtracted: strPtr("not json")})
	require.NoError(t, err)

	detail, err := f.uc.EmailByMessageID("m1")
	require.NoError(t, err)
	require.NotNil(t, detail.DeadlineInfo)
	assert.True(t, detail.DeadlineInfo.HasDeadline)
	require.NotNil(t, detail.DeadlineInfo.DeadlineDate)
	assert.Equal(t, "2024-03-01", *detail.DeadlineInfo.DeadlineDate)

	broken, err := f.uc.EmailByMessageID("m2")
	require.NoError(t, err)
	assert.Nil(t, broken.DeadlineInfo)

	missing, err := f.uc.EmailByMessageID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
