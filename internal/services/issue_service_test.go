package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/tracker"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// racingLinkRepo simulates another request storing the link between our
// lookup and our insert
type racingLinkRepo struct {
	winner *models.ExternalIssueLink
	finds  int
}

func (r *racingLinkRepo) Find(kind models.IssueContextKind, ref uint64) (*models.ExternalIssueLink, error) {
	r.finds++
	if r.finds == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.winner, nil
}

func (r *racingLinkRepo) Create(link *models.ExternalIssueLink) error {
	return gorm.ErrDuplicatedKey
}

type countingTracker struct {
	created int
}

func (t *countingTracker) CreateIssue(_ context.Context, _ tracker.IssueRequest) (uint64, error) {
	t.created++
	return uint64(100 + t.created), nil
}

func setupIssueTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func TestIssueService_ContextFor(t *testing.T) {
	db := setupIssueTestDB(t)
	meetingRepo := repository.NewMeetingRepository(db)
	service := NewIssueService(repository.NewIssueLinkRepository(db), meetingRepo, tracker.NewIssueTracker(db))

	sprintID := uint64(4)
	issueCtx, err := service.ContextFor(&models.Meeting{ID: 1, Type: models.MeetingTypeSprint, SprintID: &sprintID})
	require.NoError(t, err)
	assert.Equal(t, IssueContext{Kind: models.IssueContextSprint, Ref: 4}, issueCtx)

	issueCtx, err = service.ContextFor(&models.Meeting{ID: 2, Type: models.MeetingTypeReview, SprintID: &sprintID})
	require.NoError(t, err)
	assert.Equal(t, IssueContext{Kind: models.IssueContextMeeting, Ref: 2}, issueCtx)

	require.NoError(t, db.Create(&models.BrainstormItem{MeetingID: 3, UserStoryID: 9, BacklogItemID: 12, EpicID: 1}).Error)
	issueCtx, err = service.ContextFor(&models.Meeting{ID: 3, Type: models.MeetingTypeBrainstorming})
	require.NoError(t, err)
	assert.Equal(t, IssueContext{Kind: models.IssueContextBacklog, Ref: 12}, issueCtx)

	// No stories attached falls back to the meeting itself
	issueCtx, err = service.ContextFor(&models.Meeting{ID: 5, Type: models.MeetingTypeBrainstorming})
	require.NoError(t, err)
	assert.Equal(t, IssueContext{Kind: models.IssueContextMeeting, Ref: 5}, issueCtx)
}

func TestIssueService_EnsureIssueIsIdempotent(t *testing.T) {
	db := setupIssueTestDB(t)
	meetingRepo := repository.NewMeetingRepository(db)
	issues := &countingTracker{}
	service := NewIssueService(repository.NewIssueLinkRepository(db), meetingRepo, issues)

	meeting := models.Meeting{Type: models.MeetingTypeGeneral, StartDate: "2024-07-01", EndDate: "2024-07-01",
		StartTime: "10:00:00", EndTime: "11:00:00", Duration: "01:00:00", ProductID: 1, CreatorID: 1}
	require.NoError(t, db.Create(&meeting).Error)

	first, err := service.EnsureIssue(context.Background(), &meeting, 1)
	require.NoError(t, err)
	second, err := service.EnsureIssue(context.Background(), &meeting, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, issues.created)
	require.NotNil(t, meeting.ExternalIssueID)
	assert.Equal(t, first, *meeting.ExternalIssueID)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, meeting.ID).Error)
	require.NotNil(t, stored.ExternalIssueID)
	assert.Equal(t, first, *stored.ExternalIssueID)
}

func TestIssueService_EnsureIssueUsesConcurrentWinner(t *testing.T) {
	db := setupIssueTestDB(t)
	meetingRepo := repository.NewMeetingRepository(db)
	links := &racingLinkRepo{winner: &models.ExternalIssueLink{IssueID: 77}}
	service := NewIssueService(links, meetingRepo, &countingTracker{})

	meeting := models.Meeting{Type: models.MeetingTypeGeneral, Title: "Retro", StartDate: "2024-07-01", EndDate: "2024-07-01",
		StartTime: "10:00:00", EndTime: "11:00:00", Duration: "01:00:00", ProductID: 1, CreatorID: 1}
	require.NoError(t, db.Create(&meeting).Error)

	issueID, err := service.EnsureIssue(context.Background(), &meeting, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), issueID)
	assert.Equal(t, 2, links.finds)
}
