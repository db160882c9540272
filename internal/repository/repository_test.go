package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Meeting{},
		&models.MeetingMember{},
		&models.Group{},
		&models.GroupMember{},
	))

	return db
}

func createEmployee(t *testing.T, db *gorm.DB, username, firstName string) models.Employee {
	t.Helper()
	e := models.Employee{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    firstName,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(&e).Error)
	return e
}

func TestEmployeeRepository_ResolveTokens(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmployeeRepository(db)

	asha := createEmployee(t, db, "asha", "Asha")
	bala := createEmployee(t, db, "bala", "Bala")
	chitra := createEmployee(t, db, "chitra", "Chitra")

	resolved, unresolved, err := repo.ResolveTokens([]string{
		" Asha ", "BALA@example.com", "", "3", "asha", "nobody",
	})
	require.NoError(t, err)

	ids := make([]uint64, len(resolved))
	for i, e := range resolved {
		ids[i] = e.ID
	}
	assert.Equal(t, []uint64{asha.ID, bala.ID, chitra.ID}, ids)
	assert.Equal(t, []string{"nobody"}, unresolved)
}

func TestMeetingRepository_RosterReactivatesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewMeetingRepository(db)

	a := createEmployee(t, db, "a", "A")
	b := createEmployee(t, db, "b", "B")

	meeting := &models.Meeting{
		Type: models.MeetingTypeGeneral, Title: "Sync", StartDate: "2024-07-01", EndDate: "2024-07-01",
		StartTime: "10:00:00", EndTime: "11:00:00", Duration: "01:00:00", ProductID: 1, CreatorID: a.ID,
	}
	require.NoError(t, repo.CreateOccurrences([]*models.Meeting{meeting}, []uint64{a.ID, b.ID}, nil))

	// Remove b, then add b back
	require.NoError(t, repo.UpdateWithRoster(MeetingUpdate{Meeting: meeting, Plan: scheduling.Reconcile([]uint64{a.ID}, []uint64{a.ID, b.ID})}))
	ids, err := repo.ActiveMemberIDs(meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{a.ID}, ids)

	require.NoError(t, repo.UpdateWithRoster(MeetingUpdate{Meeting: meeting, Plan: scheduling.Reconcile([]uint64{a.ID, b.ID}, ids)}))
	ids, err = repo.ActiveMemberIDs(meeting.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{a.ID, b.ID}, ids)

	var rows int64
	db.Unscoped().Model(&models.MeetingMember{}).Where("meeting_id = ?", meeting.ID).Count(&rows)
	assert.Equal(t, int64(2), rows)
}

func TestMeetingRepository_FindBookings(t *testing.T) {
	db := newTestDB(t)
	repo := NewMeetingRepository(db)

	a := createEmployee(t, db, "a", "Asha")
	b := createEmployee(t, db, "b", "Bala")

	booked := &models.Meeting{
		Type: models.MeetingTypeGeneral, Title: "Planning", StartDate: "2024-07-01", EndDate: "2024-07-01",
		StartTime: "10:30:00", EndTime: "11:30:00", Duration: "01:00:00", ProductID: 1, CreatorID: a.ID,
	}
	cancelled := "moved"
	dropped := &models.Meeting{
		Type: models.MeetingTypeGeneral, Title: "Dropped", StartDate: "2024-07-01", EndDate: "2024-07-01",
		StartTime: "10:00:00", EndTime: "11:00:00", Duration: "01:00:00", ProductID: 1, CreatorID: b.ID,
		CancelReason: &cancelled,
	}
	require.NoError(t, repo.CreateOccurrences([]*models.Meeting{booked}, []uint64{a.ID}, nil))
	require.NoError(t, repo.CreateOccurrences([]*models.Meeting{dropped}, []uint64{b.ID}, nil))

	window := scheduling.Window{Date: "2024-07-01", StartTime: "10:00:00", EndTime: "11:00:00"}

	bookings, err := repo.FindBookings(window, []uint64{a.ID, b.ID}, nil)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, a.ID, bookings[0].EmployeeID)
	assert.Equal(t, "Asha", bookings[0].AttendeeName)

	// Touching ranges do not overlap
	bookings, err = repo.FindBookings(scheduling.Window{Date: "2024-07-01", StartTime: "11:30:00", EndTime: "12:00:00"}, []uint64{a.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	bookings, err = repo.FindBookings(window, []uint64{a.ID}, []uint64{booked.ID})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestGroupRepository_DeleteSoftDeletesMembers(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	owner := createEmployee(t, db, "owner", "Owner")
	member := createEmployee(t, db, "member", "Member")

	group := &models.Group{OwnerID: owner.ID, Name: "Core"}
	require.NoError(t, repo.Create(group, []uint64{owner.ID, member.ID}))

	ids, err := repo.ActiveMemberIDs(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{owner.ID, member.ID}, ids)

	require.NoError(t, repo.Delete(group.ID))

	_, err = repo.FindByID(group.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ids, err = repo.ActiveMemberIDs(group.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	var rows int64
	db.Unscoped().Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&rows)
	assert.Equal(t, int64(2), rows)
}
