package combine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/tryout"
	"github.com/nextup-gg/nextup/internal/user"
)

type combineFixtures struct {
	school school.School
	game   game.Game
	coach  coach.Coach
	player player.Player
}

func newCombineTestDB(t *testing.T) (*gorm.DB, combineFixtures) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&school.School{}, &game.Game{},
		&coach.Coach{}, &player.Player{},
		&Combine{}, &CombineRegistration{},
	))

	f := combineFixtures{
		school: school.School{Name: "State University", Type: school.SchoolTypeUniversity, State: "TX"},
		game:   game.Game{Name: "Overwatch 2", ShortName: "OW2"},
	}
	require.NoError(t, db.Create(&f.school).Error)
	require.NoError(t, db.Create(&f.game).Error)

	coachUser := user.User{Email: "coach@stateu.edu", Username: "su_coach", Password: "x"}
	require.NoError(t, db.Create(&coachUser).Error)
	f.coach = coach.Coach{UserID: coachUser.ID, SchoolID: f.school.ID}
	require.NoError(t, db.Create(&f.coach).Error)

	playerUser := user.User{Email: "prospect@example.com", Username: "prospect", Password: "x"}
	require.NoError(t, db.Create(&playerUser).Error)
	f.player = player.Player{UserID: playerUser.ID, Gamertag: "prospect"}
	require.NoError(t, db.Create(&f.player).Error)

	return db, f
}

func seedCombine(t *testing.T, db *gorm.DB, f combineFixtures, maxSpots int) Combine {
	t.Helper()
	cb := Combine{
		Title:    "Regional Combine",
		GameID:   f.game.ID,
		SchoolID: f.school.ID,
		CoachID:  f.coach.ID,
		Date:     time.Now().Add(7 * 24 * time.Hour),
		MaxSpots: maxSpots,
		Status:   tryout.StatusPublished,
		Prize:    "Scholarship interview",
	}
	require.NoError(t, db.Create(&cb).Error)
	return cb
}

func combineSpots(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var cb Combine
	require.NoError(t, db.First(&cb, id).Error)
	return cb.RegisteredSpots
}

func TestCombineRegister_CapacityAndDuplicates(t *testing.T) {
	db, f := newCombineTestDB(t)
	repo := NewGormCombineRepository(db)

	cb := seedCombine(t, db, f, 1)

	reg, err := repo.Register(cb.ID, f.player.ID, "")
	require.NoError(t, err)
	assert.Equal(t, tryout.RegistrationPending, reg.Status)
	assert.False(t, reg.Qualified)
	assert.Equal(t, 1, combineSpots(t, db, cb.ID))

	_, err = repo.Register(cb.ID, f.player.ID, "")
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	otherUser := user.User{Email: "late@example.com", Username: "late", Password: "x"}
	require.NoError(t, db.Create(&otherUser).Error)
	other := player.Player{UserID: otherUser.ID, Gamertag: "late"}
	require.NoError(t, db.Create(&other).Error)

	_, err = repo.Register(cb.ID, other.ID, "")
	require.ErrorIs(t, err, ErrCombineFull)
	assert.Equal(t, 1, combineSpots(t, db, cb.ID))
}

func TestCombineCancel_DoubleCancelGuarded(t *testing.T) {
	db, f := newCombineTestDB(t)
	repo := NewGormCombineRepository(db)

	cb := seedCombine(t, db, f, 2)
	reg, err := repo.Register(cb.ID, f.player.ID, "")
	require.NoError(t, err)

	_, err = repo.CancelRegistration(reg.ID, f.player.ID)
	require.NoError(t, err)
	require.Equal(t, 0, combineSpots(t, db, cb.ID))

	_, err = repo.CancelRegistration(reg.ID, f.player.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 0, combineSpots(t, db, cb.ID))
}

func TestCombineUpdateRegistration_StatusAndQualified(t *testing.T) {
	db, f := newCombineTestDB(t)
	repo := NewGormCombineRepository(db)

	cb := seedCombine(t, db, f, 5)
	reg, err := repo.Register(cb.ID, f.player.ID, "")
	require.NoError(t, err)

	qualified := true
	confirmed := tryout.RegistrationConfirmed
	updated, err := repo.UpdateRegistration(reg.ID, f.coach.ID, &confirmed, &qualified)
	require.NoError(t, err)
	assert.Equal(t, tryout.RegistrationConfirmed, updated.Status)
	assert.True(t, updated.Qualified)
	assert.Equal(t, 1, combineSpots(t, db, cb.ID))

	// Partial update: only the qualification flag changes.
	notQualified := false
	updated, err = repo.UpdateRegistration(reg.ID, f.coach.ID, nil, &notQualified)
	require.NoError(t, err)
	assert.Equal(t, tryout.RegistrationConfirmed, updated.Status)
	assert.False(t, updated.Qualified)

	_, err = repo.UpdateRegistration(reg.ID, f.coach.ID+100, &confirmed, nil)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestCombineBrowse_PublishedOnly(t *testing.T) {
	db, f := newCombineTestDB(t)
	repo := NewGormCombineRepository(db)

	seedCombine(t, db, f, 5)
	draft := Combine{
		Title:    "Unannounced Combine",
		GameID:   f.game.ID,
		SchoolID: f.school.ID,
		CoachID:  f.coach.ID,
		Date:     time.Now().Add(7 * 24 * time.Hour),
		MaxSpots: 5,
		Status:   tryout.StatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)

	combines, total, err := repo.GetAllCombines(10, 0, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, combines, 1)
	assert.Equal(t, "Regional Combine", combines[0].Title)
}
