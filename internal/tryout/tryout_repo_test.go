package tryout

import (
	"fmt"
	"path/filepath"
	"sync"
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
	"github.com/nextup-gg/nextup/internal/user"
)

func migrateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.AutoMigrate(
		&user.User{},
		&school.School{}, &game.Game{},
		&coach.Coach{}, &player.Player{},
		&Tryout{}, &TryoutRegistration{},
	)
	require.NoError(t, err)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

// newFileTestDB backs the DB with a temp file so multiple goroutines share
// one database. Immediate transactions plus a busy timeout serialize the
// concurrent writers instead of failing them on lock contention.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "tryout_test.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

type fixtures struct {
	school school.School
	game   game.Game
	coach  coach.Coach
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{
		school: school.School{Name: "Northview High", Type: school.SchoolTypeHighSchool, State: "CA"},
		game:   game.Game{Name: "VALORANT", ShortName: "VAL"},
	}
	require.NoError(t, db.Create(&f.school).Error)
	require.NoError(t, db.Create(&f.game).Error)

	coachUser := user.User{Email: "coach@northview.edu", Username: "coach_nv", Password: "x", FirstName: "Dana", LastName: "Reyes"}
	require.NoError(t, db.Create(&coachUser).Error)
	f.coach = coach.Coach{UserID: coachUser.ID, SchoolID: f.school.ID, Title: "Head Coach"}
	require.NoError(t, db.Create(&f.coach).Error)

	return f
}

func seedPlayer(t *testing.T, db *gorm.DB, tag string) player.Player {
	t.Helper()
	u := user.User{Email: tag + "@example.com", Username: tag, Password: "x", FirstName: "Player", LastName: tag}
	require.NoError(t, db.Create(&u).Error)
	p := player.Player{UserID: u.ID, Gamertag: tag}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedTryout(t *testing.T, db *gorm.DB, f fixtures, maxSpots int, mutate ...func(*Tryout)) Tryout {
	t.Helper()
	tr := Tryout{
		Title:    "Varsity VALORANT Tryout",
		GameID:   f.game.ID,
		SchoolID: f.school.ID,
		CoachID:  f.coach.ID,
		Date:     time.Now().Add(14 * 24 * time.Hour),
		MaxSpots: maxSpots,
		Status:   StatusPublished,
		Type:     EventTypeInPerson,
	}
	for _, m := range mutate {
		m(&tr)
	}
	require.NoError(t, db.Create(&tr).Error)
	return tr
}

func spotsOf(t *testing.T, db *gorm.DB, tryoutID uint) int {
	t.Helper()
	var tr Tryout
	require.NoError(t, db.First(&tr, tryoutID).Error)
	return tr.RegisteredSpots
}

func TestRegister_TakesOneSpot(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 3)
	p := seedPlayer(t, db, "ace")

	reg, err := repo.Register(tr.ID, p.ID, "IGL, available weekends")
	require.NoError(t, err)
	assert.Equal(t, RegistrationPending, reg.Status)
	assert.Equal(t, "IGL, available weekends", reg.Notes)
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestRegister_FullTryoutRejectedWithoutWrites(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 1)
	winner := seedPlayer(t, db, "winner")
	loser := seedPlayer(t, db, "loser")

	_, err := repo.Register(tr.ID, winner.ID, "")
	require.NoError(t, err)

	_, err = repo.Register(tr.ID, loser.ID, "")
	require.ErrorIs(t, err, ErrTryoutFull)

	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
	var count int64
	require.NoError(t, db.Model(&TryoutRegistration{}).Where("tryout_id = ?", tr.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 10)
	p := seedPlayer(t, db, "dup")

	_, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	_, err = repo.Register(tr.ID, p.ID, "second attempt")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestRegister_DeadlinePassed(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	past := time.Now().Add(-time.Hour)
	tr := seedTryout(t, db, f, 5, func(tr *Tryout) {
		tr.RegistrationDeadline = &past
	})
	p := seedPlayer(t, db, "late")

	_, err := repo.Register(tr.ID, p.ID, "")
	require.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Equal(t, 0, spotsOf(t, db, tr.ID))
}

func TestRegister_PastEventRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 5, func(tr *Tryout) {
		tr.Date = time.Now().Add(-24 * time.Hour)
	})
	p := seedPlayer(t, db, "latecomer")

	_, err := repo.Register(tr.ID, p.ID, "")
	require.ErrorIs(t, err, ErrTryoutPassed)
}

func TestRegister_UnpublishedRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	p := seedPlayer(t, db, "early")

	for _, status := range []EventStatus{StatusDraft, StatusCancelled, StatusCompleted} {
		tr := seedTryout(t, db, f, 5, func(tr *Tryout) {
			tr.Title = fmt.Sprintf("Tryout %s", status)
			tr.Status = status
		})
		_, err := repo.Register(tr.ID, p.ID, "")
		assert.ErrorIs(t, err, ErrRegistrationClosed, "status %s", status)
	}
}

func TestRegister_MissingTryout(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	p := seedPlayer(t, db, "lost")
	_, err := repo.Register(9999, p.ID, "")
	require.ErrorIs(t, err, ErrTryoutNotFound)
}

func TestCancelRegistration_ReleasesSpot(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 2)
	p := seedPlayer(t, db, "flaky")

	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)
	require.Equal(t, 1, spotsOf(t, db, tr.ID))

	cancelled, err := repo.CancelRegistration(reg.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, RegistrationCancelled, cancelled.Status)
	assert.Equal(t, 0, spotsOf(t, db, tr.ID))
}

func TestCancelRegistration_ForeignRegistrationForbidden(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 2)
	owner := seedPlayer(t, db, "owner")
	other := seedPlayer(t, db, "other")

	reg, err := repo.Register(tr.ID, owner.ID, "")
	require.NoError(t, err)

	_, err = repo.CancelRegistration(reg.ID, other.ID)
	require.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestCancelRegistration_DoubleCancelGuarded(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 2)
	p := seedPlayer(t, db, "twice")

	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	_, err = repo.CancelRegistration(reg.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, spotsOf(t, db, tr.ID))

	// Second cancel must not decrement below zero.
	_, err = repo.CancelRegistration(reg.ID, p.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 0, spotsOf(t, db, tr.ID))
}

func TestCancelRegistration_PastEventRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 2)
	p := seedPlayer(t, db, "stuck")

	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	require.NoError(t, db.Model(&Tryout{}).Where("id = ?", tr.ID).
		Update("date", time.Now().Add(-time.Hour)).Error)

	_, err = repo.CancelRegistration(reg.ID, p.ID)
	require.ErrorIs(t, err, ErrTryoutPassed)
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestUpdateRegistrationStatus_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 5)
	p := seedPlayer(t, db, "hopeful")
	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	otherUser := user.User{Email: "rival@school.edu", Username: "rival", Password: "x"}
	require.NoError(t, db.Create(&otherUser).Error)
	rival := coach.Coach{UserID: otherUser.ID, SchoolID: f.school.ID}
	require.NoError(t, db.Create(&rival).Error)

	_, err = repo.UpdateRegistrationStatus(reg.ID, rival.ID, RegistrationConfirmed)
	require.ErrorIs(t, err, ErrNotOwner)

	updated, err := repo.UpdateRegistrationStatus(reg.ID, f.coach.ID, RegistrationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, RegistrationConfirmed, updated.Status)
	// Coach transitions never touch the spot counter.
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestRemoveRegistration_ReleasesSpotAndFreesPair(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 1)
	p := seedPlayer(t, db, "removed")

	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveRegistration(reg.ID, f.coach.ID))
	assert.Equal(t, 0, spotsOf(t, db, tr.ID))

	// The hard delete frees the unique pair: the player can register again.
	_, err = repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestRemoveRegistration_CancelledRowDoesNotDecrement(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 3)
	p := seedPlayer(t, db, "ghost")
	bystander := seedPlayer(t, db, "bystander")

	reg, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)
	_, err = repo.Register(tr.ID, bystander.ID, "")
	require.NoError(t, err)

	_, err = repo.CancelRegistration(reg.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, spotsOf(t, db, tr.ID))

	// The player already released their spot; removing the dead row must
	// not release the bystander's.
	require.NoError(t, repo.RemoveRegistration(reg.ID, f.coach.ID))
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))
}

func TestGetTryoutRegistrations_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 5)
	p := seedPlayer(t, db, "listed")
	_, err := repo.Register(tr.ID, p.ID, "")
	require.NoError(t, err)

	regs, err := repo.GetTryoutRegistrations(tr.ID, f.coach.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, p.ID, regs[0].PlayerID)

	_, err = repo.GetTryoutRegistrations(tr.ID, f.coach.ID+100)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestGetAllTryouts_FiltersAndPagination(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	otherGame := game.Game{Name: "Rocket League", ShortName: "RL"}
	require.NoError(t, db.Create(&otherGame).Error)

	seedTryout(t, db, f, 5, func(tr *Tryout) { tr.Title = "Valorant Open" })
	seedTryout(t, db, f, 5, func(tr *Tryout) {
		tr.Title = "RL Open"
		tr.GameID = otherGame.ID
		tr.Price = 25
	})
	seedTryout(t, db, f, 5, func(tr *Tryout) {
		tr.Title = "Hidden Draft"
		tr.Status = StatusDraft
	})

	all, total, err := repo.GetAllTryouts(10, 0, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "drafts are not browsable")
	assert.Len(t, all, 2)

	valorantOnly, total, err := repo.GetAllTryouts(10, 0, map[string]interface{}{"game_id": f.game.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, valorantOnly, 1)
	assert.Equal(t, "Valorant Open", valorantOnly[0].Title)

	free, _, err := repo.GetAllTryouts(10, 0, map[string]interface{}{"free_only": true})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Valorant Open", free[0].Title)

	page2, total, err := repo.GetAllTryouts(1, 1, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, page2, 1)
}

func TestRegister_ConcurrentLastSpot(t *testing.T) {
	db := newFileTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 1)

	const contenders = 8
	players := make([]player.Player, contenders)
	for i := range players {
		players[i] = seedPlayer(t, db, fmt.Sprintf("rival%d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Register(tr.ID, players[i].ID, "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one contender wins the last spot")
	assert.Equal(t, 1, spotsOf(t, db, tr.ID))

	var count int64
	require.NoError(t, db.Model(&TryoutRegistration{}).Where("tryout_id = ?", tr.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Full player journey: browse, register, appear on the roster, get confirmed,
// then cancel and release the spot.
func TestPlayerJourney(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormTryoutRepository(db)

	tr := seedTryout(t, db, f, 2)
	p := seedPlayer(t, db, "journey")

	browsable, total, err := repo.GetAllTryouts(10, 0, map[string]interface{}{"upcoming_only": true})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, tr.ID, browsable[0].ID)

	reg, err := repo.Register(tr.ID, p.ID, "looking forward to it")
	require.NoError(t, err)

	mine, err := repo.GetPlayerRegistrations(p.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, tr.ID, mine[0].TryoutID)

	roster, err := repo.GetTryoutRegistrations(tr.ID, f.coach.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	_, err = repo.UpdateRegistrationStatus(reg.ID, f.coach.ID, RegistrationConfirmed)
	require.NoError(t, err)

	cancelled, err := repo.CancelRegistration(reg.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, RegistrationCancelled, cancelled.Status)
	assert.Equal(t, 0, spotsOf(t, db, tr.ID))
}
