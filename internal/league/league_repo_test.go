package league

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/user"
)

func newLeagueTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &school.School{}, &game.Game{},
		&League{}, &LeagueSchool{}, &LeagueAdmin{}, &TryoutRequest{},
	))
	return db
}

func TestCreateLeague_NameUnique(t *testing.T) {
	db := newLeagueTestDB(t)
	repo := NewLeagueRepository(db)

	require.NoError(t, repo.CreateLeague(&League{Name: "Western Scholastic", State: "CA"}))
	err := repo.CreateLeague(&League{Name: "Western Scholastic", State: "NV"})
	require.ErrorIs(t, err, ErrLeagueNameTaken)
}

func TestLeagueSchools_Membership(t *testing.T) {
	db := newLeagueTestDB(t)
	repo := NewLeagueRepository(db)

	l := League{Name: "Metro League"}
	require.NoError(t, repo.CreateLeague(&l))

	sch := school.School{Name: "Central High", Type: school.SchoolTypeHighSchool}
	require.NoError(t, db.Create(&sch).Error)

	_, err := repo.AddSchool(l.ID, sch.ID)
	require.NoError(t, err)

	_, err = repo.AddSchool(l.ID, sch.ID)
	require.ErrorIs(t, err, ErrSchoolAlreadyMember)

	members, err := repo.GetLeagueSchools(l.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Central High", members[0].School.Name)

	require.NoError(t, repo.RemoveSchool(l.ID, sch.ID))
	require.ErrorIs(t, repo.RemoveSchool(l.ID, sch.ID), ErrMembershipNotFound)

	// Removal frees the pair for a rejoin.
	_, err = repo.AddSchool(l.ID, sch.ID)
	require.NoError(t, err)
}

func TestLeagueAdmin_RequiresExistingLeague(t *testing.T) {
	db := newLeagueTestDB(t)
	repo := NewLeagueRepository(db)

	u := user.User{Email: "admin@metro.org", Username: "metro_admin", Password: "x"}
	require.NoError(t, db.Create(&u).Error)

	err := repo.CreateLeagueAdmin(&LeagueAdmin{UserID: u.ID, LeagueID: 999})
	require.ErrorIs(t, err, ErrLeagueNotFound)

	l := League{Name: "Metro League"}
	require.NoError(t, repo.CreateLeague(&l))
	require.NoError(t, repo.CreateLeagueAdmin(&LeagueAdmin{UserID: u.ID, LeagueID: l.ID, Title: "Commissioner"}))

	admin, err := repo.GetLeagueAdminByUserID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Metro League", admin.League.Name)

	_, err = repo.GetLeagueAdminByUserID(u.ID + 1)
	require.ErrorIs(t, err, ErrLeagueAdminNotFound)
}

func TestTryoutRequests_ListedNewestFirst(t *testing.T) {
	db := newLeagueTestDB(t)
	repo := NewLeagueRepository(db)

	l := League{Name: "Metro League"}
	require.NoError(t, repo.CreateLeague(&l))
	u := user.User{Email: "admin@metro.org", Username: "metro_admin", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	admin := LeagueAdmin{UserID: u.ID, LeagueID: l.ID}
	require.NoError(t, repo.CreateLeagueAdmin(&admin))

	g := game.Game{Name: "VALORANT", ShortName: "VAL"}
	require.NoError(t, db.Create(&g).Error)

	date := time.Now().Add(30 * 24 * time.Hour)
	first := TryoutRequest{
		LeagueAdminID: admin.ID,
		GameID:        g.ID,
		Title:         "Spring Open",
		PreferredDate: &date,
		ExpectedSpots: 48,
		Status:        RequestPending,
	}
	require.NoError(t, repo.CreateTryoutRequest(&first))

	requests, err := repo.GetTryoutRequests(admin.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, RequestPending, requests[0].Status)
	assert.Equal(t, "VALORANT", requests[0].Game.Name)
}

func TestGetAllLeagues_FiltersAndPagination(t *testing.T) {
	db := newLeagueTestDB(t)
	repo := NewLeagueRepository(db)

	require.NoError(t, repo.CreateLeague(&League{Name: "Pacific North", State: "WA", Tier: "VARSITY"}))
	require.NoError(t, repo.CreateLeague(&League{Name: "Pacific South", State: "CA", Tier: "VARSITY"}))
	require.NoError(t, repo.CreateLeague(&League{Name: "Atlantic", State: "NY", Tier: "JV"}))

	all, total, err := repo.GetAllLeagues(nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	varsity, total, err := repo.GetAllLeagues(map[string]interface{}{"tier": "VARSITY"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, varsity, 2)

	pacific, _, err := repo.GetAllLeagues(map[string]interface{}{"search": "pacific"}, 1, 1)
	require.NoError(t, err)
	require.Len(t, pacific, 1)
	assert.Equal(t, "Pacific North", pacific[0].Name)
}
