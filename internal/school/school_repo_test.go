package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSchoolTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&School{}))
	return db
}

func TestGetAllSchools_FiltersAndPagination(t *testing.T) {
	db := newSchoolTestDB(t)
	repo := NewSchoolRepository(db)

	require.NoError(t, repo.CreateSchool(&School{Name: "Northview High", Type: SchoolTypeHighSchool, State: "CA", Location: "San Jose"}))
	require.NoError(t, repo.CreateSchool(&School{Name: "Bayside College", Type: SchoolTypeCollege, State: "CA", Location: "Oakland"}))
	require.NoError(t, repo.CreateSchool(&School{Name: "State University", Type: SchoolTypeUniversity, State: "TX", Location: "Austin"}))

	all, total, err := repo.GetAllSchools(1, 10, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	california, total, err := repo.GetAllSchools(1, 10, map[string]interface{}{"state": "CA"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, california, 2)

	highSchools, _, err := repo.GetAllSchools(1, 10, map[string]interface{}{"type": SchoolTypeHighSchool})
	require.NoError(t, err)
	require.Len(t, highSchools, 1)
	assert.Equal(t, "Northview High", highSchools[0].Name)

	byLocation, _, err := repo.GetAllSchools(1, 10, map[string]interface{}{"search": "austin"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "State University", byLocation[0].Name)

	page2, total, err := repo.GetAllSchools(2, 2, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page2, 1)
}

func TestGetSchoolByID_NotFound(t *testing.T) {
	db := newSchoolTestDB(t)
	repo := NewSchoolRepository(db)

	_, err := repo.GetSchoolByID(42)
	require.ErrorIs(t, err, ErrSchoolNotFound)
}
