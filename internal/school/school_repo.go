// school/repository.go
package school

import (
	"errors"

	"gorm.io/gorm"
)

var ErrSchoolNotFound = errors.New("school not found")

// SchoolRepository defines database operations for schools.
type SchoolRepository interface {
	CreateSchool(s *School) error
	GetSchoolByID(id uint) (*School, error)
	GetAllSchools(page, limit int, filters map[string]interface{}) ([]School, int64, error)
	UpdateSchool(s *School) error
}

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) CreateSchool(s *School) error {
	return r.db.Create(s).Error
}

func (r *schoolRepository) GetSchoolByID(id uint) (*School, error) {
	var s School
	if err := r.db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetAllSchools retrieves schools with pagination and optional filters.
func (r *schoolRepository) GetAllSchools(page, limit int, filters map[string]interface{}) ([]School, int64, error) {
	var schools []School
	var totalCount int64

	offset := (page - 1) * limit
	query := r.db.Model(&School{})

	for key, value := range filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "state":
			query = query.Where("state = ?", value)
		case "search":
			pattern := "%" + value.(string) + "%"
			query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(location) LIKE LOWER(?)", pattern, pattern)
		}
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&schools).Error; err != nil {
		return nil, 0, err
	}
	return schools, totalCount, nil
}

func (r *schoolRepository) UpdateSchool(s *School) error {
	return r.db.Save(s).Error
}
