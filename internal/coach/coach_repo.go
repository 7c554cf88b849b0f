// coach/repository.go
package coach

import (
	"errors"

	"gorm.io/gorm"
)

var ErrCoachNotFound = errors.New("coach not found")

// CoachRepository defines database operations for coach profiles.
type CoachRepository interface {
	CreateCoach(c *Coach) error
	GetCoachByID(id uint) (*Coach, error)
	GetCoachByUserID(userID uint) (*Coach, error)
	UpdateCoach(c *Coach) error
}

type coachRepository struct {
	db *gorm.DB
}

func NewCoachRepository(db *gorm.DB) CoachRepository {
	return &coachRepository{db: db}
}

func (r *coachRepository) CreateCoach(c *Coach) error {
	return r.db.Create(c).Error
}

func (r *coachRepository) GetCoachByID(id uint) (*Coach, error) {
	var c Coach
	if err := r.db.Preload("User").Preload("School").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *coachRepository) GetCoachByUserID(userID uint) (*Coach, error) {
	var c Coach
	if err := r.db.Preload("User").Preload("School").Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *coachRepository) UpdateCoach(c *Coach) error {
	return r.db.Save(c).Error
}
