// combine/repository.go
package combine

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/tryout"
)

var (
	ErrCombineNotFound      = errors.New("combine not found")
	ErrRegistrationNotFound = errors.New("combine registration not found")
	ErrRegistrationClosed   = errors.New("combine is not open for registration")
	ErrDeadlinePassed       = errors.New("combine registration deadline has passed")
	ErrCombinePassed        = errors.New("combine date has passed")
	ErrCombineFull          = errors.New("combine is full")
	ErrAlreadyRegistered    = errors.New("player is already registered for this combine")
	ErrAlreadyCancelled     = errors.New("combine registration is already cancelled")
	ErrNotOwner             = errors.New("caller does not own this combine resource")
)

// CombineRepository mirrors the tryout repository surface with the combine
// qualification extension. The same transactional discipline applies to every
// capacity-affecting operation.
type CombineRepository interface {
	CreateCombine(cb *Combine) error
	GetCombineByID(id uint) (*Combine, error)
	GetAllCombines(limit, offset int, filters map[string]interface{}) ([]Combine, int64, error)
	GetCombinesByCoachID(coachID uint) ([]Combine, error)
	UpdateCombine(cb *Combine) error

	Register(combineID, playerID uint, notes string) (*CombineRegistration, error)
	CancelRegistration(registrationID, playerID uint) (*CombineRegistration, error)
	UpdateRegistration(registrationID, coachID uint, status *tryout.RegistrationStatus, qualified *bool) (*CombineRegistration, error)
	RemoveRegistration(registrationID, coachID uint) error
	GetPlayerRegistrations(playerID uint) ([]CombineRegistration, error)
	GetCombineRegistrations(combineID, coachID uint) ([]CombineRegistration, error)
}

type GormCombineRepository struct {
	db *gorm.DB
}

func NewGormCombineRepository(db *gorm.DB) *GormCombineRepository {
	return &GormCombineRepository{db: db}
}

func (r *GormCombineRepository) CreateCombine(cb *Combine) error {
	return r.db.Create(cb).Error
}

func (r *GormCombineRepository) GetCombineByID(id uint) (*Combine, error) {
	var cb Combine
	err := r.db.Preload("Game").Preload("School").Preload("Coach.User").First(&cb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCombineNotFound
		}
		return nil, err
	}
	return &cb, nil
}

func (r *GormCombineRepository) GetAllCombines(limit, offset int, filters map[string]interface{}) ([]Combine, int64, error) {
	var combines []Combine
	var totalCount int64

	query := r.db.Model(&Combine{}).
		Joins("JOIN schools ON schools.id = combines.school_id AND schools.deleted_at IS NULL").
		Where("combines.status = ?", tryout.StatusPublished)

	for key, value := range filters {
		switch key {
		case "game_id":
			query = query.Where("combines.game_id = ?", value)
		case "school_id":
			query = query.Where("combines.school_id = ?", value)
		case "type":
			query = query.Where("combines.type = ?", value)
		case "state":
			query = query.Where("schools.state = ?", value)
		case "free_only":
			if value.(bool) {
				query = query.Where("combines.price = 0")
			}
		case "upcoming_only":
			if value.(bool) {
				query = query.Where("combines.date > ?", time.Now())
			}
		case "search":
			pattern := "%" + value.(string) + "%"
			query = query.Where(
				"LOWER(combines.title) LIKE LOWER(?) OR LOWER(combines.description) LIKE LOWER(?) OR LOWER(schools.name) LIKE LOWER(?)",
				pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Game").Preload("School").
		Order("combines.date asc").
		Offset(offset).Limit(limit).
		Find(&combines).Error
	if err != nil {
		return nil, 0, err
	}
	return combines, totalCount, nil
}

func (r *GormCombineRepository) GetCombinesByCoachID(coachID uint) ([]Combine, error) {
	var combines []Combine
	err := r.db.Preload("Game").Preload("School").
		Where("coach_id = ?", coachID).
		Order("date asc").
		Find(&combines).Error
	if err != nil {
		return nil, err
	}
	return combines, nil
}

func (r *GormCombineRepository) UpdateCombine(cb *Combine) error {
	return r.db.Save(cb).Error
}

// Register takes one combine spot atomically; see the tryout repository for
// the precondition ordering, which is identical here.
func (r *GormCombineRepository) Register(combineID, playerID uint, notes string) (*CombineRegistration, error) {
	var reg *CombineRegistration
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cb Combine
		if err := tx.First(&cb, combineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCombineNotFound
			}
			return err
		}

		if cb.Status != tryout.StatusPublished {
			return ErrRegistrationClosed
		}
		if cb.RegistrationDeadline != nil && time.Now().After(*cb.RegistrationDeadline) {
			return ErrDeadlinePassed
		}
		if !cb.Date.After(time.Now()) {
			return ErrCombinePassed
		}
		if cb.RegisteredSpots >= cb.MaxSpots {
			return ErrCombineFull
		}

		var existing CombineRegistration
		err := tx.Where("combine_id = ? AND player_id = ?", combineID, playerID).First(&existing).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reg = &CombineRegistration{
			CombineID: combineID,
			PlayerID:  playerID,
			Status:    tryout.RegistrationPending,
			Notes:     notes,
		}
		if err := tx.Create(reg).Error; err != nil {
			return err
		}

		res := tx.Model(&Combine{}).
			Where("id = ? AND registered_spots < max_spots", combineID).
			Update("registered_spots", gorm.Expr("registered_spots + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCombineFull
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// CancelRegistration releases the spot with the double-decrement guard.
func (r *GormCombineRepository) CancelRegistration(registrationID, playerID uint) (*CombineRegistration, error) {
	var reg CombineRegistration
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if reg.PlayerID != playerID {
			return ErrNotOwner
		}
		if reg.Status == tryout.RegistrationCancelled {
			return ErrAlreadyCancelled
		}

		var cb Combine
		if err := tx.First(&cb, reg.CombineID).Error; err != nil {
			return err
		}
		if !cb.Date.After(time.Now()) {
			return ErrCombinePassed
		}

		if err := tx.Model(&reg).Update("status", tryout.RegistrationCancelled).Error; err != nil {
			return err
		}
		reg.Status = tryout.RegistrationCancelled

		return tx.Model(&Combine{}).
			Where("id = ? AND registered_spots > 0", cb.ID).
			Update("registered_spots", gorm.Expr("registered_spots - 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// UpdateRegistration lets the owning coach change status and/or the
// qualification flag. Neither touches the spot counter.
func (r *GormCombineRepository) UpdateRegistration(registrationID, coachID uint, status *tryout.RegistrationStatus, qualified *bool) (*CombineRegistration, error) {
	var reg CombineRegistration
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		var cb Combine
		if err := tx.First(&cb, reg.CombineID).Error; err != nil {
			return err
		}
		if cb.CoachID != coachID {
			return ErrNotOwner
		}

		updates := map[string]interface{}{}
		if status != nil {
			updates["status"] = *status
		}
		if qualified != nil {
			updates["qualified"] = *qualified
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&reg).Updates(updates).Error; err != nil {
			return err
		}
		if status != nil {
			reg.Status = *status
		}
		if qualified != nil {
			reg.Qualified = *qualified
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *GormCombineRepository) RemoveRegistration(registrationID, coachID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reg CombineRegistration
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		var cb Combine
		if err := tx.First(&cb, reg.CombineID).Error; err != nil {
			return err
		}
		if cb.CoachID != coachID {
			return ErrNotOwner
		}

		wasCancelled := reg.Status == tryout.RegistrationCancelled

		if err := tx.Unscoped().Delete(&reg).Error; err != nil {
			return err
		}

		if wasCancelled {
			return nil
		}
		return tx.Model(&Combine{}).
			Where("id = ? AND registered_spots > 0", cb.ID).
			Update("registered_spots", gorm.Expr("registered_spots - 1")).Error
	})
}

func (r *GormCombineRepository) GetPlayerRegistrations(playerID uint) ([]CombineRegistration, error) {
	var regs []CombineRegistration
	err := r.db.Preload("Combine.Game").Preload("Combine.School").
		Where("player_id = ?", playerID).
		Order("created_at desc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *GormCombineRepository) GetCombineRegistrations(combineID, coachID uint) ([]CombineRegistration, error) {
	var cb Combine
	if err := r.db.First(&cb, combineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCombineNotFound
		}
		return nil, err
	}
	if cb.CoachID != coachID {
		return nil, ErrNotOwner
	}

	var regs []CombineRegistration
	err := r.db.Preload("Player.User").Preload("Player.MainGame").
		Where("combine_id = ?", combineID).
		Order("created_at asc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}
