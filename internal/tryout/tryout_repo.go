// tryout/repository.go
package tryout

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Business-rule sentinels. Controllers map these onto the HTTP error
// taxonomy; anything else coming out of the repository is an internal error.
var (
	ErrTryoutNotFound       = errors.New("tryout not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("tryout is not open for registration")
	ErrDeadlinePassed       = errors.New("registration deadline has passed")
	ErrTryoutPassed         = errors.New("tryout date has passed")
	ErrTryoutFull           = errors.New("tryout is full")
	ErrAlreadyRegistered    = errors.New("player is already registered for this tryout")
	ErrAlreadyCancelled     = errors.New("registration is already cancelled")
	ErrNotOwner             = errors.New("caller does not own this resource")
)

// TryoutRepository defines all database operations for tryouts and their
// registrations. Every capacity-affecting operation runs as one transaction:
// the capacity check, the registration row write and the counter mutation are
// never split across round-trips.
type TryoutRepository interface {
	CreateTryout(t *Tryout) error
	GetTryoutByID(id uint) (*Tryout, error)
	GetAllTryouts(limit, offset int, filters map[string]interface{}) ([]Tryout, int64, error)
	GetTryoutsByCoachID(coachID uint) ([]Tryout, error)
	UpdateTryout(t *Tryout) error

	Register(tryoutID, playerID uint, notes string) (*TryoutRegistration, error)
	CancelRegistration(registrationID, playerID uint) (*TryoutRegistration, error)
	UpdateRegistrationStatus(registrationID, coachID uint, status RegistrationStatus) (*TryoutRegistration, error)
	RemoveRegistration(registrationID, coachID uint) error
	GetPlayerRegistrations(playerID uint) ([]TryoutRegistration, error)
	GetTryoutRegistrations(tryoutID, coachID uint) ([]TryoutRegistration, error)
}

// GormTryoutRepository implements TryoutRepository using GORM.
type GormTryoutRepository struct {
	db *gorm.DB
}

func NewGormTryoutRepository(db *gorm.DB) *GormTryoutRepository {
	return &GormTryoutRepository{db: db}
}

func (r *GormTryoutRepository) CreateTryout(t *Tryout) error {
	return r.db.Create(t).Error
}

func (r *GormTryoutRepository) GetTryoutByID(id uint) (*Tryout, error) {
	var t Tryout
	err := r.db.Preload("Game").Preload("School").Preload("Coach.User").First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTryoutNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetAllTryouts retrieves published tryouts with browse filters and
// limit/offset pagination.
func (r *GormTryoutRepository) GetAllTryouts(limit, offset int, filters map[string]interface{}) ([]Tryout, int64, error) {
	var tryouts []Tryout
	var totalCount int64

	query := r.db.Model(&Tryout{}).
		Joins("JOIN schools ON schools.id = tryouts.school_id AND schools.deleted_at IS NULL").
		Where("tryouts.status = ?", StatusPublished)

	for key, value := range filters {
		switch key {
		case "game_id":
			query = query.Where("tryouts.game_id = ?", value)
		case "school_id":
			query = query.Where("tryouts.school_id = ?", value)
		case "type":
			query = query.Where("tryouts.type = ?", value)
		case "state":
			query = query.Where("schools.state = ?", value)
		case "free_only":
			if value.(bool) {
				query = query.Where("tryouts.price = 0")
			}
		case "upcoming_only":
			if value.(bool) {
				query = query.Where("tryouts.date > ?", time.Now())
			}
		case "search":
			pattern := "%" + value.(string) + "%"
			query = query.Where(
				"LOWER(tryouts.title) LIKE LOWER(?) OR LOWER(tryouts.description) LIKE LOWER(?) OR LOWER(schools.name) LIKE LOWER(?)",
				pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Game").Preload("School").
		Order("tryouts.date asc").
		Offset(offset).Limit(limit).
		Find(&tryouts).Error
	if err != nil {
		return nil, 0, err
	}
	return tryouts, totalCount, nil
}

func (r *GormTryoutRepository) GetTryoutsByCoachID(coachID uint) ([]Tryout, error) {
	var tryouts []Tryout
	err := r.db.Preload("Game").Preload("School").
		Where("coach_id = ?", coachID).
		Order("date asc").
		Find(&tryouts).Error
	if err != nil {
		return nil, err
	}
	return tryouts, nil
}

func (r *GormTryoutRepository) UpdateTryout(t *Tryout) error {
	return r.db.Save(t).Error
}

// Register creates a PENDING registration and takes one spot. Preconditions
// are checked in order, each with its own failure mode: tryout exists,
// registration open, deadline not passed, date in the future, spots remain,
// no existing row for the pair. The guarded counter update is the
// authoritative capacity gate: if a concurrent registration took the last
// spot after our read, zero rows match and the whole transaction rolls back.
func (r *GormTryoutRepository) Register(tryoutID, playerID uint, notes string) (*TryoutRegistration, error) {
	var reg *TryoutRegistration
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t Tryout
		if err := tx.First(&t, tryoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTryoutNotFound
			}
			return err
		}

		if t.Status != StatusPublished {
			return ErrRegistrationClosed
		}
		if t.RegistrationDeadline != nil && time.Now().After(*t.RegistrationDeadline) {
			return ErrDeadlinePassed
		}
		if !t.Date.After(time.Now()) {
			return ErrTryoutPassed
		}
		if t.RegisteredSpots >= t.MaxSpots {
			return ErrTryoutFull
		}

		var existing TryoutRegistration
		err := tx.Where("tryout_id = ? AND player_id = ?", tryoutID, playerID).First(&existing).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reg = &TryoutRegistration{
			TryoutID: tryoutID,
			PlayerID: playerID,
			Status:   RegistrationPending,
			Notes:    notes,
		}
		if err := tx.Create(reg).Error; err != nil {
			return err
		}

		res := tx.Model(&Tryout{}).
			Where("id = ? AND registered_spots < max_spots", tryoutID).
			Update("registered_spots", gorm.Expr("registered_spots + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTryoutFull
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// CancelRegistration is the player self-service cancel: status flips to
// CANCELLED and the spot is released in the same transaction. Cancelling an
// already-cancelled registration is rejected before any write, so the counter
// can never be decremented twice for one registration.
func (r *GormTryoutRepository) CancelRegistration(registrationID, playerID uint) (*TryoutRegistration, error) {
	var reg TryoutRegistration
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
		if reg.Status == RegistrationCancelled {
			return ErrAlreadyCancelled
		}

		var t Tryout
		if err := tx.First(&t, reg.TryoutID).Error; err != nil {
			return err
		}
		if !t.Date.After(time.Now()) {
			return ErrTryoutPassed
		}

		if err := tx.Model(&reg).Update("status", RegistrationCancelled).Error; err != nil {
			return err
		}
		reg.Status = RegistrationCancelled

		return tx.Model(&Tryout{}).
			Where("id = ? AND registered_spots > 0", t.ID).
			Update("registered_spots", gorm.Expr("registered_spots - 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// UpdateRegistrationStatus is the coach-driven transition. Any target status
// is allowed and the spot counter is untouched: it reflects player
// self-service registrations only.
func (r *GormTryoutRepository) UpdateRegistrationStatus(registrationID, coachID uint, status RegistrationStatus) (*TryoutRegistration, error) {
	var reg TryoutRegistration
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		var t Tryout
		if err := tx.First(&t, reg.TryoutID).Error; err != nil {
			return err
		}
		if t.CoachID != coachID {
			return ErrNotOwner
		}

		if err := tx.Model(&reg).Update("status", status).Error; err != nil {
			return err
		}
		reg.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// RemoveRegistration deletes the row outright (coach only) and releases the
// spot, unless the player had already cancelled and the spot was released
// then.
func (r *GormTryoutRepository) RemoveRegistration(registrationID, coachID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reg TryoutRegistration
		if err := tx.First(&reg, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		var t Tryout
		if err := tx.First(&t, reg.TryoutID).Error; err != nil {
			return err
		}
		if t.CoachID != coachID {
			return ErrNotOwner
		}

		wasCancelled := reg.Status == RegistrationCancelled

		// Hard delete frees the (tryout, player) unique pair.
		if err := tx.Unscoped().Delete(&reg).Error; err != nil {
			return err
		}

		if wasCancelled {
			return nil
		}
		return tx.Model(&Tryout{}).
			Where("id = ? AND registered_spots > 0", t.ID).
			Update("registered_spots", gorm.Expr("registered_spots - 1")).Error
	})
}

func (r *GormTryoutRepository) GetPlayerRegistrations(playerID uint) ([]TryoutRegistration, error) {
	var regs []TryoutRegistration
	err := r.db.Preload("Tryout.Game").Preload("Tryout.School").
		Where("player_id = ?", playerID).
		Order("created_at desc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// GetTryoutRegistrations returns the roster for a tryout the coach owns.
func (r *GormTryoutRepository) GetTryoutRegistrations(tryoutID, coachID uint) ([]TryoutRegistration, error) {
	var t Tryout
	if err := r.db.First(&t, tryoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTryoutNotFound
		}
		return nil, err
	}
	if t.CoachID != coachID {
		return nil, ErrNotOwner
	}

	var regs []TryoutRegistration
	err := r.db.Preload("Player.User").Preload("Player.MainGame").
		Where("tryout_id = ?", tryoutID).
		Order("created_at asc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}
