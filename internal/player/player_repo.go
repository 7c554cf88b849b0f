// player/repository.go
package player

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAccountNotFound = errors.New("platform account not found")
	ErrStateNotFound   = errors.New("connect state not found or expired")
)

// PlayerRepository defines database operations for player profiles and their
// linked platform accounts.
type PlayerRepository interface {
	CreatePlayer(p *Player) error
	GetPlayerByID(id uint) (*Player, error)
	GetPlayerByUserID(userID uint) (*Player, error)
	UpdatePlayer(p *Player) error
	SearchPlayers(page, limit int, filters map[string]interface{}) ([]Player, int64, error)

	CreateConnectState(cs *ConnectState) error
	ConsumeConnectState(state string) (*ConnectState, error)
	SavePlatformAccount(pa *PlatformAccount) error
	GetPlatformAccounts(playerID uint) ([]PlatformAccount, error)
	GetPlatformAccountByID(id uint) (*PlatformAccount, error)
	DeletePlatformAccount(id uint) error
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) CreatePlayer(p *Player) error {
	return r.db.Create(p).Error
}

func (r *playerRepository) GetPlayerByID(id uint) (*Player, error) {
	var p Player
	err := r.db.Preload("User").Preload("MainGame").Preload("School").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetPlayerByUserID(userID uint) (*Player, error) {
	var p Player
	err := r.db.Preload("User").Preload("MainGame").Preload("School").Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) UpdatePlayer(p *Player) error {
	return r.db.Save(p).Error
}

// SearchPlayers retrieves players with pagination and the coach-facing
// recruiting filters.
func (r *playerRepository) SearchPlayers(page, limit int, filters map[string]interface{}) ([]Player, int64, error) {
	var players []Player
	var totalCount int64

	offset := (page - 1) * limit
	query := r.db.Model(&Player{}).Joins("JOIN users ON users.id = players.user_id AND users.deleted_at IS NULL")

	for key, value := range filters {
		switch key {
		case "game_id":
			query = query.Where("players.main_game_id = ?", value)
		case "class_year":
			query = query.Where("players.class_year = ?", value)
		case "state":
			query = query.Where("players.state = ?", value)
		case "school_id":
			query = query.Where("players.school_id = ?", value)
		case "min_gpa":
			query = query.Where("players.gpa >= ?", value)
		case "search":
			pattern := "%" + value.(string) + "%"
			query = query.Where(
				"LOWER(players.gamertag) LIKE LOWER(?) OR LOWER(users.first_name) LIKE LOWER(?) OR LOWER(users.last_name) LIKE LOWER(?)",
				pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("MainGame").Preload("School").
		Order("players.gamertag asc").
		Offset(offset).Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, 0, err
	}
	return players, totalCount, nil
}

func (r *playerRepository) CreateConnectState(cs *ConnectState) error {
	return r.db.Create(cs).Error
}

// ConsumeConnectState returns and deletes an unexpired state token. One-shot:
// a replayed callback with the same state fails.
func (r *playerRepository) ConsumeConnectState(state string) (*ConnectState, error) {
	var cs ConnectState
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("state = ? AND expires_at > ?", state, time.Now()).First(&cs).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStateNotFound
			}
			return err
		}
		return tx.Unscoped().Delete(&cs).Error
	})
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *playerRepository) SavePlatformAccount(pa *PlatformAccount) error {
	return r.db.Save(pa).Error
}

func (r *playerRepository) GetPlatformAccounts(playerID uint) ([]PlatformAccount, error) {
	var accounts []PlatformAccount
	if err := r.db.Where("player_id = ?", playerID).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *playerRepository) GetPlatformAccountByID(id uint) (*PlatformAccount, error) {
	var pa PlatformAccount
	if err := r.db.First(&pa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &pa, nil
}

func (r *playerRepository) DeletePlatformAccount(id uint) error {
	return r.db.Unscoped().Delete(&PlatformAccount{}, id).Error
}
