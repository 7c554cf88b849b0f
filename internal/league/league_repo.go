package league

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrLeagueNotFound      = errors.New("league not found")
	ErrLeagueAdminNotFound = errors.New("league admin profile not found")
	ErrSchoolAlreadyMember = errors.New("school is already a member of this league")
	ErrMembershipNotFound  = errors.New("school is not a member of this league")
	ErrLeagueNameTaken     = errors.New("a league with this name already exists")
)

// LeagueRepository defines database operations for leagues, their school
// rosters, league admin profiles and hosting requests.
type LeagueRepository interface {
	CreateLeague(l *League) error
	GetLeagueByID(id uint) (*League, error)
	GetAllLeagues(filters map[string]interface{}, page, limit int) ([]League, int64, error)

	CreateLeagueAdmin(a *LeagueAdmin) error
	GetLeagueAdminByUserID(userID uint) (*LeagueAdmin, error)
	UpdateLeagueAdmin(a *LeagueAdmin) error

	AddSchool(leagueID, schoolID uint) (*LeagueSchool, error)
	RemoveSchool(leagueID, schoolID uint) error
	GetLeagueSchools(leagueID uint) ([]LeagueSchool, error)

	CreateTryoutRequest(tr *TryoutRequest) error
	GetTryoutRequests(leagueAdminID uint) ([]TryoutRequest, error)
}

type leagueRepository struct {
	db *gorm.DB
}

func NewLeagueRepository(db *gorm.DB) LeagueRepository {
	return &leagueRepository{db: db}
}

func (r *leagueRepository) CreateLeague(l *League) error {
	var count int64
	if err := r.db.Model(&League{}).Where("name = ?", l.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrLeagueNameTaken
	}
	return r.db.Create(l).Error
}

func (r *leagueRepository) GetLeagueByID(id uint) (*League, error) {
	var l League
	if err := r.db.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *leagueRepository) GetAllLeagues(filters map[string]interface{}, page, limit int) ([]League, int64, error) {
	var leagues []League
	var total int64

	query := r.db.Model(&League{})
	for key, value := range filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "tier":
			query = query.Where("tier = ?", value)
		case "search":
			term := "%" + strings.ToLower(value.(string)) + "%"
			query = query.Where("LOWER(name) LIKE ?", term)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&leagues).Error; err != nil {
		return nil, 0, err
	}
	return leagues, total, nil
}

func (r *leagueRepository) CreateLeagueAdmin(a *LeagueAdmin) error {
	var count int64
	if err := r.db.Model(&League{}).Where("id = ?", a.LeagueID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrLeagueNotFound
	}
	return r.db.Create(a).Error
}

func (r *leagueRepository) GetLeagueAdminByUserID(userID uint) (*LeagueAdmin, error) {
	var a LeagueAdmin
	if err := r.db.Preload("User").Preload("League").Where("user_id = ?", userID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeagueAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *leagueRepository) UpdateLeagueAdmin(a *LeagueAdmin) error {
	return r.db.Save(a).Error
}

func (r *leagueRepository) AddSchool(leagueID, schoolID uint) (*LeagueSchool, error) {
	var membership LeagueSchool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&LeagueSchool{}).
			Where("league_id = ? AND school_id = ?", leagueID, schoolID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSchoolAlreadyMember
		}

		membership = LeagueSchool{LeagueID: leagueID, SchoolID: schoolID}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *leagueRepository) RemoveSchool(leagueID, schoolID uint) error {
	res := r.db.Unscoped().
		Where("league_id = ? AND school_id = ?", leagueID, schoolID).
		Delete(&LeagueSchool{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *leagueRepository) GetLeagueSchools(leagueID uint) ([]LeagueSchool, error) {
	var memberships []LeagueSchool
	if err := r.db.Preload("School").Where("league_id = ?", leagueID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *leagueRepository) CreateTryoutRequest(tr *TryoutRequest) error {
	return r.db.Create(tr).Error
}

func (r *leagueRepository) GetTryoutRequests(leagueAdminID uint) ([]TryoutRequest, error) {
	var requests []TryoutRequest
	if err := r.db.Preload("Game").
		Where("league_admin_id = ?", leagueAdminID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
