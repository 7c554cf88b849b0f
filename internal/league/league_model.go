package league

import (
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/user"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestDeclined RequestStatus = "DECLINED"
)

// League is a scholastic esports league: a named group of member schools
// competing in one or more seasons.
type League struct {
	gorm.Model
	Name    string `gorm:"not null;uniqueIndex" json:"name"`
	Tier    string `json:"tier,omitempty"`
	State   string `gorm:"index" json:"state,omitempty"`
	Season  string `json:"season,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Website string `json:"website,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// LeagueSchool joins a school into a league roster.
type LeagueSchool struct {
	gorm.Model
	LeagueID uint          `gorm:"uniqueIndex:idx_league_school;not null" json:"league_id"`
	SchoolID uint          `gorm:"uniqueIndex:idx_league_school;not null" json:"school_id"`
	School   school.School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

// LeagueAdmin links a user account to the league it administers.
type LeagueAdmin struct {
	gorm.Model
	UserID   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User     user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LeagueID uint      `gorm:"not null" json:"league_id"`
	League   League    `gorm:"foreignKey:LeagueID" json:"league,omitempty"`
	Title    string    `json:"title,omitempty"`
}

// TryoutRequest is a league admin's request for the platform to host an
// event on the league's behalf. Submission notifies the operations channel
// over the Discord webhook; the request itself is the source of truth.
type TryoutRequest struct {
	gorm.Model
	LeagueAdminID uint          `gorm:"index;not null" json:"league_admin_id"`
	LeagueAdmin   LeagueAdmin   `gorm:"foreignKey:LeagueAdminID" json:"league_admin,omitempty"`
	GameID        uint          `gorm:"not null" json:"game_id"`
	Game          game.Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Title         string        `gorm:"not null" json:"title"`
	Description   string        `json:"description,omitempty"`
	PreferredDate *time.Time    `json:"preferred_date,omitempty"`
	ExpectedSpots int           `json:"expected_spots,omitempty"`
	Status        RequestStatus `gorm:"default:PENDING;index" json:"status"`
}

type OnboardLeagueAdminRequest struct {
	LeagueID uint   `json:"league_id" binding:"required"`
	Title    string `json:"title,omitempty"`
}

type UpdateLeagueAdminRequest struct {
	Title *string `json:"title,omitempty"`
}

type CreateLeagueRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Tier    string `json:"tier,omitempty"`
	State   string `json:"state,omitempty"`
	Season  string `json:"season,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Website string `json:"website,omitempty" binding:"omitempty,url"`
	LogoURL string `json:"logo_url,omitempty" binding:"omitempty,url"`
}

type AddLeagueSchoolRequest struct {
	SchoolID uint `json:"school_id" binding:"required"`
}

type CreateTryoutRequestRequest struct {
	GameID        uint       `json:"game_id" binding:"required"`
	Title         string     `json:"title" binding:"required,min=3,max=150"`
	Description   string     `json:"description,omitempty"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	ExpectedSpots int        `json:"expected_spots,omitempty" binding:"omitempty,min=1"`
}
