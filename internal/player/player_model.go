package player

import (
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/models"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/user"
)

// Player is the profile that makes a user a recruitable player.
type Player struct {
	gorm.Model
	UserID      uint               `gorm:"uniqueIndex;not null" json:"user_id"`
	User        user.User          `gorm:"foreignKey:UserID" json:"user"`
	Gamertag    string             `gorm:"index;not null" json:"gamertag"`
	ClassYear   string             `gorm:"index" json:"class_year"`
	State       string             `gorm:"index" json:"state"`
	Location    string             `json:"location"`
	GPA         *float64           `json:"gpa,omitempty"`
	Bio         string             `json:"bio"`
	MainGameID  *uint              `gorm:"index" json:"main_game_id,omitempty"`
	MainGame    *game.Game         `gorm:"foreignKey:MainGameID" json:"main_game,omitempty"`
	SchoolID    *uint              `gorm:"index" json:"school_id,omitempty"`
	School      *school.School     `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Roles       models.StringSlice `gorm:"type:json" json:"roles"`
	SocialLinks models.SocialLinks `gorm:"type:json" json:"social_links"`
}

// PlatformAccount is an external gaming account a player has linked through
// the OAuth connect flow. The raw provider payload is kept verbatim so
// provider-specific fields survive schema churn on their side.
type PlatformAccount struct {
	gorm.Model
	PlayerID    uint      `gorm:"index:idx_platform_player_provider,unique;not null" json:"player_id"`
	Provider    string    `gorm:"index:idx_platform_player_provider,unique;not null" json:"provider"`
	ExternalID  string    `gorm:"not null" json:"external_id"`
	Handle      string    `json:"handle"`
	ProfileData string    `json:"profile_data,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// ConnectState is a short-lived token binding an in-flight OAuth connect
// attempt to the player who started it.
type ConnectState struct {
	gorm.Model
	State     string    `gorm:"uniqueIndex;not null" json:"state"`
	PlayerID  uint      `gorm:"index;not null" json:"player_id"`
	Provider  string    `gorm:"not null" json:"provider"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

type OnboardPlayerRequest struct {
	Gamertag   string   `json:"gamertag" binding:"required,min=2,max=40"`
	ClassYear  string   `json:"class_year,omitempty"`
	State      string   `json:"state,omitempty"`
	Location   string   `json:"location,omitempty"`
	GPA        *float64 `json:"gpa,omitempty" binding:"omitempty,gte=0,lte=4.5"`
	Bio        string   `json:"bio,omitempty"`
	MainGameID *uint    `json:"main_game_id,omitempty"`
	SchoolID   *uint    `json:"school_id,omitempty"`
	Roles      []string `json:"roles,omitempty"`
}

type UpdatePlayerRequest struct {
	Gamertag    *string             `json:"gamertag,omitempty" binding:"omitempty,min=2,max=40"`
	ClassYear   *string             `json:"class_year,omitempty"`
	State       *string             `json:"state,omitempty"`
	Location    *string             `json:"location,omitempty"`
	GPA         *float64            `json:"gpa,omitempty" binding:"omitempty,gte=0,lte=4.5"`
	Bio         *string             `json:"bio,omitempty"`
	MainGameID  *uint               `json:"main_game_id,omitempty"`
	SchoolID    *uint               `json:"school_id,omitempty"`
	Roles       []string            `json:"roles,omitempty"`
	SocialLinks *models.SocialLinks `json:"social_links,omitempty"`
}

type ConnectAccountRequest struct {
	Provider string `json:"provider" binding:"required" example:"riot"`
}

type ConnectAccountResponse struct {
	State       string `json:"state"`
	RedirectURL string `json:"redirect_url"`
}
