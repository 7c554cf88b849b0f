// combine/model.go
package combine

import (
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/models"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/tryout"
)

// Combine is a showcase event where players compete for qualification in
// front of multiple programs. It shares the capacity invariant with Tryout:
// 0 <= RegisteredSpots <= MaxSpots, counter mutated only alongside its
// registration row.
type Combine struct {
	gorm.Model
	Title                string             `gorm:"not null" json:"title"`
	Description          string             `json:"description"`
	GameID               uint               `gorm:"index;not null" json:"game_id"`
	Game                 game.Game          `gorm:"foreignKey:GameID" json:"game"`
	SchoolID             uint               `gorm:"index;not null" json:"school_id"`
	School               school.School      `gorm:"foreignKey:SchoolID" json:"school"`
	CoachID              uint               `gorm:"index;not null" json:"coach_id"`
	Coach                coach.Coach        `gorm:"foreignKey:CoachID" json:"coach"`
	Date                 time.Time          `gorm:"index;not null" json:"date"`
	StartTime            string             `json:"start_time,omitempty"`
	EndTime              string             `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time         `json:"registration_deadline,omitempty"`
	Location             string             `json:"location"`
	Type                 tryout.EventType   `gorm:"default:'IN_PERSON'" json:"type"`
	Price                float64            `gorm:"default:0" json:"price"`
	Prize                string             `json:"prize,omitempty"`
	MaxSpots             int                `gorm:"not null" json:"max_spots"`
	RegisteredSpots      int                `gorm:"default:0" json:"registered_spots"`
	InviteOnly           bool               `gorm:"default:false" json:"invite_only"`
	Status               tryout.EventStatus `gorm:"default:'PUBLISHED';index" json:"status"`
	RequiredRoles        models.StringSlice `gorm:"type:json" json:"required_roles"`
}

// CombineRegistration adds the qualification flag on top of the standard
// registration shape. Unique per (combine, player).
type CombineRegistration struct {
	gorm.Model
	CombineID uint                      `gorm:"uniqueIndex:idx_combine_player;not null" json:"combine_id"`
	Combine   Combine                   `gorm:"foreignKey:CombineID" json:"combine,omitempty"`
	PlayerID  uint                      `gorm:"uniqueIndex:idx_combine_player;not null" json:"player_id"`
	Player    player.Player             `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Status    tryout.RegistrationStatus `gorm:"default:'PENDING'" json:"status"`
	Qualified bool                      `gorm:"default:false" json:"qualified"`
	Notes     string                    `json:"notes,omitempty"`
}

type CreateCombineRequest struct {
	Title                string           `json:"title" binding:"required,min=3,max=120"`
	Description          string           `json:"description,omitempty"`
	GameID               uint             `json:"game_id" binding:"required"`
	Date                 time.Time        `json:"date" binding:"required"`
	StartTime            string           `json:"start_time,omitempty"`
	EndTime              string           `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty"`
	Location             string           `json:"location,omitempty"`
	Type                 tryout.EventType `json:"type,omitempty" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	Price                float64          `json:"price,omitempty" binding:"omitempty,gte=0"`
	Prize                string           `json:"prize,omitempty"`
	MaxSpots             int              `json:"max_spots" binding:"required,gt=0"`
	InviteOnly           bool             `json:"invite_only,omitempty"`
	RequiredRoles        []string         `json:"required_roles,omitempty"`
}

type UpdateCombineRequest struct {
	Title                *string           `json:"title,omitempty" binding:"omitempty,min=3,max=120"`
	Description          *string           `json:"description,omitempty"`
	Date                 *time.Time        `json:"date,omitempty"`
	StartTime            *string           `json:"start_time,omitempty"`
	EndTime              *string           `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time        `json:"registration_deadline,omitempty"`
	Location             *string           `json:"location,omitempty"`
	Type                 *tryout.EventType `json:"type,omitempty" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	Price                *float64          `json:"price,omitempty" binding:"omitempty,gte=0"`
	Prize                *string           `json:"prize,omitempty"`
	InviteOnly           *bool             `json:"invite_only,omitempty"`
	RequiredRoles        []string          `json:"required_roles,omitempty"`
}

type UpdateCombineRegistrationRequest struct {
	Status    *tryout.RegistrationStatus `json:"status,omitempty" binding:"omitempty,oneof=PENDING CONFIRMED WAITLISTED DECLINED CANCELLED"`
	Qualified *bool                      `json:"qualified,omitempty"`
}
