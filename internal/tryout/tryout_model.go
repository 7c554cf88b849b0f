// tryout/model.go
package tryout

import (
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/models"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
)

type EventType string

const (
	EventTypeOnline   EventType = "ONLINE"
	EventTypeInPerson EventType = "IN_PERSON"
	EventTypeHybrid   EventType = "HYBRID"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "DRAFT"
	StatusPublished EventStatus = "PUBLISHED"
	StatusCancelled EventStatus = "CANCELLED"
	StatusCompleted EventStatus = "COMPLETED"
)

type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "PENDING"
	RegistrationConfirmed  RegistrationStatus = "CONFIRMED"
	RegistrationWaitlisted RegistrationStatus = "WAITLISTED"
	RegistrationDeclined   RegistrationStatus = "DECLINED"
	RegistrationCancelled  RegistrationStatus = "CANCELLED"
)

// Tryout is a school-hosted recruiting event with a fixed number of spots.
// RegisteredSpots counts live player self-service registrations and is only
// ever mutated in the same transaction as the registration row it reflects.
// Invariant: 0 <= RegisteredSpots <= MaxSpots.
type Tryout struct {
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
	Type                 EventType          `gorm:"default:'IN_PERSON'" json:"type"`
	Price                float64            `gorm:"default:0" json:"price"`
	MaxSpots             int                `gorm:"not null" json:"max_spots"`
	RegisteredSpots      int                `gorm:"default:0" json:"registered_spots"`
	InviteOnly           bool               `gorm:"default:false" json:"invite_only"`
	Status               EventStatus        `gorm:"default:'PUBLISHED';index" json:"status"`
	RequiredRoles        models.StringSlice `gorm:"type:json" json:"required_roles"`
}

// TryoutRegistration links one player to one tryout. The composite unique
// index enforces at most one registration row per (tryout, player) pair.
type TryoutRegistration struct {
	gorm.Model
	TryoutID uint               `gorm:"uniqueIndex:idx_tryout_player;not null" json:"tryout_id"`
	Tryout   Tryout             `gorm:"foreignKey:TryoutID" json:"tryout,omitempty"`
	PlayerID uint               `gorm:"uniqueIndex:idx_tryout_player;not null" json:"player_id"`
	Player   player.Player      `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Status   RegistrationStatus `gorm:"default:'PENDING'" json:"status"`
	Notes    string             `json:"notes,omitempty"`
}

type CreateTryoutRequest struct {
	Title                string     `json:"title" binding:"required,min=3,max=120"`
	Description          string     `json:"description,omitempty"`
	GameID               uint       `json:"game_id" binding:"required"`
	Date                 time.Time  `json:"date" binding:"required"`
	StartTime            string     `json:"start_time,omitempty"`
	EndTime              string     `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Location             string     `json:"location,omitempty"`
	Type                 EventType  `json:"type,omitempty" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	Price                float64    `json:"price,omitempty" binding:"omitempty,gte=0"`
	MaxSpots             int        `json:"max_spots" binding:"required,gt=0"`
	InviteOnly           bool       `json:"invite_only,omitempty"`
	RequiredRoles        []string   `json:"required_roles,omitempty"`
}

type UpdateTryoutRequest struct {
	Title                *string    `json:"title,omitempty" binding:"omitempty,min=3,max=120"`
	Description          *string    `json:"description,omitempty"`
	Date                 *time.Time `json:"date,omitempty"`
	StartTime            *string    `json:"start_time,omitempty"`
	EndTime              *string    `json:"end_time,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Location             *string    `json:"location,omitempty"`
	Type                 *EventType `json:"type,omitempty" binding:"omitempty,oneof=ONLINE IN_PERSON HYBRID"`
	Price                *float64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	InviteOnly           *bool      `json:"invite_only,omitempty"`
	RequiredRoles        []string   `json:"required_roles,omitempty"`
}

type UpdateEventStatusRequest struct {
	Status EventStatus `json:"status" binding:"required,oneof=DRAFT PUBLISHED CANCELLED COMPLETED"`
}

type RegisterRequest struct {
	Notes string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

type UpdateRegistrationStatusRequest struct {
	Status RegistrationStatus `json:"status" binding:"required,oneof=PENDING CONFIRMED WAITLISTED DECLINED CANCELLED"`
}
