package coach

import (
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/user"
)

// Coach is the profile that makes a user a coach. A coach belongs to exactly
// one school; every event the coach creates is owned by that school.
type Coach struct {
	gorm.Model
	UserID   uint          `gorm:"uniqueIndex;not null" json:"user_id"`
	User     user.User     `gorm:"foreignKey:UserID" json:"user"`
	SchoolID uint          `gorm:"index;not null" json:"school_id"`
	School   school.School `gorm:"foreignKey:SchoolID" json:"school"`
	Title    string        `json:"title"`
	Bio      string        `json:"bio"`
}

type OnboardCoachRequest struct {
	SchoolID uint   `json:"school_id" binding:"required"`
	Title    string `json:"title" binding:"required" example:"Head Coach"`
	Bio      string `json:"bio,omitempty"`
}

type UpdateCoachRequest struct {
	Title *string `json:"title,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}
