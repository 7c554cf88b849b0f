package message

import (
	"time"

	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/player"
)

type SenderType string

const (
	SenderCoach  SenderType = "COACH"
	SenderPlayer SenderType = "PLAYER"
)

// Conversation is the single thread between one coach and one player. Both
// the coach-facing and player-facing endpoint families operate on these rows.
type Conversation struct {
	gorm.Model
	CoachID         uint          `gorm:"uniqueIndex:idx_coach_player;not null" json:"coach_id"`
	Coach           coach.Coach   `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
	PlayerID        uint          `gorm:"uniqueIndex:idx_coach_player;not null" json:"player_id"`
	Player          player.Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	StarredByCoach  bool          `gorm:"default:false" json:"starred_by_coach"`
	StarredByPlayer bool          `gorm:"default:false" json:"starred_by_player"`
	LastMessageAt   *time.Time    `gorm:"index" json:"last_message_at,omitempty"`
}

type Message struct {
	gorm.Model
	ConversationID uint       `gorm:"index;not null" json:"conversation_id"`
	SenderType     SenderType `gorm:"not null" json:"sender_type"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	Content        string     `gorm:"not null" json:"content"`
	IsRead         bool       `gorm:"default:false;index" json:"is_read"`
}

// ConversationSummary is a conversation with the derived list fields: unread
// count for the viewing side and the last message preview.
type ConversationSummary struct {
	Conversation
	UnreadCount        int64  `json:"unread_count"`
	LastMessagePreview string `json:"last_message_preview,omitempty"`
}

type StartConversationRequest struct {
	// Coach-facing: target player. Player-facing: target coach.
	PlayerID uint   `json:"player_id,omitempty"`
	CoachID  uint   `json:"coach_id,omitempty"`
	Content  string `json:"content" binding:"required,min=1,max=2000"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type StarRequest struct {
	Starred bool `json:"starred"`
}
