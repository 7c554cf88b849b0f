package message

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a participant of this conversation")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrCoachNotFound        = errors.New("coach not found")
)

type MessageRepository interface {
	StartConversationAsCoach(coachID, playerID uint, content string) (*Conversation, *Message, error)
	StartConversationAsPlayer(playerID, coachID uint, content string) (*Conversation, *Message, error)
	ListConversations(side SenderType, profileID uint, filters map[string]interface{}) ([]ConversationSummary, error)
	GetThread(side SenderType, profileID, conversationID uint) (*Conversation, []Message, error)
	SendMessage(side SenderType, profileID, conversationID uint, content string) (*Message, error)
	SetStarred(side SenderType, profileID, conversationID uint, starred bool) error
	MarkRead(side SenderType, profileID, conversationID uint) error
}

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// otherSide is the sender whose messages count as unread for the viewer.
func otherSide(side SenderType) SenderType {
	if side == SenderCoach {
		return SenderPlayer
	}
	return SenderCoach
}

func (r *gormMessageRepository) conversationFor(tx *gorm.DB, side SenderType, profileID, conversationID uint) (*Conversation, error) {
	var conv Conversation
	if err := tx.First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if side == SenderCoach && conv.CoachID != profileID {
		return nil, ErrNotParticipant
	}
	if side == SenderPlayer && conv.PlayerID != profileID {
		return nil, ErrNotParticipant
	}
	return &conv, nil
}

func (r *gormMessageRepository) startConversation(coachID, playerID uint, side SenderType, content string) (*Conversation, *Message, error) {
	var conv Conversation
	var msg Message

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coach_id = ? AND player_id = ?", coachID, playerID).
			First(&conv).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			var count int64
			if side == SenderCoach {
				if err := tx.Table("players").Where("id = ?", playerID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrPlayerNotFound
				}
			} else {
				if err := tx.Table("coaches").Where("id = ?", coachID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrCoachNotFound
				}
			}
			conv = Conversation{CoachID: coachID, PlayerID: playerID}
			if err := tx.Create(&conv).Error; err != nil {
				return err
			}
		}

		senderID := coachID
		if side == SenderPlayer {
			senderID = playerID
		}
		msg = Message{
			ConversationID: conv.ID,
			SenderType:     side,
			SenderID:       senderID,
			Content:        content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&conv).Update("last_message_at", &now).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &conv, &msg, nil
}

func (r *gormMessageRepository) StartConversationAsCoach(coachID, playerID uint, content string) (*Conversation, *Message, error) {
	return r.startConversation(coachID, playerID, SenderCoach, content)
}

func (r *gormMessageRepository) StartConversationAsPlayer(playerID, coachID uint, content string) (*Conversation, *Message, error) {
	return r.startConversation(coachID, playerID, SenderPlayer, content)
}

func (r *gormMessageRepository) ListConversations(side SenderType, profileID uint, filters map[string]interface{}) ([]ConversationSummary, error) {
	query := r.db.Model(&Conversation{})

	if side == SenderCoach {
		query = query.Where("conversations.coach_id = ?", profileID).
			Preload("Player").Preload("Player.User")
	} else {
		query = query.Where("conversations.player_id = ?", profileID).
			Preload("Coach").Preload("Coach.User").Preload("Coach.School")
	}

	starredCol := "starred_by_coach"
	if side == SenderPlayer {
		starredCol = "starred_by_player"
	}

	for key, value := range filters {
		switch key {
		case "starred_only":
			if value == true {
				query = query.Where(starredCol+" = ?", true)
			}
		case "unread_only":
			if value == true {
				query = query.Where(
					"EXISTS (SELECT 1 FROM messages m WHERE m.conversation_id = conversations.id AND m.sender_type = ? AND m.is_read = ? AND m.deleted_at IS NULL)",
					otherSide(side), false)
			}
		case "search":
			term := "%" + strings.ToLower(value.(string)) + "%"
			if side == SenderCoach {
				query = query.Where(
					"conversations.player_id IN (SELECT p.id FROM players p JOIN users u ON u.id = p.user_id WHERE LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(p.gamertag) LIKE ?)",
					term, term, term)
			} else {
				query = query.Where(
					"conversations.coach_id IN (SELECT co.id FROM coaches co JOIN users u ON u.id = co.user_id WHERE LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ?)",
					term, term)
			}
		}
	}

	var conversations []Conversation
	if err := query.Order("last_message_at DESC").Find(&conversations).Error; err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := ConversationSummary{Conversation: conv}

		if err := r.db.Model(&Message{}).
			Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conv.ID, otherSide(side), false).
			Count(&summary.UnreadCount).Error; err != nil {
			return nil, err
		}

		var last Message
		err := r.db.Where("conversation_id = ?", conv.ID).
			Order("created_at DESC").First(&last).Error
		if err == nil {
			summary.LastMessagePreview = last.Content
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *gormMessageRepository) GetThread(side SenderType, profileID, conversationID uint) (*Conversation, []Message, error) {
	var conv *Conversation
	var msgs []Message

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		conv, err = r.conversationFor(tx, side, profileID, conversationID)
		if err != nil {
			return err
		}

		if err := tx.Where("conversation_id = ?", conversationID).
			Order("created_at ASC").Find(&msgs).Error; err != nil {
			return err
		}

		// Opening the thread marks the other side's messages as read.
		return tx.Model(&Message{}).
			Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conversationID, otherSide(side), false).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return conv, msgs, nil
}

func (r *gormMessageRepository) SendMessage(side SenderType, profileID, conversationID uint, content string) (*Message, error) {
	var msg Message

	err := r.db.Transaction(func(tx *gorm.DB) error {
		conv, err := r.conversationFor(tx, side, profileID, conversationID)
		if err != nil {
			return err
		}

		msg = Message{
			ConversationID: conv.ID,
			SenderType:     side,
			SenderID:       profileID,
			Content:        content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(conv).Update("last_message_at", &now).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *gormMessageRepository) SetStarred(side SenderType, profileID, conversationID uint, starred bool) error {
	conv, err := r.conversationFor(r.db, side, profileID, conversationID)
	if err != nil {
		return err
	}
	col := "starred_by_coach"
	if side == SenderPlayer {
		col = "starred_by_player"
	}
	return r.db.Model(conv).Update(col, starred).Error
}

func (r *gormMessageRepository) MarkRead(side SenderType, profileID, conversationID uint) error {
	_, err := r.conversationFor(r.db, side, profileID, conversationID)
	if err != nil {
		return err
	}
	return r.db.Model(&Message{}).
		Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conversationID, otherSide(side), false).
		Update("is_read", true).Error
}
