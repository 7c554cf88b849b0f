package message

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/pkg/responses"
	"github.com/nextup-gg/nextup/pkg/validator"
)

type MessageController struct {
	repo MessageRepository
}

func NewMessageController(repo MessageRepository) *MessageController {
	return &MessageController{repo: repo}
}

func sendRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		responses.NotFound(c, "Conversation")
	case errors.Is(err, ErrPlayerNotFound):
		responses.NotFound(c, "Player")
	case errors.Is(err, ErrCoachNotFound):
		responses.NotFound(c, "Coach")
	case errors.Is(err, ErrNotParticipant):
		responses.Forbidden(c, "You are not a participant of this conversation")
	default:
		responses.InternalServerError(c, err)
	}
}

func conversationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("conversation_id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "Invalid conversation ID")
		return 0, false
	}
	return uint(id), true
}

func listFilters(c *gin.Context) map[string]interface{} {
	filters := make(map[string]interface{})
	if c.Query("unread_only") == "true" {
		filters["unread_only"] = true
	}
	if c.Query("starred_only") == "true" {
		filters["starred_only"] = true
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}
	return filters
}

// ---- coach-facing family ----

// StartConversationAsCoach godoc
// @Summary Start a conversation with a player
// @Description Sends the first message to a player, creating the conversation if it does not exist yet
// @Tags messages
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "Target player and message content"
// @Success 201 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /coach/conversations [post]
func (mc *MessageController) StartConversationAsCoach(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if req.PlayerID == 0 {
		responses.BadRequest(c, "player_id is required")
		return
	}

	conv, msg, err := mc.repo.StartConversationAsCoach(profile.ID, req.PlayerID, req.Content)
	if err != nil {
		sendRepoError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Message sent", gin.H{
		"conversation": conv,
		"message":      msg,
	})
}

// ListCoachConversations godoc
// @Summary List the coach's conversations
// @Tags messages
// @Produce json
// @Param unread_only query bool false "Only conversations with unread player messages"
// @Param starred_only query bool false "Only starred conversations"
// @Param search query string false "Search by player name or gamertag"
// @Success 200 {object} responses.SuccessResponse
// @Security BearerAuth
// @Router /coach/conversations [get]
func (mc *MessageController) ListCoachConversations(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	summaries, err := mc.repo.ListConversations(SenderCoach, profile.ID, listFilters(c))
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversations retrieved", summaries)
}

// GetCoachThread godoc
// @Summary Get a conversation thread
// @Description Returns all messages and marks the player's messages as read
// @Tags messages
// @Produce json
// @Param conversation_id path int true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /coach/conversations/{conversation_id} [get]
func (mc *MessageController) GetCoachThread(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	conv, msgs, err := mc.repo.GetThread(SenderCoach, profile.ID, id)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Thread retrieved", gin.H{
		"conversation": conv,
		"messages":     msgs,
	})
}

func (mc *MessageController) SendAsCoach(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	msg, err := mc.repo.SendMessage(SenderCoach, profile.ID, id, req.Content)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Message sent", msg)
}

func (mc *MessageController) StarAsCoach(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req StarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if err := mc.repo.SetStarred(SenderCoach, profile.ID, id, req.Starred); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation updated", nil)
}

func (mc *MessageController) MarkReadAsCoach(c *gin.Context) {
	profile, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	if err := mc.repo.MarkRead(SenderCoach, profile.ID, id); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation marked as read", nil)
}

// ---- player-facing family ----

// StartConversationAsPlayer godoc
// @Summary Start a conversation with a coach
// @Tags messages
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "Target coach and message content"
// @Success 201 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /player/conversations [post]
func (mc *MessageController) StartConversationAsPlayer(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if req.CoachID == 0 {
		responses.BadRequest(c, "coach_id is required")
		return
	}

	conv, msg, err := mc.repo.StartConversationAsPlayer(profile.ID, req.CoachID, req.Content)
	if err != nil {
		sendRepoError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Message sent", gin.H{
		"conversation": conv,
		"message":      msg,
	})
}

func (mc *MessageController) ListPlayerConversations(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	summaries, err := mc.repo.ListConversations(SenderPlayer, profile.ID, listFilters(c))
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversations retrieved", summaries)
}

func (mc *MessageController) GetPlayerThread(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	conv, msgs, err := mc.repo.GetThread(SenderPlayer, profile.ID, id)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Thread retrieved", gin.H{
		"conversation": conv,
		"messages":     msgs,
	})
}

func (mc *MessageController) SendAsPlayer(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	msg, err := mc.repo.SendMessage(SenderPlayer, profile.ID, id, req.Content)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Message sent", msg)
}

func (mc *MessageController) StarAsPlayer(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	var req StarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if err := mc.repo.SetStarred(SenderPlayer, profile.ID, id, req.Starred); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation updated", nil)
}

func (mc *MessageController) MarkReadAsPlayer(c *gin.Context) {
	profile, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	id, ok := conversationID(c)
	if !ok {
		return
	}

	if err := mc.repo.MarkRead(SenderPlayer, profile.ID, id); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation marked as read", nil)
}
