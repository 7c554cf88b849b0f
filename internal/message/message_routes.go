package message

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/player"
)

func RegisterMessageRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewMessageRepository(db)
	controller := NewMessageController(repo)

	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	coachRoutes := router.Group("/coach/conversations")
	coachRoutes.Use(auth, coach.RequireCoach(db))
	{
		coachRoutes.POST("", controller.StartConversationAsCoach)
		coachRoutes.GET("", controller.ListCoachConversations)
		coachRoutes.GET("/:conversation_id", controller.GetCoachThread)
		coachRoutes.POST("/:conversation_id/messages", controller.SendAsCoach)
		coachRoutes.PATCH("/:conversation_id/star", controller.StarAsCoach)
		coachRoutes.PATCH("/:conversation_id/read", controller.MarkReadAsCoach)
	}

	playerRoutes := router.Group("/player/conversations")
	playerRoutes.Use(auth, player.RequirePlayer(db))
	{
		playerRoutes.POST("", controller.StartConversationAsPlayer)
		playerRoutes.GET("", controller.ListPlayerConversations)
		playerRoutes.GET("/:conversation_id", controller.GetPlayerThread)
		playerRoutes.POST("/:conversation_id/messages", controller.SendAsPlayer)
		playerRoutes.PATCH("/:conversation_id/star", controller.StarAsPlayer)
		playerRoutes.PATCH("/:conversation_id/read", controller.MarkReadAsPlayer)
	}
}
