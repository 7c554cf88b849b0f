// tryout/routes.go
package tryout

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/player"
)

func RegisterTryoutRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewGormTryoutRepository(db)
	controller := NewTryoutController(repo)

	// Public browsing.
	public := router.Group("/tryouts")
	{
		public.GET("", controller.Browse)
		public.GET("/:tryout_id", controller.GetByID)
	}

	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	coachRoutes := router.Group("/coach")
	coachRoutes.Use(auth, coach.RequireCoach(db))
	{
		coachRoutes.GET("/tryouts", controller.ListMine)
		coachRoutes.POST("/tryouts", controller.Create)
		coachRoutes.PUT("/tryouts/:tryout_id", controller.Update)
		coachRoutes.PATCH("/tryouts/:tryout_id/status", controller.UpdateStatus)
		coachRoutes.GET("/tryouts/:tryout_id/registrations", controller.Roster)
		coachRoutes.PATCH("/registrations/:registration_id/status", controller.UpdateRegistrationStatus)
		coachRoutes.DELETE("/registrations/:registration_id", controller.RemoveRegistration)
	}

	playerRoutes := router.Group("/player")
	playerRoutes.Use(auth, player.RequirePlayer(db))
	{
		playerRoutes.POST("/tryouts/:tryout_id/register", controller.Register)
		playerRoutes.POST("/registrations/:registration_id/cancel", controller.CancelRegistration)
		playerRoutes.GET("/registrations", controller.MyRegistrations)
	}
}
