// combine/routes.go
package combine

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/player"
)

func RegisterCombineRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewGormCombineRepository(db)
	controller := NewCombineController(repo)

	public := router.Group("/combines")
	{
		public.GET("", controller.Browse)
		public.GET("/:combine_id", controller.GetByID)
	}

	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	coachRoutes := router.Group("/coach")
	coachRoutes.Use(auth, coach.RequireCoach(db))
	{
		coachRoutes.GET("/combines", controller.ListMine)
		coachRoutes.POST("/combines", controller.Create)
		coachRoutes.PUT("/combines/:combine_id", controller.Update)
		coachRoutes.PATCH("/combines/:combine_id/status", controller.UpdateStatus)
		coachRoutes.GET("/combines/:combine_id/registrations", controller.Roster)
		coachRoutes.PATCH("/combine-registrations/:registration_id", controller.UpdateRegistration)
		coachRoutes.DELETE("/combine-registrations/:registration_id", controller.RemoveRegistration)
	}

	playerRoutes := router.Group("/player")
	playerRoutes.Use(auth, player.RequirePlayer(db))
	{
		playerRoutes.POST("/combines/:combine_id/register", controller.Register)
		playerRoutes.POST("/combine-registrations/:registration_id/cancel", controller.CancelRegistration)
		playerRoutes.GET("/combine-registrations", controller.MyRegistrations)
	}
}
