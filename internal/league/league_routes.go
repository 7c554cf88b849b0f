// league/routes.go
package league

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/pkg/webhook"
)

func RegisterLeagueRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewLeagueRepository(db)
	schoolRepo := school.NewSchoolRepository(db)
	notifier := webhook.NewDiscordNotifier(appConfig.Discord.WebhookURL)
	controller := NewLeagueController(repo, schoolRepo, notifier)

	auth := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	public := router.Group("/leagues")
	{
		public.GET("", controller.GetAllLeagues)
		public.GET("/:league_id", controller.GetLeagueByID)
	}
	router.POST("/leagues", auth, controller.CreateLeague)

	admin := router.Group("/league")
	admin.Use(auth)
	{
		admin.POST("/onboard", controller.Onboard)

		protected := admin.Group("")
		protected.Use(RequireLeagueAdmin(db))
		{
			protected.GET("/profile", controller.GetProfile)
			protected.PUT("/profile", controller.UpdateProfile)
			protected.GET("/schools", controller.GetSchools)
			protected.POST("/schools", controller.AddSchool)
			protected.DELETE("/schools/:school_id", controller.RemoveSchool)
			protected.POST("/tryout-requests", controller.CreateTryoutRequest)
			protected.GET("/tryout-requests", controller.GetTryoutRequests)
		}
	}
}
