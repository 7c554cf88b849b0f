package coach

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/school"
)

func RegisterCoachRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewCoachRepository(db)
	schoolRepo := school.NewSchoolRepository(db)
	controller := NewCoachController(repo, schoolRepo)

	// Public coach pages.
	router.GET("/coaches/:coach_id", controller.GetCoachByID)

	authed := router.Group("/coach")
	authed.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.POST("/onboard", controller.Onboard)

		profile := authed.Group("")
		profile.Use(RequireCoach(db))
		{
			profile.GET("/profile", controller.GetProfile)
			profile.PUT("/profile", controller.UpdateProfile)
		}
	}
}
