package player

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/middleware"
)

func RegisterPlayerRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewPlayerRepository(db)

	var providers ProviderClient
	if appConfig.Providers.ProfileAPIBase != "" {
		providers = NewHTTPProviderClient(appConfig.Providers.ProfileAPIBase)
	} else {
		providers = NewOfflineProviderClient()
	}

	controller := NewPlayerController(repo, providers, appConfig)

	// Public player pages.
	router.GET("/players/:player_id", controller.GetPlayerByID)

	authed := router.Group("/player")
	authed.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.POST("/onboard", controller.Onboard)

		profile := authed.Group("")
		profile.Use(RequirePlayer(db))
		{
			profile.GET("/profile", controller.GetProfile)
			profile.PUT("/profile", controller.UpdateProfile)

			profile.GET("/platform-accounts", controller.ListPlatformAccounts)
			profile.POST("/platform-accounts/connect", controller.StartConnect)
			profile.GET("/platform-accounts/callback", controller.ConnectCallback)
			profile.DELETE("/platform-accounts/:account_id", controller.DisconnectAccount)
		}
	}

	// Recruiting search is a coach capability over player data.
	search := router.Group("/coach/players")
	search.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), coach.RequireCoach(db))
	{
		search.GET("/search", controller.SearchPlayers)
	}
}
