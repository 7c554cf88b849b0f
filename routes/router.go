package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/auth"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/combine"
	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/league"
	"github.com/nextup-gg/nextup/internal/message"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/tryout"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	if appConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	game.RegisterGameRoutes(api, db)
	school.RegisterSchoolRoutes(api, db)
	coach.RegisterCoachRoutes(api, db, appConfig)
	player.RegisterPlayerRoutes(api, db, appConfig)
	tryout.RegisterTryoutRoutes(api, db, appConfig)
	combine.RegisterCombineRoutes(api, db, appConfig)
	message.RegisterMessageRoutes(api, db, appConfig)
	league.RegisterLeagueRoutes(api, db, appConfig)

	return r
}
