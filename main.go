package main

import (
	"github.com/rs/zerolog/log"

	"github.com/nextup-gg/nextup/config"
	_ "github.com/nextup-gg/nextup/docs"
	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/combine"
	"github.com/nextup-gg/nextup/internal/game"
	"github.com/nextup-gg/nextup/internal/league"
	"github.com/nextup-gg/nextup/internal/message"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/tryout"
	"github.com/nextup-gg/nextup/internal/user"
	"github.com/nextup-gg/nextup/routes"
)

// @title NextUp Recruiting API
// @version 1.0
// @description REST API for the NextUp esports recruiting platform.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&school.School{}, &game.Game{},
		&coach.Coach{},
		&player.Player{}, &player.PlatformAccount{}, &player.ConnectState{},
		&tryout.Tryout{}, &tryout.TryoutRegistration{},
		&combine.Combine{}, &combine.CombineRegistration{},
		&message.Conversation{}, &message.Message{},
		&league.League{}, &league.LeagueSchool{}, &league.LeagueAdmin{}, &league.TryoutRequest{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("automigrate failed")
	}

	if err := game.Seed(config.DB); err != nil {
		log.Fatal().Err(err).Msg("game seeding failed")
	}

	r := routes.SetupRoutes(config.DB, cfg)

	log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
