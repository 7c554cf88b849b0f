package game

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/pkg/responses"
)

// RegisterGameRoutes exposes the public game catalogue used by browse filters.
func RegisterGameRoutes(router *gin.RouterGroup, db *gorm.DB) {
	games := router.Group("/games")
	{
		// @Summary  List supported games
		// @Tags     Games
		// @Produce  json
		// @Success  200 {array} Game
		// @Router   /games [get]
		games.GET("", func(c *gin.Context) {
			var all []Game
			if err := db.Order("name asc").Find(&all).Error; err != nil {
				responses.InternalServerError(c, err)
				return
			}
			c.JSON(http.StatusOK, all)
		})

		games.GET("/:id", func(c *gin.Context) {
			id, err := strconv.ParseUint(c.Param("id"), 10, 32)
			if err != nil {
				responses.BadRequest(c, "invalid game ID")
				return
			}
			var g Game
			if err := db.First(&g, uint(id)).Error; err != nil {
				responses.NotFound(c, "Game")
				return
			}
			c.JSON(http.StatusOK, g)
		})
	}
}
