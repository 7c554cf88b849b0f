package player

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/pkg/responses"
)

const ContextKey = "player_profile"

// RequirePlayer resolves the authenticated user to a player profile exactly
// once per request and stores the typed identity in the context. A user with
// no player profile is rejected with 403, never silently passed through.
func RequirePlayer(db *gorm.DB) gin.HandlerFunc {
	repo := NewPlayerRepository(db)
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "")
			return
		}

		profile, err := repo.GetPlayerByUserID(userID)
		if err != nil {
			if errors.Is(err, ErrPlayerNotFound) {
				responses.Forbidden(c, "You must be a player to perform this action")
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve player profile"})
			}
			return
		}

		c.Set(ContextKey, profile)
		c.Next()
	}
}

// FromContext returns the player identity resolved by RequirePlayer.
func FromContext(c *gin.Context) (*Player, error) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return nil, errors.New("player profile not found in context")
	}
	profile, ok := v.(*Player)
	if !ok {
		return nil, errors.New("player profile has unexpected type")
	}
	return profile, nil
}
