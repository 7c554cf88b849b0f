package league

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/pkg/responses"
)

const ContextKey = "league_admin_profile"

// RequireLeagueAdmin resolves the authenticated user to a league admin
// profile once per request and stores the typed identity in the context.
func RequireLeagueAdmin(db *gorm.DB) gin.HandlerFunc {
	repo := NewLeagueRepository(db)
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "")
			return
		}

		profile, err := repo.GetLeagueAdminByUserID(userID)
		if err != nil {
			if errors.Is(err, ErrLeagueAdminNotFound) {
				responses.Forbidden(c, "You must be a league admin to perform this action")
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve league admin profile"})
			}
			return
		}

		c.Set(ContextKey, profile)
		c.Next()
	}
}

// FromContext returns the league admin identity resolved by RequireLeagueAdmin.
func FromContext(c *gin.Context) (*LeagueAdmin, error) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return nil, errors.New("league admin profile not found in context")
	}
	profile, ok := v.(*LeagueAdmin)
	if !ok {
		return nil, errors.New("league admin profile has unexpected type")
	}
	return profile, nil
}
