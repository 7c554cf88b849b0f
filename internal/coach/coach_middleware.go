package coach

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/pkg/responses"
)

const ContextKey = "coach_profile"

// RequireCoach resolves the authenticated user to a coach profile exactly
// once per request and stores the typed identity in the context. A user with
// no coach profile is rejected with 403, never silently passed through.
func RequireCoach(db *gorm.DB) gin.HandlerFunc {
	repo := NewCoachRepository(db)
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "")
			return
		}

		profile, err := repo.GetCoachByUserID(userID)
		if err != nil {
			if errors.Is(err, ErrCoachNotFound) {
				responses.Forbidden(c, "You must be a coach to perform this action")
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve coach profile"})
			}
			return
		}

		c.Set(ContextKey, profile)
		c.Next()
	}
}

// FromContext returns the coach identity resolved by RequireCoach.
func FromContext(c *gin.Context) (*Coach, error) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return nil, errors.New("coach profile not found in context")
	}
	profile, ok := v.(*Coach)
	if !ok {
		return nil, errors.New("coach profile has unexpected type")
	}
	return profile, nil
}
