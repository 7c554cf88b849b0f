package coach

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/pkg/responses"
)

// CoachController handles coach profile requests.
type CoachController struct {
	repo       CoachRepository
	schoolRepo school.SchoolRepository
}

func NewCoachController(repo CoachRepository, schoolRepo school.SchoolRepository) *CoachController {
	return &CoachController{repo: repo, schoolRepo: schoolRepo}
}

// Onboard godoc
// @Summary  Create the caller's coach profile
// @Description  Associates the authenticated user with a school as a coach.
// @Tags     CoachProfile
// @Accept   json
// @Produce  json
// @Param    profile body OnboardCoachRequest true "Coach profile"
// @Success  201 {object} Coach
// @Failure  400 {object} responses.ErrorResponse
// @Failure  409 {object} responses.ErrorResponse
// @Router   /coach/onboard [post]
// @Security Bearer
func (cc *CoachController) Onboard(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req OnboardCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := cc.repo.GetCoachByUserID(userID); !errors.Is(err, ErrCoachNotFound) {
		if err == nil {
			responses.SendError(c, http.StatusConflict, "A coach profile already exists for this account")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	if _, err := cc.schoolRepo.GetSchoolByID(req.SchoolID); err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			responses.NotFound(c, "School")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	profile := &Coach{
		UserID:   userID,
		SchoolID: req.SchoolID,
		Title:    req.Title,
		Bio:      req.Bio,
	}
	if err := cc.repo.CreateCoach(profile); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	created, err := cc.repo.GetCoachByID(profile.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProfile godoc
// @Summary  Get own coach profile
// @Tags     CoachProfile
// @Produce  json
// @Success  200 {object} Coach
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/profile [get]
// @Security Bearer
func (cc *CoachController) GetProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary  Update own coach profile
// @Tags     CoachProfile
// @Accept   json
// @Produce  json
// @Param    profile body UpdateCoachRequest true "Fields to update"
// @Success  200 {object} Coach
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/profile [put]
// @Security Bearer
func (cc *CoachController) UpdateProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Title != nil {
		profile.Title = *req.Title
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}

	if err := cc.repo.UpdateCoach(profile); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetCoachByID godoc
// @Summary  Public coach view
// @Tags     CoachProfile
// @Produce  json
// @Param    coach_id path int true "Coach ID"
// @Success  200 {object} Coach
// @Failure  404 {object} responses.ErrorResponse
// @Router   /coaches/{coach_id} [get]
func (cc *CoachController) GetCoachByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("coach_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid coach ID")
		return
	}

	profile, err := cc.repo.GetCoachByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrCoachNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Coach")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	// Public projection hides the account email.
	profile.User.Email = ""
	c.JSON(http.StatusOK, profile)
}
