package tryout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/pkg/responses"
)

// TryoutController handles tryout browsing, management and registration.
type TryoutController struct {
	repo TryoutRepository
}

func NewTryoutController(repo TryoutRepository) *TryoutController {
	return &TryoutController{repo: repo}
}

// sendRepoError maps repository sentinels onto the HTTP error taxonomy.
func sendRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTryoutNotFound):
		responses.NotFound(c, "Tryout")
	case errors.Is(err, ErrRegistrationNotFound):
		responses.NotFound(c, "Registration")
	case errors.Is(err, ErrNotOwner):
		responses.Forbidden(c, "You do not own this resource")
	case errors.Is(err, ErrRegistrationClosed):
		responses.BadRequest(c, "Tryout is not open for registration")
	case errors.Is(err, ErrDeadlinePassed):
		responses.BadRequest(c, "Registration deadline has passed")
	case errors.Is(err, ErrTryoutPassed):
		responses.BadRequest(c, "Tryout date has passed")
	case errors.Is(err, ErrTryoutFull):
		responses.BadRequest(c, "Tryout is full")
	case errors.Is(err, ErrAlreadyRegistered):
		responses.BadRequest(c, "You are already registered for this tryout")
	case errors.Is(err, ErrAlreadyCancelled):
		responses.BadRequest(c, "Registration is already cancelled")
	default:
		responses.InternalServerError(c, err)
	}
}

// Browse godoc
// @Summary  Browse tryouts
// @Description  Public listing with filters and limit/offset pagination.
// @Tags     Tryouts
// @Produce  json
// @Param    limit         query int    false "Max items (default: 20, max: 100)"
// @Param    offset        query int    false "Items to skip (default: 0)"
// @Param    game_id       query int    false "Game filter"
// @Param    school_id     query int    false "School filter"
// @Param    type          query string false "Event type filter (ONLINE|IN_PERSON|HYBRID)"
// @Param    state         query string false "School state filter"
// @Param    free_only     query bool   false "Only free events"
// @Param    upcoming_only query bool   false "Only future events"
// @Param    search        query string false "Title/description/school substring search"
// @Success  200 {object} responses.PaginatedResponse{data=[]Tryout}
// @Router   /tryouts [get]
func (tc *TryoutController) Browse(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filters := make(map[string]interface{})
	if gameID := c.Query("game_id"); gameID != "" {
		id, err := strconv.ParseUint(gameID, 10, 32)
		if err != nil {
			responses.BadRequest(c, "invalid game_id parameter")
			return
		}
		filters["game_id"] = uint(id)
	}
	if schoolID := c.Query("school_id"); schoolID != "" {
		id, err := strconv.ParseUint(schoolID, 10, 32)
		if err != nil {
			responses.BadRequest(c, "invalid school_id parameter")
			return
		}
		filters["school_id"] = uint(id)
	}
	if eventType := c.Query("type"); eventType != "" {
		filters["type"] = eventType
	}
	if state := c.Query("state"); state != "" {
		filters["state"] = state
	}
	if freeOnly := c.Query("free_only"); freeOnly != "" {
		v, err := strconv.ParseBool(freeOnly)
		if err != nil {
			responses.BadRequest(c, "invalid free_only parameter")
			return
		}
		filters["free_only"] = v
	}
	if upcomingOnly := c.Query("upcoming_only"); upcomingOnly != "" {
		v, err := strconv.ParseBool(upcomingOnly)
		if err != nil {
			responses.BadRequest(c, "invalid upcoming_only parameter")
			return
		}
		filters["upcoming_only"] = v
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	tryouts, total, err := tc.repo.GetAllTryouts(limit, offset, filters)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendPaginated(c, "", tryouts, total, offset/limit+1, limit)
}

// GetByID godoc
// @Summary  Get a tryout
// @Tags     Tryouts
// @Produce  json
// @Param    tryout_id path int true "Tryout ID"
// @Success  200 {object} Tryout
// @Failure  404 {object} responses.ErrorResponse
// @Router   /tryouts/{tryout_id} [get]
func (tc *TryoutController) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("tryout_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid tryout ID")
		return
	}

	t, err := tc.repo.GetTryoutByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}

	// Public projection hides account emails of the hosting staff.
	t.Coach.User.Email = ""
	c.JSON(http.StatusOK, t)
}

// Create godoc
// @Summary  Create a tryout
// @Tags     Tryouts
// @Accept   json
// @Produce  json
// @Param    tryout body CreateTryoutRequest true "Tryout details"
// @Success  201 {object} Tryout
// @Failure  400 {object} responses.ErrorResponse
// @Router   /coach/tryouts [post]
// @Security Bearer
func (tc *TryoutController) Create(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req CreateTryoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	eventType := req.Type
	if eventType == "" {
		eventType = EventTypeInPerson
	}

	t := &Tryout{
		Title:                req.Title,
		Description:          req.Description,
		GameID:               req.GameID,
		SchoolID:             caller.SchoolID,
		CoachID:              caller.ID,
		Date:                 req.Date,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		RegistrationDeadline: req.RegistrationDeadline,
		Location:             req.Location,
		Type:                 eventType,
		Price:                req.Price,
		MaxSpots:             req.MaxSpots,
		InviteOnly:           req.InviteOnly,
		Status:               StatusPublished,
		RequiredRoles:        req.RequiredRoles,
	}
	if err := tc.repo.CreateTryout(t); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	created, err := tc.repo.GetTryoutByID(t.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary  Update a tryout
// @Tags     Tryouts
// @Accept   json
// @Produce  json
// @Param    tryout_id path int true "Tryout ID"
// @Param    tryout body UpdateTryoutRequest true "Fields to update"
// @Success  200 {object} Tryout
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/tryouts/{tryout_id} [put]
// @Security Bearer
func (tc *TryoutController) Update(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("tryout_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid tryout ID")
		return
	}

	t, err := tc.repo.GetTryoutByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}
	if t.CoachID != caller.ID {
		responses.Forbidden(c, "You do not own this tryout")
		return
	}

	var req UpdateTryoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Date != nil {
		t.Date = *req.Date
	}
	if req.StartTime != nil {
		t.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		t.EndTime = *req.EndTime
	}
	if req.RegistrationDeadline != nil {
		t.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.Location != nil {
		t.Location = *req.Location
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.InviteOnly != nil {
		t.InviteOnly = *req.InviteOnly
	}
	if req.RequiredRoles != nil {
		t.RequiredRoles = req.RequiredRoles
	}

	if err := tc.repo.UpdateTryout(t); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateStatus godoc
// @Summary  Change a tryout's lifecycle status
// @Tags     Tryouts
// @Accept   json
// @Produce  json
// @Param    tryout_id path int true "Tryout ID"
// @Param    status body UpdateEventStatusRequest true "New status"
// @Success  200 {object} Tryout
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/tryouts/{tryout_id}/status [patch]
// @Security Bearer
func (tc *TryoutController) UpdateStatus(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("tryout_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid tryout ID")
		return
	}

	var req UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	t, err := tc.repo.GetTryoutByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}
	if t.CoachID != caller.ID {
		responses.Forbidden(c, "You do not own this tryout")
		return
	}

	t.Status = req.Status
	if err := tc.repo.UpdateTryout(t); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListMine godoc
// @Summary  List tryouts owned by the calling coach
// @Tags     Tryouts
// @Produce  json
// @Success  200 {array} Tryout
// @Router   /coach/tryouts [get]
// @Security Bearer
func (tc *TryoutController) ListMine(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	tryouts, err := tc.repo.GetTryoutsByCoachID(caller.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, tryouts)
}

// Register godoc
// @Summary  Register for a tryout
// @Description  Takes one spot atomically; fails with a distinct reason when closed, past deadline, full or already registered.
// @Tags     Tryouts
// @Accept   json
// @Produce  json
// @Param    tryout_id path int true "Tryout ID"
// @Param    registration body RegisterRequest false "Optional notes"
// @Success  201 {object} TryoutRegistration
// @Failure  400 {object} responses.ErrorResponse
// @Failure  404 {object} responses.ErrorResponse
// @Router   /player/tryouts/{tryout_id}/register [post]
// @Security Bearer
func (tc *TryoutController) Register(c *gin.Context) {
	caller, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("tryout_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid tryout ID")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	reg, err := tc.repo.Register(uint(id), caller.ID, req.Notes)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// CancelRegistration godoc
// @Summary  Cancel own registration
// @Tags     Tryouts
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Success  200 {object} TryoutRegistration
// @Failure  400 {object} responses.ErrorResponse
// @Failure  403 {object} responses.ErrorResponse
// @Router   /player/registrations/{registration_id}/cancel [post]
// @Security Bearer
func (tc *TryoutController) CancelRegistration(c *gin.Context) {
	caller, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("registration_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid registration ID")
		return
	}

	reg, err := tc.repo.CancelRegistration(uint(id), caller.ID)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// MyRegistrations godoc
// @Summary  List own tryout registrations
// @Tags     Tryouts
// @Produce  json
// @Success  200 {array} TryoutRegistration
// @Router   /player/registrations [get]
// @Security Bearer
func (tc *TryoutController) MyRegistrations(c *gin.Context) {
	caller, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	regs, err := tc.repo.GetPlayerRegistrations(caller.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// Roster godoc
// @Summary  List registrations for an owned tryout
// @Tags     Tryouts
// @Produce  json
// @Param    tryout_id path int true "Tryout ID"
// @Success  200 {array} TryoutRegistration
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/tryouts/{tryout_id}/registrations [get]
// @Security Bearer
func (tc *TryoutController) Roster(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("tryout_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid tryout ID")
		return
	}

	regs, err := tc.repo.GetTryoutRegistrations(uint(id), caller.ID)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// UpdateRegistrationStatus godoc
// @Summary  Coach-driven registration status change
// @Description  Any transition is allowed; the spot counter is untouched.
// @Tags     Tryouts
// @Accept   json
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Param    status body UpdateRegistrationStatusRequest true "New status"
// @Success  200 {object} TryoutRegistration
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/registrations/{registration_id}/status [patch]
// @Security Bearer
func (tc *TryoutController) UpdateRegistrationStatus(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("registration_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid registration ID")
		return
	}

	var req UpdateRegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	reg, err := tc.repo.UpdateRegistrationStatus(uint(id), caller.ID, req.Status)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// RemoveRegistration godoc
// @Summary  Remove a registration outright
// @Tags     Tryouts
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Success  200 {object} responses.SuccessResponse
// @Failure  403 {object} responses.ErrorResponse
// @Router   /coach/registrations/{registration_id} [delete]
// @Security Bearer
func (tc *TryoutController) RemoveRegistration(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("registration_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid registration ID")
		return
	}

	if err := tc.repo.RemoveRegistration(uint(id), caller.ID); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Registration removed", nil)
}
