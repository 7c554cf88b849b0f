package combine

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/tryout"
	"github.com/nextup-gg/nextup/pkg/responses"
)

// CombineController handles combine browsing, management and registration.
type CombineController struct {
	repo CombineRepository
}

func NewCombineController(repo CombineRepository) *CombineController {
	return &CombineController{repo: repo}
}

func sendRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCombineNotFound):
		responses.NotFound(c, "Combine")
	case errors.Is(err, ErrRegistrationNotFound):
		responses.NotFound(c, "Registration")
	case errors.Is(err, ErrNotOwner):
		responses.Forbidden(c, "You do not own this resource")
	case errors.Is(err, ErrRegistrationClosed):
		responses.BadRequest(c, "Combine is not open for registration")
	case errors.Is(err, ErrDeadlinePassed):
		responses.BadRequest(c, "Registration deadline has passed")
	case errors.Is(err, ErrCombinePassed):
		responses.BadRequest(c, "Combine date has passed")
	case errors.Is(err, ErrCombineFull):
		responses.BadRequest(c, "Combine is full")
	case errors.Is(err, ErrAlreadyRegistered):
		responses.BadRequest(c, "You are already registered for this combine")
	case errors.Is(err, ErrAlreadyCancelled):
		responses.BadRequest(c, "Registration is already cancelled")
	default:
		responses.InternalServerError(c, err)
	}
}

// Browse godoc
// @Summary  Browse combines
// @Tags     Combines
// @Produce  json
// @Param    limit         query int    false "Max items (default: 20, max: 100)"
// @Param    offset        query int    false "Items to skip (default: 0)"
// @Param    game_id       query int    false "Game filter"
// @Param    school_id     query int    false "School filter"
// @Param    type          query string false "Event type filter"
// @Param    state         query string false "School state filter"
// @Param    free_only     query bool   false "Only free events"
// @Param    upcoming_only query bool   false "Only future events"
// @Param    search        query string false "Text search"
// @Success  200 {object} responses.PaginatedResponse{data=[]Combine}
// @Router   /combines [get]
func (cc *CombineController) Browse(c *gin.Context) {
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

	combines, total, err := cc.repo.GetAllCombines(limit, offset, filters)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendPaginated(c, "", combines, total, offset/limit+1, limit)
}

// GetByID godoc
// @Summary  Get a combine
// @Tags     Combines
// @Produce  json
// @Param    combine_id path int true "Combine ID"
// @Success  200 {object} Combine
// @Failure  404 {object} responses.ErrorResponse
// @Router   /combines/{combine_id} [get]
func (cc *CombineController) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("combine_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid combine ID")
		return
	}

	cb, err := cc.repo.GetCombineByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}

	cb.Coach.User.Email = ""
	c.JSON(http.StatusOK, cb)
}

// Create godoc
// @Summary  Create a combine
// @Tags     Combines
// @Accept   json
// @Produce  json
// @Param    combine body CreateCombineRequest true "Combine details"
// @Success  201 {object} Combine
// @Router   /coach/combines [post]
// @Security Bearer
func (cc *CombineController) Create(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req CreateCombineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	eventType := req.Type
	if eventType == "" {
		eventType = tryout.EventTypeInPerson
	}

	cb := &Combine{
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
		Prize:                req.Prize,
		MaxSpots:             req.MaxSpots,
		InviteOnly:           req.InviteOnly,
		Status:               tryout.StatusPublished,
		RequiredRoles:        req.RequiredRoles,
	}
	if err := cc.repo.CreateCombine(cb); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	created, err := cc.repo.GetCombineByID(cb.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary  Update a combine
// @Tags     Combines
// @Accept   json
// @Produce  json
// @Param    combine_id path int true "Combine ID"
// @Param    combine body UpdateCombineRequest true "Fields to update"
// @Success  200 {object} Combine
// @Router   /coach/combines/{combine_id} [put]
// @Security Bearer
func (cc *CombineController) Update(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("combine_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid combine ID")
		return
	}

	cb, err := cc.repo.GetCombineByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}
	if cb.CoachID != caller.ID {
		responses.Forbidden(c, "You do not own this combine")
		return
	}

	var req UpdateCombineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Title != nil {
		cb.Title = *req.Title
	}
	if req.Description != nil {
		cb.Description = *req.Description
	}
	if req.Date != nil {
		cb.Date = *req.Date
	}
	if req.StartTime != nil {
		cb.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		cb.EndTime = *req.EndTime
	}
	if req.RegistrationDeadline != nil {
		cb.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.Location != nil {
		cb.Location = *req.Location
	}
	if req.Type != nil {
		cb.Type = *req.Type
	}
	if req.Price != nil {
		cb.Price = *req.Price
	}
	if req.Prize != nil {
		cb.Prize = *req.Prize
	}
	if req.InviteOnly != nil {
		cb.InviteOnly = *req.InviteOnly
	}
	if req.RequiredRoles != nil {
		cb.RequiredRoles = req.RequiredRoles
	}

	if err := cc.repo.UpdateCombine(cb); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

// UpdateStatus godoc
// @Summary  Change a combine's lifecycle status
// @Tags     Combines
// @Accept   json
// @Produce  json
// @Param    combine_id path int true "Combine ID"
// @Param    status body tryout.UpdateEventStatusRequest true "New status"
// @Success  200 {object} Combine
// @Router   /coach/combines/{combine_id}/status [patch]
// @Security Bearer
func (cc *CombineController) UpdateStatus(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("combine_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid combine ID")
		return
	}

	var req tryout.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	cb, err := cc.repo.GetCombineByID(uint(id))
	if err != nil {
		sendRepoError(c, err)
		return
	}
	if cb.CoachID != caller.ID {
		responses.Forbidden(c, "You do not own this combine")
		return
	}

	cb.Status = req.Status
	if err := cc.repo.UpdateCombine(cb); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

// ListMine godoc
// @Summary  List combines owned by the calling coach
// @Tags     Combines
// @Produce  json
// @Success  200 {array} Combine
// @Router   /coach/combines [get]
// @Security Bearer
func (cc *CombineController) ListMine(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	combines, err := cc.repo.GetCombinesByCoachID(caller.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, combines)
}

// Register godoc
// @Summary  Register for a combine
// @Tags     Combines
// @Accept   json
// @Produce  json
// @Param    combine_id path int true "Combine ID"
// @Param    registration body tryout.RegisterRequest false "Optional notes"
// @Success  201 {object} CombineRegistration
// @Failure  400 {object} responses.ErrorResponse
// @Router   /player/combines/{combine_id}/register [post]
// @Security Bearer
func (cc *CombineController) Register(c *gin.Context) {
	caller, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("combine_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid combine ID")
		return
	}

	var req tryout.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	reg, err := cc.repo.Register(uint(id), caller.ID, req.Notes)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// CancelRegistration godoc
// @Summary  Cancel own combine registration
// @Tags     Combines
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Success  200 {object} CombineRegistration
// @Router   /player/combine-registrations/{registration_id}/cancel [post]
// @Security Bearer
func (cc *CombineController) CancelRegistration(c *gin.Context) {
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

	reg, err := cc.repo.CancelRegistration(uint(id), caller.ID)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// MyRegistrations godoc
// @Summary  List own combine registrations
// @Tags     Combines
// @Produce  json
// @Success  200 {array} CombineRegistration
// @Router   /player/combine-registrations [get]
// @Security Bearer
func (cc *CombineController) MyRegistrations(c *gin.Context) {
	caller, err := player.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	regs, err := cc.repo.GetPlayerRegistrations(caller.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// Roster godoc
// @Summary  List registrations for an owned combine
// @Tags     Combines
// @Produce  json
// @Param    combine_id path int true "Combine ID"
// @Success  200 {array} CombineRegistration
// @Router   /coach/combines/{combine_id}/registrations [get]
// @Security Bearer
func (cc *CombineController) Roster(c *gin.Context) {
	caller, err := coach.FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("combine_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid combine ID")
		return
	}

	regs, err := cc.repo.GetCombineRegistrations(uint(id), caller.ID)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// UpdateRegistration godoc
// @Summary  Coach-driven status/qualification change
// @Tags     Combines
// @Accept   json
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Param    update body UpdateCombineRegistrationRequest true "Status and/or qualified"
// @Success  200 {object} CombineRegistration
// @Router   /coach/combine-registrations/{registration_id} [patch]
// @Security Bearer
func (cc *CombineController) UpdateRegistration(c *gin.Context) {
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

	var req UpdateCombineRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}
	if req.Status == nil && req.Qualified == nil {
		responses.BadRequest(c, "Nothing to update")
		return
	}

	reg, err := cc.repo.UpdateRegistration(uint(id), caller.ID, req.Status, req.Qualified)
	if err != nil {
		sendRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// RemoveRegistration godoc
// @Summary  Remove a combine registration outright
// @Tags     Combines
// @Produce  json
// @Param    registration_id path int true "Registration ID"
// @Success  200 {object} responses.SuccessResponse
// @Router   /coach/combine-registrations/{registration_id} [delete]
// @Security Bearer
func (cc *CombineController) RemoveRegistration(c *gin.Context) {
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

	if err := cc.repo.RemoveRegistration(uint(id), caller.ID); err != nil {
		sendRepoError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Registration removed", nil)
}
