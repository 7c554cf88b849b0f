package league

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/pkg/responses"
	"github.com/nextup-gg/nextup/pkg/webhook"
)

// LeagueController handles league directory, roster and admin requests.
type LeagueController struct {
	repo       LeagueRepository
	schoolRepo school.SchoolRepository
	notifier   *webhook.DiscordNotifier
}

func NewLeagueController(repo LeagueRepository, schoolRepo school.SchoolRepository, notifier *webhook.DiscordNotifier) *LeagueController {
	return &LeagueController{repo: repo, schoolRepo: schoolRepo, notifier: notifier}
}

// GetAllLeagues godoc
// @Summary  List leagues
// @Tags     Leagues
// @Produce  json
// @Param    state query string false "Filter by state"
// @Param    tier query string false "Filter by tier"
// @Param    search query string false "Search by name"
// @Param    page query int false "Page number"
// @Param    limit query int false "Page size"
// @Success  200 {object} responses.PaginatedResponse
// @Router   /leagues [get]
func (lc *LeagueController) GetAllLeagues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := make(map[string]interface{})
	if state := c.Query("state"); state != "" {
		filters["state"] = state
	}
	if tier := c.Query("tier"); tier != "" {
		filters["tier"] = tier
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	leagues, total, err := lc.repo.GetAllLeagues(filters, page, limit)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	responses.SendPaginated(c, "Leagues retrieved successfully", leagues, total, page, limit)
}

// GetLeagueByID godoc
// @Summary  Get a league with its member schools
// @Tags     Leagues
// @Produce  json
// @Param    league_id path int true "League ID"
// @Success  200 {object} responses.SuccessResponse
// @Failure  404 {object} responses.ErrorResponse
// @Router   /leagues/{league_id} [get]
func (lc *LeagueController) GetLeagueByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("league_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid league ID")
		return
	}

	l, err := lc.repo.GetLeagueByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrLeagueNotFound) {
			responses.NotFound(c, "League")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	schools, err := lc.repo.GetLeagueSchools(l.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "League retrieved successfully", gin.H{
		"league":  l,
		"schools": schools,
	})
}

// CreateLeague godoc
// @Summary  Create a league
// @Description  Creates a league entry. Open to any authenticated user; the creator typically onboards as its admin next.
// @Tags     Leagues
// @Accept   json
// @Produce  json
// @Param    league body CreateLeagueRequest true "League"
// @Success  201 {object} League
// @Failure  409 {object} responses.ErrorResponse
// @Router   /leagues [post]
// @Security Bearer
func (lc *LeagueController) CreateLeague(c *gin.Context) {
	if _, err := middleware.GetUserIDFromContext(c); err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req CreateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	l := &League{
		Name:    req.Name,
		Tier:    req.Tier,
		State:   req.State,
		Season:  req.Season,
		Bio:     req.Bio,
		Website: req.Website,
		LogoURL: req.LogoURL,
	}
	if err := lc.repo.CreateLeague(l); err != nil {
		if errors.Is(err, ErrLeagueNameTaken) {
			responses.SendError(c, http.StatusConflict, err.Error())
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, l)
}

// Onboard godoc
// @Summary  Create the caller's league admin profile
// @Tags     LeagueAdmin
// @Accept   json
// @Produce  json
// @Param    profile body OnboardLeagueAdminRequest true "League admin profile"
// @Success  201 {object} LeagueAdmin
// @Failure  404 {object} responses.ErrorResponse
// @Failure  409 {object} responses.ErrorResponse
// @Router   /league/onboard [post]
// @Security Bearer
func (lc *LeagueController) Onboard(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req OnboardLeagueAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := lc.repo.GetLeagueAdminByUserID(userID); !errors.Is(err, ErrLeagueAdminNotFound) {
		if err == nil {
			responses.SendError(c, http.StatusConflict, "A league admin profile already exists for this account")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	profile := &LeagueAdmin{
		UserID:   userID,
		LeagueID: req.LeagueID,
		Title:    req.Title,
	}
	if err := lc.repo.CreateLeagueAdmin(profile); err != nil {
		if errors.Is(err, ErrLeagueNotFound) {
			responses.NotFound(c, "League")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	created, err := lc.repo.GetLeagueAdminByUserID(userID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProfile godoc
// @Summary  Get own league admin profile
// @Tags     LeagueAdmin
// @Produce  json
// @Success  200 {object} LeagueAdmin
// @Failure  403 {object} responses.ErrorResponse
// @Router   /league/profile [get]
// @Security Bearer
func (lc *LeagueController) GetProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary  Update own league admin profile
// @Tags     LeagueAdmin
// @Accept   json
// @Produce  json
// @Param    profile body UpdateLeagueAdminRequest true "Fields to update"
// @Success  200 {object} LeagueAdmin
// @Router   /league/profile [put]
// @Security Bearer
func (lc *LeagueController) UpdateProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req UpdateLeagueAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Title != nil {
		profile.Title = *req.Title
	}
	if err := lc.repo.UpdateLeagueAdmin(profile); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AddSchool godoc
// @Summary  Add a school to the admin's league
// @Tags     LeagueAdmin
// @Accept   json
// @Produce  json
// @Param    membership body AddLeagueSchoolRequest true "School to add"
// @Success  201 {object} LeagueSchool
// @Failure  404 {object} responses.ErrorResponse
// @Failure  409 {object} responses.ErrorResponse
// @Router   /league/schools [post]
// @Security Bearer
func (lc *LeagueController) AddSchool(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req AddLeagueSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := lc.schoolRepo.GetSchoolByID(req.SchoolID); err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			responses.NotFound(c, "School")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	membership, err := lc.repo.AddSchool(profile.LeagueID, req.SchoolID)
	if err != nil {
		if errors.Is(err, ErrSchoolAlreadyMember) {
			responses.SendError(c, http.StatusConflict, err.Error())
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, membership)
}

// RemoveSchool godoc
// @Summary  Remove a school from the admin's league
// @Tags     LeagueAdmin
// @Produce  json
// @Param    school_id path int true "School ID"
// @Success  200 {object} responses.SuccessResponse
// @Failure  404 {object} responses.ErrorResponse
// @Router   /league/schools/{school_id} [delete]
// @Security Bearer
func (lc *LeagueController) RemoveSchool(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	schoolID, err := strconv.ParseUint(c.Param("school_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid school ID")
		return
	}

	if err := lc.repo.RemoveSchool(profile.LeagueID, uint(schoolID)); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			responses.NotFound(c, "League membership")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}
	responses.SendSuccess(c, http.StatusOK, "School removed from league", nil)
}

// GetSchools godoc
// @Summary  List the admin's league schools
// @Tags     LeagueAdmin
// @Produce  json
// @Success  200 {object} responses.SuccessResponse
// @Router   /league/schools [get]
// @Security Bearer
func (lc *LeagueController) GetSchools(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	memberships, err := lc.repo.GetLeagueSchools(profile.LeagueID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "League schools retrieved successfully", memberships)
}

// CreateTryoutRequest godoc
// @Summary  Submit a request for the platform to host an event
// @Description  Persists the request and notifies the operations channel. Notification failures never fail the request.
// @Tags     LeagueAdmin
// @Accept   json
// @Produce  json
// @Param    request body CreateTryoutRequestRequest true "Hosting request"
// @Success  201 {object} TryoutRequest
// @Router   /league/tryout-requests [post]
// @Security Bearer
func (lc *LeagueController) CreateTryoutRequest(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req CreateTryoutRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	tr := &TryoutRequest{
		LeagueAdminID: profile.ID,
		GameID:        req.GameID,
		Title:         req.Title,
		Description:   req.Description,
		PreferredDate: req.PreferredDate,
		ExpectedSpots: req.ExpectedSpots,
		Status:        RequestPending,
	}
	if err := lc.repo.CreateTryoutRequest(tr); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	fields := []webhook.Field{
		{Name: "League", Value: profile.League.Name},
		{Name: "Title", Value: tr.Title},
		{Name: "Request ID", Value: fmt.Sprintf("%d", tr.ID)},
	}
	if tr.PreferredDate != nil {
		fields = append(fields, webhook.Field{Name: "Preferred date", Value: tr.PreferredDate.Format("2006-01-02")})
	}
	if tr.ExpectedSpots > 0 {
		fields = append(fields, webhook.Field{Name: "Expected spots", Value: strconv.Itoa(tr.ExpectedSpots)})
	}
	go lc.notifier.NotifyEmbed("New tryout hosting request", fields)

	c.JSON(http.StatusCreated, tr)
}

// GetTryoutRequests godoc
// @Summary  List the admin's hosting requests
// @Tags     LeagueAdmin
// @Produce  json
// @Success  200 {object} responses.SuccessResponse
// @Router   /league/tryout-requests [get]
// @Security Bearer
func (lc *LeagueController) GetTryoutRequests(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	requests, err := lc.repo.GetTryoutRequests(profile.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Tryout requests retrieved successfully", requests)
}
