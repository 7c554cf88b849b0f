package player

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nextup-gg/nextup/config"
	"github.com/nextup-gg/nextup/internal/middleware"
	"github.com/nextup-gg/nextup/pkg/responses"
)

const connectStateTTL = 15 * time.Minute

// PlayerController handles player profile, search and account linking.
type PlayerController struct {
	repo      PlayerRepository
	providers ProviderClient
	appConfig *config.Config
}

func NewPlayerController(repo PlayerRepository, providers ProviderClient, appConfig *config.Config) *PlayerController {
	return &PlayerController{repo: repo, providers: providers, appConfig: appConfig}
}

// Onboard godoc
// @Summary  Create the caller's player profile
// @Tags     PlayerProfile
// @Accept   json
// @Produce  json
// @Param    profile body OnboardPlayerRequest true "Player profile"
// @Success  201 {object} Player
// @Failure  409 {object} responses.ErrorResponse
// @Router   /player/onboard [post]
// @Security Bearer
func (pc *PlayerController) Onboard(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req OnboardPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := pc.repo.GetPlayerByUserID(userID); !errors.Is(err, ErrPlayerNotFound) {
		if err == nil {
			responses.SendError(c, http.StatusConflict, "A player profile already exists for this account")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	profile := &Player{
		UserID:     userID,
		Gamertag:   req.Gamertag,
		ClassYear:  req.ClassYear,
		State:      req.State,
		Location:   req.Location,
		GPA:        req.GPA,
		Bio:        req.Bio,
		MainGameID: req.MainGameID,
		SchoolID:   req.SchoolID,
		Roles:      req.Roles,
	}
	if err := pc.repo.CreatePlayer(profile); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	created, err := pc.repo.GetPlayerByID(profile.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProfile godoc
// @Summary  Get own player profile
// @Tags     PlayerProfile
// @Produce  json
// @Success  200 {object} Player
// @Router   /player/profile [get]
// @Security Bearer
func (pc *PlayerController) GetProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary  Update own player profile
// @Tags     PlayerProfile
// @Accept   json
// @Produce  json
// @Param    profile body UpdatePlayerRequest true "Fields to update"
// @Success  200 {object} Player
// @Router   /player/profile [put]
// @Security Bearer
func (pc *PlayerController) UpdateProfile(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if req.Gamertag != nil {
		profile.Gamertag = *req.Gamertag
	}
	if req.ClassYear != nil {
		profile.ClassYear = *req.ClassYear
	}
	if req.State != nil {
		profile.State = *req.State
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.GPA != nil {
		profile.GPA = req.GPA
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.MainGameID != nil {
		profile.MainGameID = req.MainGameID
	}
	if req.SchoolID != nil {
		profile.SchoolID = req.SchoolID
	}
	if req.Roles != nil {
		profile.Roles = req.Roles
	}
	if req.SocialLinks != nil {
		profile.SocialLinks = *req.SocialLinks
	}

	if err := pc.repo.UpdatePlayer(profile); err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPlayerByID godoc
// @Summary  Public player view
// @Tags     PlayerProfile
// @Produce  json
// @Param    player_id path int true "Player ID"
// @Success  200 {object} Player
// @Failure  404 {object} responses.ErrorResponse
// @Router   /players/{player_id} [get]
func (pc *PlayerController) GetPlayerByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("player_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid player ID")
		return
	}

	profile, err := pc.repo.GetPlayerByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			responses.NotFound(c, "Player")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	// Public projection hides the account email.
	profile.User.Email = ""
	c.JSON(http.StatusOK, profile)
}

// SearchPlayers godoc
// @Summary  Search recruitable players
// @Description  Coach-facing search with recruiting filters.
// @Tags     PlayerProfile
// @Produce  json
// @Param    page       query int    false "Page number (default: 1)"
// @Param    limit      query int    false "Items per page (default: 20, max: 100)"
// @Param    game_id    query int    false "Main game filter"
// @Param    class_year query string false "Class year filter"
// @Param    state      query string false "State filter"
// @Param    school_id  query int    false "School filter"
// @Param    min_gpa    query number false "Minimum GPA"
// @Param    search     query string false "Gamertag/name substring search"
// @Success  200 {object} responses.PaginatedResponse{data=[]Player}
// @Router   /coach/players/search [get]
// @Security Bearer
func (pc *PlayerController) SearchPlayers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
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
	if classYear := c.Query("class_year"); classYear != "" {
		filters["class_year"] = classYear
	}
	if state := c.Query("state"); state != "" {
		filters["state"] = state
	}
	if schoolID := c.Query("school_id"); schoolID != "" {
		id, err := strconv.ParseUint(schoolID, 10, 32)
		if err != nil {
			responses.BadRequest(c, "invalid school_id parameter")
			return
		}
		filters["school_id"] = uint(id)
	}
	if minGPA := c.Query("min_gpa"); minGPA != "" {
		gpa, err := strconv.ParseFloat(minGPA, 64)
		if err != nil {
			responses.BadRequest(c, "invalid min_gpa parameter")
			return
		}
		filters["min_gpa"] = gpa
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	players, total, err := pc.repo.SearchPlayers(page, limit, filters)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	// Coaches see profiles, not account emails.
	for i := range players {
		players[i].User.Email = ""
	}

	responses.SendPaginated(c, "", players, total, page, limit)
}

// ListPlatformAccounts godoc
// @Summary  List own linked gaming accounts
// @Tags     PlatformAccounts
// @Produce  json
// @Success  200 {array} PlatformAccount
// @Router   /player/platform-accounts [get]
// @Security Bearer
func (pc *PlayerController) ListPlatformAccounts(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	accounts, err := pc.repo.GetPlatformAccounts(profile.ID)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// StartConnect godoc
// @Summary  Begin linking an external gaming account
// @Description  Issues a one-shot state token for the provider OAuth flow.
// @Tags     PlatformAccounts
// @Accept   json
// @Produce  json
// @Param    connect body ConnectAccountRequest true "Provider"
// @Success  200 {object} ConnectAccountResponse
// @Router   /player/platform-accounts/connect [post]
// @Security Bearer
func (pc *PlayerController) StartConnect(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	var req ConnectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	state := uuid.NewString()
	cs := &ConnectState{
		State:     state,
		PlayerID:  profile.ID,
		Provider:  req.Provider,
		ExpiresAt: time.Now().Add(connectStateTTL),
	}
	if err := pc.repo.CreateConnectState(cs); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConnectAccountResponse{
		State:       state,
		RedirectURL: fmt.Sprintf("%s/connect/%s?state=%s", pc.appConfig.App.FrontendURL, req.Provider, state),
	})
}

// ConnectCallback godoc
// @Summary  Complete linking an external gaming account
// @Description  Consumes the state token, fetches the provider profile and persists the linked account.
// @Tags     PlatformAccounts
// @Produce  json
// @Param    state query string true "State token from StartConnect"
// @Param    code  query string true "Provider authorization code"
// @Success  200 {object} PlatformAccount
// @Failure  400 {object} responses.ErrorResponse
// @Router   /player/platform-accounts/callback [get]
// @Security Bearer
func (pc *PlayerController) ConnectCallback(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		responses.BadRequest(c, "state and code are required")
		return
	}

	cs, err := pc.repo.ConsumeConnectState(state)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			responses.BadRequest(c, "Connect attempt not found or expired")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}
	if cs.PlayerID != profile.ID {
		responses.Forbidden(c, "This connect attempt belongs to another player")
		return
	}

	fetched, err := pc.providers.FetchProfile(c.Request.Context(), cs.Provider, code)
	if err != nil {
		log.Warn().Err(err).Str("provider", cs.Provider).Uint("player_id", profile.ID).Msg("provider profile fetch failed")
		responses.BadRequest(c, "Could not fetch profile from provider")
		return
	}

	account := &PlatformAccount{
		PlayerID:    profile.ID,
		Provider:    cs.Provider,
		ExternalID:  fetched.ExternalID,
		Handle:      fetched.Handle,
		ProfileData: fetched.Raw,
		ConnectedAt: time.Now(),
	}
	if err := pc.repo.SavePlatformAccount(account); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// DisconnectAccount godoc
// @Summary  Unlink an external gaming account
// @Description  Calls the provider cleanup route best-effort, then removes the link.
// @Tags     PlatformAccounts
// @Produce  json
// @Param    account_id path int true "Platform account ID"
// @Success  200 {object} responses.SuccessResponse
// @Failure  403 {object} responses.ErrorResponse
// @Failure  404 {object} responses.ErrorResponse
// @Router   /player/platform-accounts/{account_id} [delete]
// @Security Bearer
func (pc *PlayerController) DisconnectAccount(c *gin.Context) {
	profile, err := FromContext(c)
	if err != nil {
		responses.Forbidden(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid account ID")
		return
	}

	account, err := pc.repo.GetPlatformAccountByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			responses.NotFound(c, "Platform account")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}
	if account.PlayerID != profile.ID {
		responses.Forbidden(c, "You can only disconnect your own accounts")
		return
	}

	// Provider-side cleanup must not block the unlink.
	if err := pc.providers.Cleanup(c.Request.Context(), account.Provider, account.ExternalID); err != nil {
		log.Warn().Err(err).Str("provider", account.Provider).Uint("player_id", profile.ID).Msg("provider cleanup failed")
	}

	if err := pc.repo.DeletePlatformAccount(account.ID); err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Account disconnected", nil)
}
