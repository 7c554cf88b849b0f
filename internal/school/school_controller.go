package school

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextup-gg/nextup/pkg/responses"
)

// SchoolController handles public school browsing.
type SchoolController struct {
	repo SchoolRepository
}

func NewSchoolController(repo SchoolRepository) *SchoolController {
	return &SchoolController{repo: repo}
}

// GetAllSchools godoc
// @Summary  List schools
// @Tags     Schools
// @Produce  json
// @Param    page    query int    false "Page number (default: 1)"
// @Param    limit   query int    false "Items per page (default: 20, max: 100)"
// @Param    type    query string false "School type filter"
// @Param    state   query string false "State filter"
// @Param    search  query string false "Name/location substring search"
// @Success  200 {object} responses.PaginatedResponse{data=[]School}
// @Router   /schools [get]
func (sc *SchoolController) GetAllSchools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := make(map[string]interface{})
	if t := c.Query("type"); t != "" {
		filters["type"] = t
	}
	if state := c.Query("state"); state != "" {
		filters["state"] = state
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	schools, total, err := sc.repo.GetAllSchools(page, limit, filters)
	if err != nil {
		responses.InternalServerError(c, err)
		return
	}

	responses.SendPaginated(c, "", schools, total, page, limit)
}

// GetSchoolByID godoc
// @Summary  Get a school
// @Tags     Schools
// @Produce  json
// @Param    school_id path int true "School ID"
// @Success  200 {object} School
// @Failure  404 {object} responses.ErrorResponse
// @Router   /schools/{school_id} [get]
func (sc *SchoolController) GetSchoolByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("school_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "invalid school ID")
		return
	}

	s, err := sc.repo.GetSchoolByID(uint(id))
	if err != nil {
		if err == ErrSchoolNotFound {
			responses.NotFound(c, "School")
		} else {
			responses.InternalServerError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, s)
}
