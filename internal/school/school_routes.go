package school

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterSchoolRoutes(router *gin.RouterGroup, db *gorm.DB) {
	repo := NewSchoolRepository(db)
	controller := NewSchoolController(repo)

	schools := router.Group("/schools")
	{
		schools.GET("", controller.GetAllSchools)
		schools.GET("/:school_id", controller.GetSchoolByID)
	}
}
