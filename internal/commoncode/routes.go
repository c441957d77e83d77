package commoncode

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, commonCodeService CommonCodeServiceAPI) {
	commonCodeController := &CommonCodeController{Service: commonCodeService}

	group := r.Group("/common-code")
	{
		group.GET("", commonCodeController.GetAllMasters)
		group.GET("/master/:masterCode", commonCodeController.GetMasterByCode)
		group.GET("/:masterCode", commonCodeController.GetCodesByMaster)
	}
}

// RegisterAdminRoutes mounts the taxonomy management endpoints on the
// /contents group.
func RegisterAdminRoutes(g *gin.RouterGroup, commonCodeService CommonCodeServiceAPI) {
	commonCodeController := &CommonCodeController{Service: commonCodeService}

	common := g.Group("/common")
	{
		common.GET("/masters", commonCodeController.GetAllMasters)
		common.POST("/masters", commonCodeController.CreateMaster)
		common.PATCH("/masters/:seq", commonCodeController.UpdateMaster)
		common.DELETE("/masters/:seq", commonCodeController.DeleteMaster)

		common.GET("/details/:masterCode", commonCodeController.GetCodesByMaster)
		common.POST("/details", commonCodeController.CreateDetail)
		common.PATCH("/details/:seq", commonCodeController.UpdateDetail)
		common.DELETE("/details/:seq", commonCodeController.DeleteDetail)

		common.POST("/schema/refresh", commonCodeController.RefreshSchema)
	}
}
