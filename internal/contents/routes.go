package contents

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the content endpoints on g, which is expected to be
// the /contents group.
func RegisterRoutes(g *gin.RouterGroup, contentsService ContentsServiceAPI) {
	contentsController := &ContentsController{Service: contentsService}

	g.GET("", contentsController.GetContentsByType)
	g.POST("/batch", contentsController.BatchUpsert)
	g.PATCH("/:code/status", contentsController.ToggleStatus)

	food := g.Group("/food")
	{
		food.GET("/search/by-categories", contentsController.GetFoodsByCategories)
		food.GET("/recommend", contentsController.RecommendFood)
	}

	for _, t := range AllTypes {
		typed := g.Group("/" + string(t))
		{
			typed.GET("", contentsController.List(t))
			typed.GET("/:code", contentsController.Get(t))
			typed.POST("", contentsController.Create(t))
			typed.PATCH("/:code", contentsController.Update(t))
			typed.DELETE("/:code", contentsController.Delete(t))
			typed.PATCH("/:code/status", contentsController.SetStatus(t))
		}
	}
}
