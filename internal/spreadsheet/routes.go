package spreadsheet

import (
	"github.com/gin-gonic/gin"

	"picklab-api/internal/contents"
)

// RegisterRoutes mounts export/import under the /contents group. Archive
// endpoints are only added when withArchive is set.
func RegisterRoutes(g *gin.RouterGroup, spreadsheetService SpreadsheetServiceAPI, withArchive bool) {
	spreadsheetController := &SpreadsheetController{Service: spreadsheetService}

	for _, t := range contents.AllTypes {
		typed := g.Group("/" + string(t))
		{
			typed.GET("/export", spreadsheetController.Export(t))
			typed.POST("/import", spreadsheetController.Import(t))
			if withArchive {
				typed.POST("/export/archive", spreadsheetController.Archive(t))
			}
		}
	}

	if withArchive {
		g.GET("/exports", spreadsheetController.ListArchives)
	}
}
