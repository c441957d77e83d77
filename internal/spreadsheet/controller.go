package spreadsheet

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"picklab-api/internal/contents"
)

type SpreadsheetController struct {
	Service SpreadsheetServiceAPI
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, contents.ErrUnknownType),
		errors.Is(err, ErrEmptyWorkbook),
		errors.Is(err, ErrInvalidWorkbook),
		errors.Is(err, ErrTooManyRows):
		return http.StatusBadRequest
	case errors.Is(err, ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (sc *SpreadsheetController) Export(t contents.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := sc.Service.Export(t)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, t))
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

func (sc *SpreadsheetController) Import(t contents.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		result, err := sc.Service.Import(t, file)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (sc *SpreadsheetController) Archive(t contents.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		archived, err := sc.Service.Archive(c.Request.Context(), t)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, archived)
	}
}

func (sc *SpreadsheetController) ListArchives(c *gin.Context) {
	objects, err := sc.Service.ListArchives(c.Request.Context(), c.Query("type"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": objects, "total": len(objects)})
}
