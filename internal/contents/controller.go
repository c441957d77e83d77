package contents

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"picklab-api/internal/util"
)

type ContentsController struct {
	Service ContentsServiceAPI
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrBatchTooLarge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// bindInput decodes a JSON object body; an empty body is an empty input.
func bindInput(c *gin.Context) (map[string]any, error) {
	input := map[string]any{}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return input, nil
}

func (cc *ContentsController) List(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := cc.Service.ListContents(t)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (cc *ContentsController) Get(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := cc.Service.GetContent(t, strings.TrimSpace(c.Param("code")))
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func (cc *ContentsController) Create(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := bindInput(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		row, err := cc.Service.CreateContent(t, input)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func (cc *ContentsController) Update(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := bindInput(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		row, err := cc.Service.UpdateContent(t, strings.TrimSpace(c.Param("code")), input)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func (cc *ContentsController) Delete(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cc.Service.DeleteContent(t, strings.TrimSpace(c.Param("code"))); err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// SetStatus is the typed status change; ToggleStatus probes every table.
func (cc *ContentsController) SetStatus(t ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		cc.changeStatus(c, func(code string, active bool) (*ToggleResult, error) {
			return cc.Service.SetContentStatus(t, code, active)
		})
	}
}

func (cc *ContentsController) ToggleStatus(c *gin.Context) {
	cc.changeStatus(c, cc.Service.ToggleContentStatus)
}

func (cc *ContentsController) changeStatus(c *gin.Context, apply func(code string, active bool) (*ToggleResult, error)) {
	input, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	// a missing isActive deactivates
	var active bool
	if raw, present := util.NormalizeKeys(input)["is_active"]; present && raw != nil {
		v, ok := raw.(bool)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive must be a boolean"})
			return
		}
		active = v
	}

	res, err := apply(strings.TrimSpace(c.Param("code")), active)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *ContentsController) GetContentsByType(c *gin.Context) {
	res, err := cc.Service.GetContentsByType(strings.TrimSpace(c.Query("type")))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *ContentsController) GetFoodsByCategories(c *gin.Context) {
	var filter CategoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := cc.Service.GetFoodsByCategories(filter)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (cc *ContentsController) RecommendFood(c *gin.Context) {
	var filter CategoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := cc.Service.RecommendFood(filter)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if row == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (cc *ContentsController) BatchUpsert(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	res, err := cc.Service.BatchUpsert(req.Items)
	if errors.Is(err, ErrBatchTooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 100 items per batch"})
		return
	}
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
