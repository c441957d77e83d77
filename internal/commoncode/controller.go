package commoncode

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CommonCodeController struct {
	Service CommonCodeServiceAPI
}

func errorStatus(err error) int {
	if errors.Is(err, ErrUnknownField) || errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrMissingField) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func bindInput(c *gin.Context) (map[string]any, error) {
	input := map[string]any{}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return input, nil
}

func seqParam(c *gin.Context) (int, bool) {
	seq, err := strconv.Atoi(strings.TrimSpace(c.Param("seq")))
	if err != nil || seq <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid seq is required"})
		return 0, false
	}
	return seq, true
}

func (cc *CommonCodeController) GetAllMasters(c *gin.Context) {
	masters, err := cc.Service.GetAllMasters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, masters)
}

func (cc *CommonCodeController) GetMasterByCode(c *gin.Context) {
	master, err := cc.Service.GetMasterByCode(strings.TrimSpace(c.Param("masterCode")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if master == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, master)
}

func (cc *CommonCodeController) GetCodesByMaster(c *gin.Context) {
	details, err := cc.Service.GetCodesByMaster(strings.TrimSpace(c.Param("masterCode")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (cc *CommonCodeController) CreateMaster(c *gin.Context) {
	input, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	master, err := cc.Service.CreateMaster(input)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, master)
}

func (cc *CommonCodeController) UpdateMaster(c *gin.Context) {
	seq, ok := seqParam(c)
	if !ok {
		return
	}
	input, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	master, err := cc.Service.UpdateMaster(seq, input)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if master == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, master)
}

func (cc *CommonCodeController) DeleteMaster(c *gin.Context) {
	seq, ok := seqParam(c)
	if !ok {
		return
	}
	if err := cc.Service.DeleteMaster(seq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (cc *CommonCodeController) CreateDetail(c *gin.Context) {
	input, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	detail, err := cc.Service.CreateDetail(input)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (cc *CommonCodeController) UpdateDetail(c *gin.Context) {
	seq, ok := seqParam(c)
	if !ok {
		return
	}
	input, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	detail, err := cc.Service.UpdateDetail(seq, input)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (cc *CommonCodeController) DeleteDetail(c *gin.Context) {
	seq, ok := seqParam(c)
	if !ok {
		return
	}
	if err := cc.Service.DeleteDetail(seq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (cc *CommonCodeController) RefreshSchema(c *gin.Context) {
	cc.Service.InvalidateSchemaCache()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
