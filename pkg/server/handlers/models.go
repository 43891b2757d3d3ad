package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planetdyn/shtk"
	"github.com/planetdyn/shtk/pkg/server/dto"
	"github.com/planetdyn/shtk/pkg/types"
)

// ModelsHandler handles model management requests
type ModelsHandler struct {
	toolkit shtk.Toolkit
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(tk shtk.Toolkit) *ModelsHandler {
	return &ModelsHandler{toolkit: tk}
}

// Load handles POST /api/v1/models
func (h *ModelsHandler) Load(c *gin.Context) {
	var req dto.LoadModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	coeffs, err := h.toolkit.LoadModel(c.Request.Context(), req.Name, req.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrModelNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.ErrorResponse{Error: "load_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, modelInfo(coeffs))
}

// List handles GET /api/v1/models
func (h *ModelsHandler) List(c *gin.Context) {
	names := h.toolkit.ListModels(c.Request.Context())
	infos := make([]dto.ModelInfo, 0, len(names))
	for _, name := range names {
		coeffs, err := h.toolkit.GetModel(c.Request.Context(), name)
		if err != nil {
			continue
		}
		infos = append(infos, modelInfo(coeffs))
	}
	c.JSON(http.StatusOK, gin.H{"models": infos})
}

// Get handles GET /api/v1/models/:name
func (h *ModelsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	coeffs, err := h.toolkit.GetModel(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, modelInfo(coeffs))
}

// Remove handles DELETE /api/v1/models/:name
func (h *ModelsHandler) Remove(c *gin.Context) {
	name := c.Param("name")
	if err := h.toolkit.RemoveModel(c.Request.Context(), name); err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Result{Success: true})
}

func modelInfo(coeffs *types.Coeffs) dto.ModelInfo {
	return dto.ModelInfo{
		Name:  coeffs.Name,
		LMax:  coeffs.LMax,
		Norm:  coeffs.Norm.String(),
		Units: coeffs.Units,
	}
}
