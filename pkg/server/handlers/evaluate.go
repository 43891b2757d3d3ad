package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planetdyn/shtk"
	"github.com/planetdyn/shtk/pkg/server/dto"
	"github.com/planetdyn/shtk/pkg/sh"
	"github.com/planetdyn/shtk/pkg/types"
)

// EvaluateHandler handles evaluation and synthesis requests
type EvaluateHandler struct {
	toolkit shtk.Toolkit
}

// NewEvaluateHandler creates a new evaluate handler
func NewEvaluateHandler(tk shtk.Toolkit) *EvaluateHandler {
	return &EvaluateHandler{toolkit: tk}
}

// Evaluate handles POST /api/v1/evaluate
func (h *EvaluateHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	val, err := h.toolkit.EvalPoint(c.Request.Context(), req.Model, req.Lat, req.Lon)
	if err != nil {
		c.JSON(evalStatus(err), dto.ErrorResponse{Error: "evaluation_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EvaluateResponse{
		Model: req.Model,
		Lat:   req.Lat,
		Lon:   req.Lon,
		Value: val,
	})
}

// Expand handles POST /api/v1/expand
func (h *EvaluateHandler) Expand(c *gin.Context) {
	var req dto.ExpandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	grid, err := h.toolkit.Expand(c.Request.Context(), req.Model, &sh.ExpandOptions{
		Sampling: req.Sampling,
		Extend:   req.Extend,
		LMaxCalc: req.LMaxCalc,
	})
	if err != nil {
		c.JSON(evalStatus(err), dto.ErrorResponse{Error: "expand_failed", Message: err.Error()})
		return
	}

	resp := dto.ExpandResponse{
		Model: req.Model,
		NLat:  grid.NLat,
		NLon:  grid.NLon,
		LMax:  grid.LMax,
	}
	if req.Export {
		path, err := h.toolkit.ExportGrid(c.Request.Context(), grid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "export_failed", Message: err.Error()})
			return
		}
		resp.Path = path
	}
	c.JSON(http.StatusOK, resp)
}

// Verify handles POST /api/v1/verify
func (h *EvaluateHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	res, err := h.toolkit.Verify(c.Request.Context(), req.Model, types.Check{
		Lat: req.Lat, Lon: req.Lon, Want: req.Want, Tol: req.Tol,
	})
	if err != nil {
		c.JSON(evalStatus(err), dto.ErrorResponse{Error: "verify_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func evalStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrLatOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
