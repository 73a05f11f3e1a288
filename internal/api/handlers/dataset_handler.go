package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/query"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/service"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
)

type DatasetHandler struct {
	service *service.DatasetService
}

func NewDatasetHandler(service *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

func parseRange(c *gin.Context) (domain.MonthRange, error) {
	return query.ParseRange(strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end")))
}

func parseQuery(c *gin.Context) (domain.CustomerQuery, error) {
	r, err := parseRange(c)
	if err != nil {
		return domain.CustomerQuery{}, err
	}
	mode, err := query.ParseMode(c.Query("mode"))
	if err != nil {
		return domain.CustomerQuery{}, err
	}
	return domain.CustomerQuery{
		Range:  r,
		Mode:   mode,
		Search: strings.TrimSpace(c.Query("q")),
	}, nil
}

// RefreshCustomers re-runs customer ingestion.
func (h *DatasetHandler) RefreshCustomers(c *gin.Context) {
	summary, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		refreshFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"stats": gin.H{
			"months":      summary.MonthsAvailableCount,
			"customers":   summary.EntityCount,
			"generatedAt": summary.GeneratedAt,
		},
		"summary": summary,
	})
}

// RefreshSuppliers re-runs supplier ingestion.
func (h *DatasetHandler) RefreshSuppliers(c *gin.Context) {
	summary, err := h.service.RefreshSuppliers(c.Request.Context())
	if err != nil {
		refreshFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"stats": gin.H{
			"months":      summary.MonthsAvailableCount,
			"suppliers":   summary.EntityCount,
			"generatedAt": summary.GeneratedAt,
		},
		"summary": summary,
	})
}

func (h *DatasetHandler) ListCustomers(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.QueryCustomers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DatasetHandler) GetCustomer(c *gin.Context) {
	r, err := parseRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.service.Customer(c.Param("slug"), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DatasetHandler) ListSuppliers(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.QuerySuppliers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DatasetHandler) GetSupplier(c *gin.Context) {
	r, err := parseRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.service.Supplier(c.Param("slug"), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func refreshFailed(c *gin.Context, err error) {
	logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("refresh failed")
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, query.ErrInvalidMonth),
		errors.Is(err, query.ErrInvalidRange),
		errors.Is(err, query.ErrUnknownMode):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNoDataset):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
