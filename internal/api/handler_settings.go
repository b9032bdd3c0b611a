package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

// CreateOrganization registers a tenant with the configured rule defaults.
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := model.Organization{
		Name:                     req.Name,
		Domain:                   req.Domain,
		BaseURL:                  req.BaseURL,
		MaxReservationDays:       h.rules.DefaultMaxReservationDays,
		MinAdvanceHours:          h.rules.DefaultMinAdvanceHours,
		PreventiveIntervalMonths: h.rules.DefaultPreventiveIntervalMonths,
		NotifyReservations:       true,
		NotifyPosterRequests:     true,
		NotifyMaintenance:        true,
	}
	if org.MaxReservationDays <= 0 {
		org.MaxReservationDays = rules.DefaultMaxReservationDays
	}
	if org.PreventiveIntervalMonths <= 0 {
		org.PreventiveIntervalMonths = rules.DefaultPreventiveIntervalMonths
	}
	if err := h.store.CreateOrganization(c.Request.Context(), &org); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrganizationView(&org))
}

// GetSettings returns the current organization's settings.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, newOrganizationView(mw.CurrentOrganization(c)))
}

// PutSettings replaces the current organization's settings.
func (h *Handler) PutSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org, err := h.store.UpdateSettings(c.Request.Context(), mw.CurrentOrganization(c).ID, store.Settings{
		Name:                     req.Name,
		Domain:                   req.Domain,
		BaseURL:                  req.BaseURL,
		MaxReservationDays:       req.MaxReservationDays,
		MinAdvanceHours:          req.MinAdvanceHours,
		PreventiveIntervalMonths: req.PreventiveIntervalMonths,
		NotifyReservations:       req.NotifyReservations,
		NotifyPosterRequests:     req.NotifyPosterRequests,
		NotifyMaintenance:        req.NotifyMaintenance,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrganizationView(org))
}
