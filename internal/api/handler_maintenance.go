package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/notification"
	"presentoir-backend/internal/parse"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

// AddMaintenance records an intervention. Curative records default to
// pending, preventive ones to completed.
func (h *Handler) AddMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}

	rec := model.MaintenanceRecord{
		StandID:     stand.ID,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
		Issues:      req.Issues,
	}
	if rec.Status == "" {
		rec.Status = string(rules.MaintenanceCompleted)
		if req.Type == string(rules.MaintenanceCurative) {
			rec.Status = string(rules.MaintenancePending)
		}
	}
	if date, ok := parse.Timestamp(req.Date); ok {
		rec.Date = date
	} else {
		rec.Date = h.now()
	}
	if rec.Status == string(rules.MaintenanceCompleted) {
		completed := rec.Date
		rec.CompletedAt = &completed
	}

	if err := h.store.AddMaintenance(c.Request.Context(), &rec, req.PerformedBy); err != nil {
		renderErr(c, err)
		return
	}

	if rec.Type == string(rules.MaintenanceCurative) && rec.Status == string(rules.MaintenancePending) {
		h.notifyProblem(c, org, stand, rec.Description)
	}
	h.reloadAndPublish(c, org, stand.ID)
	c.JSON(http.StatusCreated, newMaintenanceView(rec))
}

// UpdateMaintenance moves a maintenance record to a new status, e.g. when a
// reported problem is fixed.
func (h *Handler) UpdateMaintenance(c *gin.Context) {
	var req updateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}

	completedAt := optionalDate(req.CompletedAt)
	if completedAt == nil && req.Status == string(rules.MaintenanceCompleted) {
		now := h.now()
		completedAt = &now
	}
	rec, err := h.store.UpdateMaintenance(c.Request.Context(), stand.ID, c.Param("recordID"), store.MaintenanceUpdate{
		Status:      req.Status,
		PerformedBy: req.PerformedBy,
		Resolution:  req.Resolution,
		CompletedAt: completedAt,
	})
	if err != nil {
		renderErr(c, err)
		return
	}

	h.reloadAndPublish(c, org, stand.ID)
	c.JSON(http.StatusOK, newMaintenanceView(*rec))
}

func (h *Handler) notifyProblem(c *gin.Context, org *model.Organization, stand *model.Stand, description string) {
	h.notify(c, notification.Notice{
		OrganizationID: org.ID,
		Topic:          notification.TopicMaintenance,
		StandID:        stand.ID,
		Title:          "Problem reported on " + stand.Name,
		Body:           description,
	})
}
