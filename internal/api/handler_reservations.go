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

// Reserve books an available stand. The window is checked against the
// organization's limits first; the store then only lets one of several
// concurrent requests through.
func (h *Handler) Reserve(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	now := h.now()
	start, _ := parse.Timestamp(req.StartDate)
	end := optionalDate(req.EndDate)

	if err := rules.ValidateReservation(start, end, org.MaxReservationDays, now); err != nil {
		renderErr(c, err)
		return
	}
	if err := rules.ValidateLeadTime(start, org.MinAdvanceHours, now); err != nil {
		renderErr(c, err)
		return
	}

	standID := c.Param("id")
	err := h.store.Reserve(c.Request.Context(), org.ID, standID, store.Reservation{By: req.RequestedBy, From: start, Until: end})
	if err != nil {
		renderErr(c, err)
		return
	}

	stand := h.reloadAndPublish(c, org, standID)
	h.notifyReservation(c, org, stand, req.RequestedBy+" reserved the stand")
	h.respondStand(c, http.StatusOK, org, stand)
}

// CancelReservation makes a reserved stand available again.
func (h *Handler) CancelReservation(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	standID := c.Param("id")
	by := c.Query("by")

	if err := h.store.CancelReservation(c.Request.Context(), org.ID, standID, by); err != nil {
		renderErr(c, err)
		return
	}

	stand := h.reloadAndPublish(c, org, standID)
	h.notifyReservation(c, org, stand, "reservation cancelled")
	h.respondStand(c, http.StatusOK, org, stand)
}

// ExtendReservation moves the end date of a dated reservation.
func (h *Handler) ExtendReservation(c *gin.Context) {
	var req extendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	current, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}
	state := current.Reservation()
	if state.Phase != rules.PhaseReserved {
		renderErr(c, store.ErrNotReserved)
		return
	}

	newEnd, _ := parse.Timestamp(req.EndDate)
	if err := rules.ValidateExtension(state, newEnd, h.rules.MaxExtensionDays); err != nil {
		renderErr(c, err)
		return
	}
	if err := h.store.ExtendReservation(c.Request.Context(), org.ID, current.ID, newEnd, req.RequestedBy); err != nil {
		renderErr(c, err)
		return
	}

	stand := h.reloadAndPublish(c, org, current.ID)
	h.respondStand(c, http.StatusOK, org, stand)
}

func (h *Handler) notifyReservation(c *gin.Context, org *model.Organization, stand *model.Stand, body string) {
	if stand == nil {
		return
	}
	h.notify(c, notification.Notice{
		OrganizationID: org.ID,
		Topic:          notification.TopicReservation,
		StandID:        stand.ID,
		Title:          stand.Name,
		Body:           body,
	})
}

// respondStand writes the stand view, or an empty body when the stand could
// not be read back after a successful write.
func (h *Handler) respondStand(c *gin.Context, code int, org *model.Organization, stand *model.Stand) {
	if stand == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(code, h.standView(stand, rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())))
}
