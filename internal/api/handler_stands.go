package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

type dashboardCounts struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Reserved    int `json:"reserved"`
	Maintenance int `json:"maintenance"`
	LowStock    int `json:"lowStock"`
	ToReplace   int `json:"toReplace"`
}

type dashboardStand struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Location    string            `json:"location"`
	Status      rules.StandStatus `json:"status"`
	Age         rules.AgeReport   `json:"age"`
	LowStock    int               `json:"lowStock"`
	NextService time.Time         `json:"nextMaintenance"`
}

type alertView struct {
	StandID  string    `json:"standId"`
	Kind     string    `json:"kind"`
	Subject  string    `json:"subject,omitempty"`
	Reason   string    `json:"reason"`
	Detail   string    `json:"detail"`
	RaisedAt time.Time `json:"raisedAt"`
}

// GetDashboard summarizes every stand of the organization.
func (h *Handler) GetDashboard(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	stands, err := h.store.ListStands(c.Request.Context(), org.ID)
	if err != nil {
		renderErr(c, err)
		return
	}
	alerts, err := h.store.ListOpenAlerts(c.Request.Context(), org.ID)
	if err != nil {
		renderErr(c, err)
		return
	}

	now, settings := h.now(), h.settings(org)
	counts := dashboardCounts{Total: len(stands)}
	rows := make([]dashboardStand, 0, len(stands))
	for i := range stands {
		report := rules.Evaluate(stands[i].RuleInput(), settings, now)
		switch {
		case report.Status.InMaintenance():
			counts.Maintenance++
		case report.Status == rules.StatusReserved:
			counts.Reserved++
		default:
			counts.Available++
		}
		if report.LowStock > 0 {
			counts.LowStock++
		}
		if report.Age.Status == rules.AgeOld {
			counts.ToReplace++
		}
		rows = append(rows, dashboardStand{
			ID:          stands[i].ID,
			Name:        stands[i].Name,
			Location:    stands[i].Location,
			Status:      report.Status,
			Age:         report.Age,
			LowStock:    report.LowStock,
			NextService: report.NextMaintenance,
		})
	}

	open := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		open = append(open, alertView{a.StandID, a.Kind, a.Subject, a.Reason, a.Detail, a.RaisedAt})
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts, "stands": rows, "alerts": open})
}

// ListStands returns every stand with its derived state.
func (h *Handler) ListStands(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	stands, err := h.store.ListStands(c.Request.Context(), org.ID)
	if err != nil {
		renderErr(c, err)
		return
	}

	now, settings := h.now(), h.settings(org)
	views := make([]standView, 0, len(stands))
	for i := range stands {
		views = append(views, h.standView(&stands[i], rules.Evaluate(stands[i].RuleInput(), settings, now)))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetStand(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.standView(stand, rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())))
}

func (h *Handler) CreateStand(c *gin.Context) {
	var req createStandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	stand := model.Stand{
		OrganizationID: org.ID,
		Name:           req.Name,
		Location:       req.Location,
		CurrentPoster:  req.CurrentPoster,
		InstalledAt:    optionalDate(req.InstalledAt),
	}
	if stand.InstalledAt == nil {
		now := h.now()
		stand.InstalledAt = &now
	}
	if err := h.store.CreateStand(c.Request.Context(), &stand); err != nil {
		renderErr(c, err)
		return
	}

	h.standChanged(org, &stand)
	c.JSON(http.StatusCreated, h.standView(&stand, rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())))
}

func (h *Handler) UpdateStand(c *gin.Context) {
	var req updateStandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	stand, err := h.store.UpdateStand(c.Request.Context(), org.ID, c.Param("id"), store.StandPatch{
		Name:          req.Name,
		Location:      req.Location,
		CurrentPoster: req.CurrentPoster,
		InstalledAt:   optionalDate(req.InstalledAt),
		By:            req.UpdatedBy,
	})
	if err != nil {
		renderErr(c, err)
		return
	}

	h.standChanged(org, stand)
	c.JSON(http.StatusOK, h.standView(stand, rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())))
}

func (h *Handler) DeleteStand(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	id := c.Param("id")
	if err := h.store.DeleteStand(c.Request.Context(), org.ID, id); err != nil {
		renderErr(c, err)
		return
	}

	if h.cache != nil {
		mw.Invalidate(h.cache, "/api/public/stands/"+id)
	}
	if h.publisher != nil {
		h.publisher.Publish(org.ID, realtime.Event{Type: realtime.StandDeleted, StandID: id, At: h.now()})
	}
	c.Status(http.StatusNoContent)
}

// GetHistory returns the stand's audit trail, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	records, err := h.store.ListHistory(c.Request.Context(), stand.ID, limit)
	if err != nil {
		renderErr(c, err)
		return
	}
	views := make([]historyView, 0, len(records))
	for _, r := range records {
		views = append(views, historyView{ID: r.ID, Type: r.Type, PerformedBy: r.PerformedBy, Summary: r.Summary, CreatedAt: r.CreatedAt})
	}
	c.JSON(http.StatusOK, views)
}
