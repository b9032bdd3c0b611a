package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/rules"
)

type publicPublication struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// publicStandView is what visitors scanning a stand's QR code see.
type publicStandView struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Location      string              `json:"location"`
	CurrentPoster string              `json:"currentPoster"`
	Status        rules.StandStatus   `json:"status"`
	IsReserved    bool                `json:"isReserved"`
	ReservedUntil *time.Time          `json:"reservedUntil,omitempty"`
	Publications  []publicPublication `json:"publications"`
}

// publicStand loads the stand named in the path together with its
// organization. It writes the error response itself.
func (h *Handler) publicStand(c *gin.Context) (*model.Organization, *model.Stand, bool) {
	stand, err := h.store.FindStand(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return nil, nil, false
	}
	org, err := h.store.GetOrganization(c.Request.Context(), stand.OrganizationID)
	if err != nil {
		renderErr(c, err)
		return nil, nil, false
	}
	return org, stand, true
}

func (h *Handler) GetPublicStand(c *gin.Context) {
	org, stand, ok := h.publicStand(c)
	if !ok {
		return
	}

	report := rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())
	v := publicStandView{
		ID:            stand.ID,
		Name:          stand.Name,
		Location:      stand.Location,
		CurrentPoster: stand.CurrentPoster,
		Status:        report.Status,
		IsReserved:    stand.IsReserved,
		ReservedUntil: stand.ReservedUntil,
		Publications:  make([]publicPublication, 0, len(stand.Publications)),
	}
	for _, p := range stand.Publications {
		if !p.Publication.IsActive {
			continue
		}
		v.Publications = append(v.Publications, publicPublication{ID: p.PublicationID, Title: p.Publication.Title, Quantity: p.Quantity})
	}
	c.JSON(http.StatusOK, v)
}

// ReportProblem lets anyone at the stand report a defect. It opens a pending
// curative maintenance record, which puts the stand in curative maintenance.
func (h *Handler) ReportProblem(c *gin.Context) {
	var req problemReport
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org, stand, ok := h.publicStand(c)
	if !ok {
		return
	}

	by := req.ReportedBy
	if by == "" {
		by = "public"
	}
	rec := model.MaintenanceRecord{
		StandID:     stand.ID,
		Type:        string(rules.MaintenanceCurative),
		Status:      string(rules.MaintenancePending),
		Date:        h.now(),
		Description: req.Description,
		Issues:      req.Description,
	}
	if err := h.store.AddMaintenance(c.Request.Context(), &rec, by); err != nil {
		renderErr(c, err)
		return
	}

	h.notifyProblem(c, org, stand, req.Description)
	h.reloadAndPublish(c, org, stand.ID)
	c.JSON(http.StatusCreated, newMaintenanceView(rec))
}

func (h *Handler) PublicPosterRequest(c *gin.Context) {
	org, stand, ok := h.publicStand(c)
	if !ok {
		return
	}
	h.createPosterRequest(c, org, stand)
}
