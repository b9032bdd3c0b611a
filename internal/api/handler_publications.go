package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

func (h *Handler) ListPublications(c *gin.Context) {
	pubs, err := h.store.ListPublications(c.Request.Context(), mw.CurrentOrganization(c).ID)
	if err != nil {
		renderErr(c, err)
		return
	}
	views := make([]publicationView, 0, len(pubs))
	for _, p := range pubs {
		views = append(views, newPublicationView(p))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreatePublication(c *gin.Context) {
	var req publicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	pub := model.Publication{
		OrganizationID: mw.CurrentOrganization(c).ID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		IsActive:       req.IsActive == nil || *req.IsActive,
		MinStock:       req.MinStock,
	}
	if err := h.store.CreatePublication(c.Request.Context(), &pub); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPublicationView(pub))
}

type stockView struct {
	StandID       string              `json:"standId"`
	PublicationID string              `json:"publicationId"`
	Title         string              `json:"title"`
	Quantity      int                 `json:"quantity"`
	Forecast      rules.StockForecast `json:"forecast"`
}

// SetStock records the quantity of a publication held on a stand.
func (h *Handler) SetStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	pub, stand, ok := h.loadStockPair(c, org)
	if !ok {
		return
	}

	stock, err := h.store.SetStock(c.Request.Context(), stand.ID, pub.ID, req.Quantity, req.UpdatedBy)
	if err != nil {
		renderErr(c, err)
		return
	}

	h.reloadAndPublish(c, org, stand.ID)
	c.JSON(http.StatusOK, stockView{
		StandID:       stand.ID,
		PublicationID: pub.ID,
		Title:         pub.Title,
		Quantity:      stock.Quantity,
		Forecast:      rules.ForecastStock(stock.Quantity, pub.MinStock, h.rules.DailyUsage, h.now()),
	})
}

// GetForecast projects when a publication must be restocked on a stand. A
// publication never stocked on the stand counts as empty.
func (h *Handler) GetForecast(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	pub, stand, ok := h.loadStockPair(c, org)
	if !ok {
		return
	}

	quantity := 0
	stock, err := h.store.GetStock(c.Request.Context(), stand.ID, pub.ID)
	switch {
	case err == nil:
		quantity = stock.Quantity
	case !errors.Is(err, store.ErrNotFound):
		renderErr(c, err)
		return
	}

	c.JSON(http.StatusOK, stockView{
		StandID:       stand.ID,
		PublicationID: pub.ID,
		Title:         pub.Title,
		Quantity:      quantity,
		Forecast:      rules.ForecastStock(quantity, pub.MinStock, h.rules.DailyUsage, h.now()),
	})
}

// loadStockPair resolves the :id publication and :standID stand within the
// organization, writing the error response when either is missing.
func (h *Handler) loadStockPair(c *gin.Context, org *model.Organization) (*model.Publication, *model.Stand, bool) {
	pub, err := h.store.GetPublication(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return nil, nil, false
	}
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("standID"))
	if err != nil {
		renderErr(c, err)
		return nil, nil, false
	}
	return pub, stand, true
}
