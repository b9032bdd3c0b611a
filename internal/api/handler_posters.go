package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/notification"
	"presentoir-backend/internal/storage"
)

const maxPosterImageSize = 10 << 20

func (h *Handler) posterView(ctx context.Context, p model.Poster) posterView {
	v := posterView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsActive:    p.IsActive,
	}
	if p.ImageKey != "" && h.objects != nil {
		url, err := h.objects.PresignedURL(ctx, p.ImageKey)
		if err != nil {
			zap.L().Warn("failed to presign poster image", zap.String("poster_id", p.ID), zap.Error(err))
		}
		v.ImageURL = url
	}
	return v
}

func (h *Handler) ListPosters(c *gin.Context) {
	posters, err := h.store.ListPosters(c.Request.Context(), mw.CurrentOrganization(c).ID)
	if err != nil {
		renderErr(c, err)
		return
	}
	views := make([]posterView, 0, len(posters))
	for _, p := range posters {
		views = append(views, h.posterView(c.Request.Context(), p))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreatePoster(c *gin.Context) {
	var req posterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	poster := model.Poster{
		OrganizationID: mw.CurrentOrganization(c).ID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		IsActive:       true,
	}
	if err := h.store.CreatePoster(c.Request.Context(), &poster); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.posterView(c.Request.Context(), poster))
}

// UploadPosterImage stores the multipart "image" file as the poster's image.
func (h *Handler) UploadPosterImage(c *gin.Context) {
	if h.objects == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	org := mw.CurrentOrganization(c)
	poster, err := h.store.GetPoster(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxPosterImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is larger than 10 MB"})
		return
	}
	key, contentType, err := storage.PosterKey(poster.ID, file.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		renderErr(c, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}
	defer f.Close()

	if err := h.objects.Put(c.Request.Context(), key, contentType, f, file.Size); err != nil {
		renderErr(c, err)
		return
	}
	if poster.ImageKey != "" && poster.ImageKey != key {
		if err := h.objects.Delete(c.Request.Context(), poster.ImageKey); err != nil {
			zap.L().Warn("failed to delete previous poster image", zap.String("key", poster.ImageKey), zap.Error(err))
		}
	}

	poster, err = h.store.SetPosterImage(c.Request.Context(), org.ID, poster.ID, key)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.posterView(c.Request.Context(), *poster))
}

// CreatePosterRequest files a poster change request for a stand of the
// organization.
func (h *Handler) CreatePosterRequest(c *gin.Context) {
	org := mw.CurrentOrganization(c)
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, c.Param("id"))
	if err != nil {
		renderErr(c, err)
		return
	}
	h.createPosterRequest(c, org, stand)
}

func (h *Handler) createPosterRequest(c *gin.Context, org *model.Organization, stand *model.Stand) {
	var req posterChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	pr := model.PosterRequest{
		StandID:         stand.ID,
		RequestedBy:     req.RequestedBy,
		RequestedPoster: req.RequestedPoster,
		Notes:           req.Notes,
	}
	if err := h.store.CreatePosterRequest(c.Request.Context(), &pr); err != nil {
		renderErr(c, err)
		return
	}

	h.notify(c, notification.Notice{
		OrganizationID: org.ID,
		Topic:          notification.TopicPosterRequest,
		StandID:        stand.ID,
		Title:          "Poster change requested for " + stand.Name,
		Body:           req.RequestedBy + " asks for " + req.RequestedPoster,
	})
	c.JSON(http.StatusCreated, newPosterRequestView(pr))
}

func (h *Handler) ListPosterRequests(c *gin.Context) {
	reqs, err := h.store.ListPosterRequests(c.Request.Context(), mw.CurrentOrganization(c).ID, c.Query("status"))
	if err != nil {
		renderErr(c, err)
		return
	}
	views := make([]posterRequestView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, newPosterRequestView(r))
	}
	c.JSON(http.StatusOK, views)
}

// ResolvePosterRequest approves or rejects a pending request.
func (h *Handler) ResolvePosterRequest(c *gin.Context) {
	var req resolvePosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	org := mw.CurrentOrganization(c)
	approve := req.Status == model.PosterRequestApproved
	pr, err := h.store.ResolvePosterRequest(c.Request.Context(), org.ID, c.Param("id"), approve, req.Notes)
	if err != nil {
		renderErr(c, err)
		return
	}

	if approve {
		h.reloadAndPublish(c, org, pr.StandID)
	}
	c.JSON(http.StatusOK, newPosterRequestView(*pr))
}
