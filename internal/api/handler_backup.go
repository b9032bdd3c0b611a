package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"presentoir-backend/internal/backup"
	"presentoir-backend/internal/mw"
)

// ExportBackup downloads a JSON snapshot of the organization's catalog.
func (h *Handler) ExportBackup(c *gin.Context) {
	now := h.now()
	snap, err := backup.Export(c.Request.Context(), h.store, mw.CurrentOrganization(c).ID, now)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+backup.Filename(now)+`"`)
	c.JSON(http.StatusOK, snap)
}

// RestoreBackup upserts a snapshot into the organization.
func (h *Handler) RestoreBackup(c *gin.Context) {
	var snap backup.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read backup file"})
		return
	}

	org := mw.CurrentOrganization(c)
	if err := backup.Restore(c.Request.Context(), h.store, org.ID, &snap); err != nil {
		if errors.Is(err, backup.ErrInvalidSnapshot) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		renderErr(c, err)
		return
	}

	if h.cache != nil {
		mw.Invalidate(h.cache, "/api/public/")
	}
	zap.L().Info("backup restored",
		zap.String("organization_id", org.ID),
		zap.Int("stands", len(snap.Stands)),
		zap.Int("posters", len(snap.Posters)),
		zap.Int("publications", len(snap.Publications)))
	c.JSON(http.StatusOK, gin.H{
		"stands":       len(snap.Stands),
		"posters":      len(snap.Posters),
		"publications": len(snap.Publications),
	})
}
