package mw

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/store"
)

const (
	OrganizationHeader = "X-Organization-ID"
	organizationKey    = "organization"
)

type OrganizationLookup interface {
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
}

// Organization resolves the tenant named by the X-Organization-ID header, or
// the "organization" query parameter for clients that cannot set headers.
func Organization(lookup OrganizationLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(OrganizationHeader)
		if id == "" {
			id = c.Query("organization")
		}
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + OrganizationHeader})
			return
		}

		org, err := lookup.GetOrganization(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}
		if err != nil {
			zap.L().Error("failed to resolve organization", zap.String("organization_id", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(organizationKey, org)
		c.Next()
	}
}

// CurrentOrganization returns the organization set by Organization.
func CurrentOrganization(c *gin.Context) *model.Organization {
	org, _ := c.MustGet(organizationKey).(*model.Organization)
	return org
}
