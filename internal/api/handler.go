package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"presentoir-backend/config"
	"presentoir-backend/internal/clock"
	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/notification"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/storage"
	"presentoir-backend/internal/store"
)

// Notifier queues push notices. *notification.WorkerPool implements it.
type Notifier interface {
	Dispatch(ctx context.Context, n notification.Notice) error
}

// Publisher fans realtime events out. *realtime.Hub implements it.
type Publisher interface {
	Publish(orgID string, ev realtime.Event)
}

// Deps are the collaborators of the API handlers. Objects, Notifier and Hub
// may be nil; the features that need them are then unavailable.
type Deps struct {
	Store         store.Store
	WebPush       *webpush.Options
	Hub           *realtime.Hub
	Objects       storage.ObjectStore
	Notifier      Notifier
	Clock         clock.Clock
	Rules         config.RulesConfig
	Cache         *cache.Cache
	PublicBaseURL string
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	webpush   *webpush.Options
	hub       *realtime.Hub
	publisher Publisher
	objects   storage.ObjectStore
	notifier  Notifier
	clock     clock.Clock
	rules     config.RulesConfig
	cache     *cache.Cache
	publicURL string
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:     d.Store,
		webpush:   d.WebPush,
		hub:       d.Hub,
		objects:   d.Objects,
		notifier:  d.Notifier,
		clock:     d.Clock,
		rules:     d.Rules,
		cache:     d.Cache,
		publicURL: strings.TrimRight(d.PublicBaseURL, "/"),
	}
	if d.Hub != nil {
		h.publisher = d.Hub
	}
	if h.clock == nil {
		h.clock = clock.NewRealClock()
	}
	return h
}

func (h *Handler) now() time.Time {
	return h.clock.Now().UTC()
}

func (h *Handler) settings(org *model.Organization) rules.OrgRules {
	return org.RuleSettings(h.rules.DefaultPreventiveIntervalMonths, h.rules.DailyUsage)
}

// standChanged re-evaluates the stand, pushes its fresh status to realtime
// clients and drops cached public pages for it.
func (h *Handler) standChanged(org *model.Organization, stand *model.Stand) {
	if h.cache != nil {
		mw.Invalidate(h.cache, "/api/public/stands/"+stand.ID)
	}
	if h.publisher == nil {
		return
	}
	report := rules.Evaluate(stand.RuleInput(), h.settings(org), h.now())
	h.publisher.Publish(org.ID, realtime.Event{
		Type:    realtime.StandUpdated,
		StandID: stand.ID,
		Status:  string(report.Status),
		Data:    h.standView(stand, report),
		At:      h.now(),
	})
}

// reloadAndPublish reads the stand back after a write and announces it.
// Failures are only logged: the write itself already succeeded.
func (h *Handler) reloadAndPublish(c *gin.Context, org *model.Organization, standID string) *model.Stand {
	stand, err := h.store.GetStand(c.Request.Context(), org.ID, standID)
	if err != nil {
		zap.L().Warn("failed to reload stand after write", zap.String("stand_id", standID), zap.Error(err))
		return nil
	}
	h.standChanged(org, stand)
	return stand
}

func (h *Handler) notify(c *gin.Context, n notification.Notice) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Dispatch(c.Request.Context(), n); err != nil {
		zap.L().Warn("failed to queue notification", zap.String("topic", string(n.Topic)), zap.Error(err))
	}
}

var conflicts = []error{store.ErrAlreadyReserved, store.ErrNotReserved, store.ErrAlreadyResolved, store.ErrDuplicate}

// renderErr maps store and rule errors onto HTTP responses.
func renderErr(c *gin.Context, err error) {
	var verr *rules.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.IsAny(err, conflicts...):
		for _, sentinel := range conflicts {
			if errors.Is(err, sentinel) {
				c.JSON(http.StatusConflict, gin.H{"error": sentinel.Error()})
				return
			}
		}
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
