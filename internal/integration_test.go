package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"presentoir-backend/config"
	"presentoir-backend/internal/api"
	"presentoir-backend/internal/clock"
	"presentoir-backend/internal/db"
	"presentoir-backend/internal/model"
	"presentoir-backend/internal/mw"
	"presentoir-backend/internal/notification"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/store"
	"presentoir-backend/internal/sweeper"
)

type alertLog struct {
	mu     sync.Mutex
	alerts []store.Alert
	events []realtime.Event
}

func (l *alertLog) DispatchAlert(_ context.Context, a store.Alert) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alerts = append(l.alerts, a)
	return nil
}

func (l *alertLog) Dispatch(context.Context, notification.Notice) error { return nil }

func (l *alertLog) Publish(_ string, ev realtime.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *alertLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alerts = nil
	l.events = nil
}

// TestStandAlertLifecycle drives a stand through the admin and public API and
// checks which alerts each sweep raises, keeps or archives.
func TestStandAlertLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// --- Test Setup ---
	gdb, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	ctx := context.Background()
	appStore := store.NewGormStore(gdb)
	org := model.Organization{
		Name:                     "Riverside",
		MaxReservationDays:       30,
		PreventiveIntervalMonths: 3,
		NotifyMaintenance:        true,
	}
	require.NoError(t, appStore.CreateOrganization(ctx, &org))

	cfg := &config.Config{
		Rules: config.RulesConfig{
			DefaultPreventiveIntervalMonths: 3,
			DefaultMaxReservationDays:       30,
			MaxExtensionDays:                30,
			DailyUsage:                      decimal.New(5, -1),
		},
	}
	clk := clock.NewMockClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	log := &alertLog{}

	handler := api.NewHandler(api.Deps{
		Store:    appStore,
		Notifier: log,
		Clock:    clk,
		Rules:    cfg.Rules,
	})
	router := api.NewRouter(handler, config.ServerConfig{}, mw.NewIPRateLimiter(rate.Inf, 1))
	sweep := sweeper.NewService(cfg, appStore, clk, log, log)

	call := func(method, path string, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(mw.OrganizationHeader, org.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	var created struct {
		ID string `json:"id"`
	}

	// 1. A stand that was never serviced is due for preventive maintenance.
	w := call(http.MethodPost, "/api/v1/stands", map[string]any{"name": "Market square", "location": "North gate"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	standID := created.ID

	assert.Equal(t, 1, sweep.SweepOnce(ctx))
	require.Len(t, log.alerts, 1)
	assert.Equal(t, store.AlertMaintenance, log.alerts[0].Kind)
	assert.Equal(t, "preventive", log.alerts[0].Reason)
	assert.Equal(t, "no preventive maintenance on record", log.alerts[0].Detail)
	require.Len(t, log.events, 1)
	assert.Equal(t, realtime.AlertRaised, log.events[0].Type)

	// 2. An unchanged condition does not notify twice.
	log.reset()
	clk.Add(time.Hour)
	assert.Equal(t, 0, sweep.SweepOnce(ctx))
	assert.Empty(t, log.alerts)

	// 3. A public problem report turns it into a curative alert.
	w = call(http.MethodPost, "/api/public/stands/"+standID+"/problem", map[string]any{"description": "Shelf is loose"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	problemID := created.ID

	log.reset()
	assert.Equal(t, 1, sweep.SweepOnce(ctx))
	require.Len(t, log.alerts, 1)
	assert.Equal(t, "curative", log.alerts[0].Reason)

	open, err := appStore.ListOpenAlerts(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "curative", open[0].Reason)

	// 4. An empty publication raises a restock alert next to it.
	w = call(http.MethodPost, "/api/v1/publications", map[string]any{"title": "Awake", "minStock": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	publicationID := created.ID
	w = call(http.MethodPut, "/api/v1/publications/"+publicationID+"/stock/"+standID, map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	log.reset()
	assert.Equal(t, 1, sweep.SweepOnce(ctx))
	require.Len(t, log.alerts, 1)
	assert.Equal(t, store.AlertRestock, log.alerts[0].Kind)
	assert.Equal(t, publicationID, log.alerts[0].Subject)

	// 5. Repair, service and restock clear every alert.
	w = call(http.MethodPatch, "/api/v1/stands/"+standID+"/maintenance/"+problemID, map[string]any{"status": "completed", "performedBy": "Jo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(http.MethodPost, "/api/v1/stands/"+standID+"/maintenance", map[string]any{
		"type": "preventive", "date": clk.Now().Format(time.RFC3339), "performedBy": "Jo",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(http.MethodPut, "/api/v1/publications/"+publicationID+"/stock/"+standID, map[string]any{"quantity": 200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	log.reset()
	assert.Equal(t, 0, sweep.SweepOnce(ctx))
	open, err = appStore.ListOpenAlerts(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, open)

	var archived int64
	require.NoError(t, gdb.Model(&model.AlertHistory{}).Where("stand_id = ?", standID).Count(&archived).Error)
	assert.Equal(t, int64(3), archived)

	w = call(http.MethodGet, "/api/v1/stands/"+standID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stand struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stand))
	assert.Equal(t, "available", stand.Status)
}
