package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presentoir-backend/config"
	"presentoir-backend/internal/clock"
	"presentoir-backend/internal/model"
	"presentoir-backend/internal/realtime"
	"presentoir-backend/internal/rules"
	"presentoir-backend/internal/store"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type mockStore struct {
	orgs        []model.Organization
	stands      map[string][]model.Stand
	listErr     map[string]error
	fresh       func(raised []store.Alert) []store.Alert
	mu          sync.Mutex
	updateCalls map[string][]store.Alert
}

func (m *mockStore) ListOrganizations(context.Context) ([]model.Organization, error) {
	return m.orgs, nil
}

func (m *mockStore) ListStands(_ context.Context, orgID string) ([]model.Stand, error) {
	if err := m.listErr[orgID]; err != nil {
		return nil, err
	}
	return m.stands[orgID], nil
}

func (m *mockStore) UpdateAlerts(_ context.Context, orgID string, _ time.Time, raised []store.Alert) ([]store.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateCalls == nil {
		m.updateCalls = make(map[string][]store.Alert)
	}
	m.updateCalls[orgID] = raised
	if m.fresh != nil {
		return m.fresh(raised), nil
	}
	return raised, nil
}

type recorder struct {
	mu         sync.Mutex
	dispatched []store.Alert
	published  []realtime.Event
}

func (r *recorder) DispatchAlert(_ context.Context, a store.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, a)
	return nil
}

func (r *recorder) Publish(_ string, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, ev)
}

func testConfig() *config.Config {
	return &config.Config{
		Sweeper: config.SweeperConfig{Enabled: true, Interval: time.Hour},
		Rules: config.RulesConfig{
			DefaultPreventiveIntervalMonths: 3,
			DailyUsage:                      decimal.New(5, -1),
		},
	}
}

func completed(kind rules.MaintenanceType, date time.Time) model.MaintenanceRecord {
	return model.MaintenanceRecord{Type: string(kind), Status: string(rules.MaintenanceCompleted), Date: date}
}

func TestEvaluate(t *testing.T) {
	settings := rules.OrgRules{PreventiveIntervalMonths: 3, DailyUsage: decimal.New(5, -1)}

	tests := []struct {
		name    string
		stand   model.Stand
		want    []store.AlertKind
		reasons []string
	}{
		{
			name: "recently maintained with enough stock",
			stand: model.Stand{
				ID:          "s1",
				Maintenance: []model.MaintenanceRecord{completed(rules.MaintenancePreventive, now.AddDate(0, -1, 0))},
				Publications: []model.PublicationStock{
					{PublicationID: "p1", Quantity: 40, Publication: model.Publication{Title: "Watchtower", MinStock: 10}},
				},
			},
		},
		{
			name:    "never maintained",
			stand:   model.Stand{ID: "s1"},
			want:    []store.AlertKind{store.AlertMaintenance},
			reasons: []string{"preventive"},
		},
		{
			name: "pending curative and low stock",
			stand: model.Stand{
				ID: "s1",
				Maintenance: []model.MaintenanceRecord{
					completed(rules.MaintenancePreventive, now.AddDate(0, -1, 0)),
					{Type: string(rules.MaintenanceCurative), Status: string(rules.MaintenancePending), Date: now},
				},
				Publications: []model.PublicationStock{
					{PublicationID: "p1", Quantity: 12, Publication: model.Publication{Title: "Awake", MinStock: 10}},
					{PublicationID: "p2", Quantity: 50, Publication: model.Publication{Title: "Watchtower", MinStock: 10}},
				},
			},
			want:    []store.AlertKind{store.AlertMaintenance, store.AlertRestock},
			reasons: []string{"curative", "restock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Evaluate("org", tt.stand, settings, now)
			require.Len(t, alerts, len(tt.want))
			for i, a := range alerts {
				assert.Equal(t, tt.want[i], a.Kind)
				assert.Equal(t, tt.reasons[i], a.Reason)
				assert.Equal(t, "org", a.OrganizationID)
				assert.NotEmpty(t, a.Detail)
			}
		})
	}
}

func TestEvaluate_RestockSubjectIsPublication(t *testing.T) {
	stand := model.Stand{
		ID:          "s1",
		Maintenance: []model.MaintenanceRecord{completed(rules.MaintenancePreventive, now)},
		Publications: []model.PublicationStock{
			{PublicationID: "p9", Quantity: 0, Publication: model.Publication{Title: "Awake", MinStock: 5}},
		},
	}
	alerts := Evaluate("org", stand, rules.OrgRules{}, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "p9", alerts[0].Subject)
	assert.Equal(t, "Awake: 0 left, restock point 6", alerts[0].Detail)
}

func TestSweepOnce(t *testing.T) {
	ms := &mockStore{
		orgs: []model.Organization{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		stands: map[string][]model.Stand{
			"a": {{ID: "s1", Name: "Hall"}},
			"c": {{ID: "s3", Name: "Station", Maintenance: []model.MaintenanceRecord{completed(rules.MaintenancePreventive, now)}}},
		},
		listErr: map[string]error{"b": errors.New("connection reset")},
	}
	rec := &recorder{}
	svc := NewService(testConfig(), ms, clock.NewMockClock(now), rec, rec)

	raised := svc.SweepOnce(context.Background())

	assert.Equal(t, 1, raised)
	require.Len(t, rec.dispatched, 1)
	assert.Equal(t, "s1", rec.dispatched[0].StandID)
	assert.Equal(t, "Hall", rec.dispatched[0].StandName)
	require.Len(t, rec.published, 1)
	assert.Equal(t, realtime.AlertRaised, rec.published[0].Type)
	assert.Equal(t, now, rec.published[0].At)

	// The failing organization is skipped, the healthy one still reconciles.
	assert.NotContains(t, ms.updateCalls, "b")
	assert.Contains(t, ms.updateCalls, "c")
	assert.Empty(t, ms.updateCalls["c"])
}

func TestSweepOnce_OnlyFreshAlertsNotify(t *testing.T) {
	ms := &mockStore{
		orgs:   []model.Organization{{ID: "a"}},
		stands: map[string][]model.Stand{"a": {{ID: "s1"}, {ID: "s2"}}},
		fresh: func(raised []store.Alert) []store.Alert {
			return raised[:1]
		},
	}
	rec := &recorder{}
	svc := NewService(testConfig(), ms, clock.NewMockClock(now), rec, rec)

	assert.Equal(t, 1, svc.SweepOnce(context.Background()))
	assert.Len(t, ms.updateCalls["a"], 2)
	assert.Len(t, rec.dispatched, 1)
}

func TestRun_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Sweeper.Enabled = false
	ms := &mockStore{orgs: []model.Organization{{ID: "a"}}}
	svc := NewService(cfg, ms, clock.NewMockClock(now), &recorder{}, &recorder{})

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return while disabled")
	}
	assert.Nil(t, ms.updateCalls)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ms := &mockStore{orgs: []model.Organization{{ID: "a"}}}
	svc := NewService(testConfig(), ms, clock.NewMockClock(now), &recorder{}, &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		_, ok := ms.updateCalls["a"]
		return ok
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
