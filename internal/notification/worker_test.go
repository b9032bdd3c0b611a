package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

type fakeStore struct {
	mu      sync.Mutex
	org     model.Organization
	subs    []model.PushSubscription
	deleted []string
}

func (f *fakeStore) GetOrganization(_ context.Context, id string) (*model.Organization, error) {
	if id != f.org.ID {
		return nil, store.ErrNotFound
	}
	org := f.org
	return &org, nil
}

func (f *fakeStore) SubscriptionsForOrganization(context.Context, string) ([]model.PushSubscription, error) {
	return f.subs, nil
}

func (f *fakeStore) DeleteSubscription(_ context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func (f *fakeStore) deletedEndpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func response(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &fakeStore{}, &webpush.Options{})

	require.NoError(t, wp.Dispatch(context.Background(), Notice{Title: "hello"}))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "hello", job.Title)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchHonoursContext(t *testing.T) {
	wp := NewWorkerPool(1, &fakeStore{}, &webpush.Options{})
	for i := 0; i < cap(wp.Jobs()); i++ {
		require.NoError(t, wp.Dispatch(context.Background(), Notice{}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, wp.Dispatch(ctx, Notice{}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	fs := &fakeStore{
		org: model.Organization{ID: "org-1", NotifyMaintenance: true},
		subs: []model.PushSubscription{
			{Endpoint: "https://example.com/push", P256DH: "k", Auth: "a"},
		},
	}
	wp := NewWorkerPool(1, fs, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification for an alert", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				var n Notice
				assert.NoError(t, json.Unmarshal(payload, &n))
				assert.Equal(t, "Lobby needs curative maintenance", n.Title)
				assert.Equal(t, TopicMaintenance, n.Topic)
				return response(http.StatusCreated), nil
			},
		}

		require.NoError(t, wp.DispatchAlert(ctx, store.Alert{
			OrganizationID: "org-1", StandID: "s1", StandName: "Lobby",
			Kind: store.AlertMaintenance, Reason: "curative", Detail: "problem reported",
		}))
		wg.Wait()
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
				return response(http.StatusGone), nil
			},
		}

		require.NoError(t, wp.Dispatch(ctx, Notice{OrganizationID: "org-1", Topic: TopicRestock, Title: "restock"}))
		assert.Eventually(t, func() bool {
			return len(fs.deletedEndpoints()) == 1
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, []string{"https://example.com/push"}, fs.deletedEndpoints())
	})

	t.Run("skips topics the organization muted", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
				t.Error("muted topic was sent")
				return response(http.StatusCreated), nil
			},
		}
		require.NoError(t, wp.Dispatch(ctx, Notice{OrganizationID: "org-1", Topic: TopicReservation}))
		time.Sleep(50 * time.Millisecond)
	})
}

func TestFromAlert(t *testing.T) {
	n := FromAlert(store.Alert{OrganizationID: "o", StandID: "s", StandName: "Station", Kind: store.AlertRestock, Detail: "Good News: 3 left"})
	assert.Equal(t, TopicRestock, n.Topic)
	assert.Equal(t, "Restock needed: Station", n.Title)
	assert.Equal(t, "Good News: 3 left", n.Body)
}
