package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the part of the store the workers need.
type SubscriptionStore interface {
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	SubscriptionsForOrganization(ctx context.Context, orgID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Notice
	store   SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool. A nil webpushOptions disables
// delivery; notices are then only logged.
func NewWorkerPool(size int, s SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Notice, size*16),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	zap.L().Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case n := <-wp.jobs:
			wp.deliver(ctx, n)
		case <-ctx.Done():
			zap.L().Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a notice, waiting for room in the queue until ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, n Notice) error {
	select {
	case wp.jobs <- n:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "dispatch notice")
	}
}

// DispatchAlert queues the notice for a raised alert.
func (wp *WorkerPool) DispatchAlert(ctx context.Context, a store.Alert) error {
	return wp.Dispatch(ctx, FromAlert(a))
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}

// deliver sends n to every subscription of its organization, if the
// organization opted in to the notice's topic.
func (wp *WorkerPool) deliver(ctx context.Context, n Notice) {
	log := zap.L().With(zap.String("organization_id", n.OrganizationID), zap.String("topic", string(n.Topic)))

	org, err := wp.store.GetOrganization(ctx, n.OrganizationID)
	if err != nil {
		log.Error("failed to load organization for notice", zap.Error(err))
		return
	}
	if !n.Topic.EnabledFor(org) {
		log.Debug("topic disabled for organization")
		return
	}
	if wp.webpush == nil {
		log.Debug("push disabled, dropping notice", zap.String("title", n.Title))
		return
	}

	subscriptions, err := wp.store.SubscriptionsForOrganization(ctx, n.OrganizationID)
	if err != nil {
		log.Error("failed to fetch subscriptions", zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Error("failed to encode notice", zap.Error(err))
		return
	}

	log.Info("sending notifications", zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		zap.L().Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed.
	if resp.StatusCode == http.StatusGone {
		zap.L().Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil && !errors.Is(err, store.ErrNotFound) {
			zap.L().Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
