package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"canchas-backend/internal/calendar"
	"canchas-backend/internal/model"
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

// SubscriptionSource is the part of the store the workers need.
type SubscriptionSource interface {
	SubscriptionsForField(ctx context.Context, fieldID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// BookingNotice tells a field owner that a customer requested one of its slots.
type BookingNotice struct {
	FieldID      int64
	SlotID       int64
	Date         string
	Time         string
	CustomerName string
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan BookingNotice
	subs    SubscriptionSource
	webpush *webpush.Options
	sender  NotificationSender
	url     string
}

// NewWorkerPool creates a new worker pool. url is opened when the owner taps
// the notification.
func NewWorkerPool(size int, subs SubscriptionSource, webpushOptions *webpush.Options, url string) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan BookingNotice, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		url:     url,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case notice := <-wp.jobs:
			log.Printf("Worker %d processing turno %d of cancha %d", id, notice.SlotID, notice.FieldID)
			wp.notifyOwner(ctx, notice)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notice without blocking. When the queue is full the
// notice is dropped and false is returned.
func (wp *WorkerPool) Dispatch(notice BookingNotice) bool {
	select {
	case wp.jobs <- notice:
		return true
	default:
		log.Printf("Notification queue full, dropping notice for turno %d", notice.SlotID)
		return false
	}
}

// notifyOwner sends the notice to every subscription of the field's owner.
func (wp *WorkerPool) notifyOwner(ctx context.Context, notice BookingNotice) {
	subscriptions, err := wp.subs.SubscriptionsForField(ctx, notice.FieldID)
	if err != nil {
		log.Printf("Error fetching subscriptions for cancha %d: %v", notice.FieldID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for cancha %d", len(subscriptions), notice.FieldID)

	payload, err := json.Marshal(wp.payloadFor(notice))
	if err != nil {
		log.Printf("Error encoding notification for turno %d: %v", notice.SlotID, err)
		return
	}
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) payloadFor(notice BookingNotice) pushPayload {
	name := notice.CustomerName
	if name == "" {
		name = "Un cliente"
	}
	return pushPayload{
		Title: "Nueva solicitud de reserva",
		Body:  fmt.Sprintf("%s pidió el turno del %s a las %s hs", name, calendar.DayMonth(notice.Date), notice.Time),
		URL:   wp.url,
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
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
