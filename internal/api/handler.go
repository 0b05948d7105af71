package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"canchas-backend/internal/auth"
	"canchas-backend/internal/calendar"
	"canchas-backend/internal/model"
	"canchas-backend/internal/notification"
	"canchas-backend/internal/store"
	"canchas-backend/internal/whatsapp"
)

// Notifier queues booking notices for field owners.
type Notifier interface {
	Dispatch(notice notification.BookingNotice) bool
}

// Options configures a Handler. Zero values are usable: no notifications,
// UTC-3 calendar, last-write-wins transitions.
type Options struct {
	Issuer   *auth.Issuer
	Notifier Notifier
	WebPush  *webpush.Options
	Location *time.Location
	Now      func() time.Time

	// StrictTransitions rejects slot transitions from an unexpected status.
	StrictTransitions bool
	// OpenOwnerRoutes lets slot management requests without a token through.
	OpenOwnerRoutes bool

	CountryPrefix string
	OwnerLoginURL string
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	issuer   *auth.Issuer
	notifier Notifier
	webpush  *webpush.Options
	loc      *time.Location
	now      func() time.Time
	strict   bool
	open     bool
	prefix   string
	loginURL string
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, opts Options) *Handler {
	h := &Handler{
		store:    s,
		issuer:   opts.Issuer,
		notifier: opts.Notifier,
		webpush:  opts.WebPush,
		loc:      opts.Location,
		now:      opts.Now,
		strict:   opts.StrictTransitions,
		open:     opts.OpenOwnerRoutes,
		prefix:   opts.CountryPrefix,
		loginURL: opts.OwnerLoginURL,
	}
	if h.loc == nil {
		h.loc = calendar.DefaultLocation
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.prefix == "" {
		h.prefix = whatsapp.DefaultCountryPrefix
	}
	return h
}

// today returns the current calendar day of the service zone.
func (h *Handler) today() string {
	return calendar.Today(h.now(), h.loc)
}

// prior returns the accepted prior statuses of a transition, or nil when
// transitions are unconditional.
func (h *Handler) prior(from []model.SlotStatus) []model.SlotStatus {
	if !h.strict {
		return nil
	}
	return from
}
