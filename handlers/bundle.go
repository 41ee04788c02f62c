package handlers

import (
	"turnero/services/booking"
	"turnero/services/scheduling"
	"turnero/services/waitlist"
)

// HandlerBundle groups the HTTP handlers with the services they depend on.
type HandlerBundle struct {
	Booking  booking.Service
	Calendar scheduling.CalendarEngine
	Waitlist waitlist.Manager
}

func NewHandlerBundle(svc booking.Service, cal scheduling.CalendarEngine, wl waitlist.Manager) *HandlerBundle {
	return &HandlerBundle{Booking: svc, Calendar: cal, Waitlist: wl}
}
