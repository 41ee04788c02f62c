package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"turnero/models"
	"turnero/utils"
)

// CheckAvailabilityHandler reports whether an interval is bookable and, if
// not, why, including verified free alternatives.
func (hb *HandlerBundle) CheckAvailabilityHandler(c *gin.Context) {
	var input struct {
		ProviderID string           `json:"providerId"`
		Interval   models.TimeRange `json:"interval"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := hb.Booking.CheckAvailability(c.Request.Context(), input.ProviderID, input.Interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QuotePriceHandler prices a service for a requested start time without
// reserving anything.
func (hb *HandlerBundle) QuotePriceHandler(c *gin.Context) {
	serviceID := c.Query("serviceId")
	providerID := c.Query("providerId")
	at, err := time.Parse(time.RFC3339, c.Query("time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "time must be RFC3339", err.Error())
		return
	}
	if serviceID == "" || providerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "serviceId and providerId are required", "")
		return
	}

	quote, err := hb.Booking.QuotePrice(c.Request.Context(), serviceID, providerID, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// RequestBookingHandler reserves a single slot.
func (hb *HandlerBundle) RequestBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bk, err := hb.Booking.RequestBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bk)
}

// RequestGroupBookingHandler reserves one slot for a lead plus participants.
func (hb *HandlerBundle) RequestGroupBookingHandler(c *gin.Context) {
	var req models.GroupBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := hb.Booking.RequestGroupBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelBookingHandler cancels a booking and triggers a waitlist sweep of
// the freed interval.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if err := hb.Booking.OnBookingCancelled(c.Request.Context(), bookingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "bookingID": bookingID})
}

// JoinWaitlistHandler registers a standing request for a provider's slots.
func (hb *HandlerBundle) JoinWaitlistHandler(c *gin.Context) {
	var entry models.WaitlistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	saved, err := hb.Booking.EnqueueWaitlist(c.Request.Context(), &entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// LeaveWaitlistHandler withdraws a waitlist entry.
func (hb *HandlerBundle) LeaveWaitlistHandler(c *gin.Context) {
	entryID := c.Param("entryID")
	if err := hb.Waitlist.Cancel(c.Request.Context(), entryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "entryID": entryID})
}
