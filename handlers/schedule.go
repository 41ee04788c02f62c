package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"turnero/models"
	"turnero/utils"
)

// SetScheduleHandler replaces a provider's weekly schedule. The whole
// update is rejected if any day is invalid.
func (hb *HandlerBundle) SetScheduleHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	var input struct {
		WeeklySchedule map[string]models.DaySchedule `json:"weeklySchedule"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	cal, err := hb.Calendar.SetSchedule(c.Request.Context(), providerID, input.WeeklySchedule)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// ValidateScheduleChangeHandler dry-runs a proposed schedule against the
// provider's upcoming bookings and reports every booking it would strand.
func (hb *HandlerBundle) ValidateScheduleChangeHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	var input struct {
		WeeklySchedule map[string]models.DaySchedule `json:"weeklySchedule"`
		From           time.Time                     `json:"from"`
		To             time.Time                     `json:"to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.From.IsZero() {
		input.From = time.Now()
	}
	if input.To.IsZero() {
		input.To = input.From.AddDate(0, 0, 30)
	}

	impacts, err := hb.Calendar.ValidateScheduleChange(c.Request.Context(), providerID, input.WeeklySchedule, input.From, input.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"impactedBookings": len(impacts),
		"impacts":          impacts,
	})
}

// WorkingWindowHandler returns the bookable window for a given date.
func (hb *HandlerBundle) WorkingWindowHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date must be YYYY-MM-DD", err.Error())
		return
	}

	window, err := hb.Calendar.WorkingWindow(c.Request.Context(), providerID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}
