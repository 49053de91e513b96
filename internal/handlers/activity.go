package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vision_runner/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryTimeLayouts = []string{time.RFC3339Nano, layoutDateTime, layoutDate}

type activityResponse struct {
	Count  int         `json:"count"`
	Events interface{} `json:"events"`
}

// @Summary      List activity
// @Description  Writes recorded by the API, oldest first. A date-only 'to' covers the whole day.
// @Tags         activity
// @Produce      json
// @Param        from   query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to     query     string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type   query     string  false  "Event type"  Enums(USER_REGISTERED,POST_CREATED,POST_UPDATED,POST_DELETED,FUTURE_CREATED,FUTURE_UPDATED,FUTURE_DELETED)
// @Param        limit  query     int     false  "Keep only the newest N events"
// @Success      200    {object}  activityResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/activity [get]
func (h *Handler) listActivity(c *gin.Context) {
	filter, msg := activityFilterFromQuery(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	events, err := h.services.ListActivity(c.Request.Context(), filter)
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": errRange})
	case errors.Is(err, service.ErrUnknownEventType):
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownType})
	case errors.Is(err, service.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errActivity, "activity_list_failed", err,
			"from", filter.From, "to", filter.To, "type", filter.Type)
	default:
		c.JSON(http.StatusOK, activityResponse{Count: len(events), Events: events})
	}
}

// activityFilterFromQuery parses the query string. A non-empty msg is the 400 body.
func activityFilterFromQuery(c *gin.Context) (f service.ActivityFilter, msg string) {
	var err error
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return f, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return f, errToInvalid
		}
		if !strings.ContainsAny(qs, "T ") {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if qs := c.Query("limit"); qs != "" {
		if f.Limit, err = strconv.Atoi(qs); err != nil || f.Limit < 0 {
			return f, errInvalidLimit
		}
	}
	f.Type = c.Query("type")
	return f, ""
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func normalizedType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
