package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"delivery_manager/internal/period"
	"delivery_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
	notifyService services.NotifyService
}

func NewReportHandler(reportService services.ReportService, notifyService services.NotifyService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		notifyService: notifyService,
	}
}

const dateLayout = "2006-01-02"

// parseReportQuery builds a ReportQuery from query params. Preset
// defaults to today; custom requires explicit bounds.
func parseReportQuery(c *gin.Context) (services.ReportQuery, error) {
	query := services.ReportQuery{}

	preset, err := period.ParsePreset(c.DefaultQuery("preset", string(period.Today)))
	if err != nil {
		return query, err
	}
	query.Preset = preset

	if preset == period.Custom {
		start, err := time.Parse(dateLayout, c.Query("start_date"))
		if err != nil {
			return query, errors.New("custom period requires start_date (YYYY-MM-DD)")
		}
		end, err := time.Parse(dateLayout, c.Query("end_date"))
		if err != nil {
			return query, errors.New("custom period requires end_date (YYYY-MM-DD)")
		}
		query.StartDate, query.EndDate = start, end
	}

	if query.AgencyID, err = optionalUint(c, "agency_id"); err != nil {
		return query, err
	}
	if query.GroupID, err = optionalUint(c, "group_id"); err != nil {
		return query, err
	}
	return query, nil
}

func optionalUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	id := uint(v)
	return &id, nil
}

// GetStats answers the period report for the requested scope.
func (h *ReportHandler) GetStats(c *gin.Context) {
	query, err := parseReportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reportService.GetStats(query)
	if err != nil {
		if errors.Is(err, period.ErrInvalidRange) || errors.Is(err, period.ErrUnknownPreset) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDailyStats is the pre-aggregated single-day fast path.
func (h *ReportHandler) GetDailyStats(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.DefaultQuery("date", time.Now().Format(dateLayout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (YYYY-MM-DD)"})
		return
	}
	agencyID, err := optionalUint(c, "agency_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groupID, err := optionalUint(c, "group_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := h.reportService.DailyStats(date, agencyID, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute daily stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(dateLayout), "totals": totals})
}

// SendGroupReport pushes the period report to the group's WhatsApp
// conversation.
func (h *ReportHandler) SendGroupReport(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	query, err := parseReportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifyService.SendGroupReport(uint(groupID), query); err != nil {
		if errors.Is(err, period.ErrInvalidRange) || errors.Is(err, period.ErrUnknownPreset) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send group report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
