package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"delivery_manager/internal/models"
	"delivery_manager/internal/period"
	"delivery_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService services.DeliveryService
}

func NewDeliveryHandler(deliveryService services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// List returns one page of deliveries inside a date range and tenant
// scope.
func (h *DeliveryHandler) List(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.DefaultQuery("start_date", time.Now().Format(dateLayout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date (YYYY-MM-DD)"})
		return
	}
	end, err := time.Parse(dateLayout, c.DefaultQuery("end_date", time.Now().Format(dateLayout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date (YYYY-MM-DD)"})
		return
	}
	dateRange, err := period.NewCustom(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := c.Query("status")
	if status != "" {
		canonical, ok := models.ParseStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + status})
			return
		}
		status = string(canonical)
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	params := services.ListQuery{
		Page:      page,
		Limit:     limit,
		Range:     dateRange,
		Status:    status,
		AgencyID:  agencyID,
		GroupID:   groupID,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	deliveries, pagination, err := h.deliveryService.ListDeliveries(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list deliveries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": deliveries, "pagination": pagination})
}

type createDeliveryRequest struct {
	Phone           string   `json:"phone" binding:"required"`
	Quartier        string   `json:"quartier"`
	Items           string   `json:"items"`
	AmountDue       float64  `json:"amount_due" binding:"min=0"`
	AmountCollected float64  `json:"amount_collected" binding:"min=0"`
	DeliveryFee     *float64 `json:"delivery_fee"`
	Status          string   `json:"status"`
	GroupID         *uint    `json:"group_id"`
	AgencyID        uint     `json:"agency_id" binding:"required"`
	Actor           string   `json:"actor"`
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req createDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	delivery := &models.Delivery{
		Phone:           req.Phone,
		Quartier:        req.Quartier,
		Items:           req.Items,
		AmountDue:       req.AmountDue,
		AmountCollected: req.AmountCollected,
		DeliveryFee:     req.DeliveryFee,
		Status:          req.Status,
		GroupID:         req.GroupID,
		AgencyID:        req.AgencyID,
	}
	if err := h.deliveryService.CreateDelivery(delivery, req.Actor); err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create delivery"})
		return
	}
	c.JSON(http.StatusCreated, delivery)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	delivery, err := h.deliveryService.GetDeliveryByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// History returns the formatted audit timeline for one delivery.
func (h *DeliveryHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	entries, err := h.deliveryService.History(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": entries})
}

type updateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Carrier string `json:"carrier"`
	Actor   string `json:"actor"`
}

func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	delivery, err := h.deliveryService.UpdateStatus(uint(id), req.Status, req.Carrier, req.Actor)
	if err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	c.JSON(http.StatusOK, delivery)
}

type updateAmountRequest struct {
	Amount float64 `json:"amount" binding:"min=0"`
	Actor  string  `json:"actor"`
}

func (h *DeliveryHandler) UpdatePayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	var req updateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	delivery, err := h.deliveryService.UpdatePayment(uint(id), req.Amount, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	c.JSON(http.StatusOK, delivery)
}

func (h *DeliveryHandler) UpdateFee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	var req updateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	delivery, err := h.deliveryService.UpdateFee(uint(id), req.Amount, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery fee"})
		return
	}
	c.JSON(http.StatusOK, delivery)
}
