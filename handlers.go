package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nordverk/factora_backend/models"
	"github.com/nordverk/factora_backend/utils"
	"github.com/nordverk/factora_backend/workflow"
	"github.com/shopspring/decimal"
)

// registerRoutes wires the REST surface. svc is resolved per request because
// the store only exists once the database connection is established.
func registerRoutes(r *gin.Engine, svc func() *services) {
	withServices := func(h func(c *gin.Context, s *services)) gin.HandlerFunc {
		return func(c *gin.Context) {
			s := svc()
			if s == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
				return
			}
			h(c, s)
		}
	}

	r.POST("/inventory/transactions", withServices(recordTransactionHandler))
	r.GET("/inventory/items/:itemId/quantity", withServices(quantityOnHandHandler))
	r.GET("/inventory/items/:itemId/unit-cost", withServices(unitCostHandler))
	r.POST("/inventory/availability", withServices(availabilityHandler))
	r.GET("/inventory/replenishment", withServices(replenishmentHandler))

	r.POST("/orders", withServices(createOrderHandler))
	r.GET("/orders/:orderId", withServices(getOrderHandler))
	r.POST("/orders/:orderId/transition", withServices(transitionHandler))
	r.POST("/orders/:orderId/items", withServices(addOrderItemHandler))
	r.PUT("/orders/:orderId/items/:orderItemId", withServices(updateOrderItemHandler))
	r.DELETE("/orders/:orderId/items/:orderItemId", withServices(removeOrderItemHandler))

	r.POST("/margins/calculate", withServices(marginHandler))
	r.GET("/margins/customers/:customerId/average", withServices(customerMarginHandler))
}

func recordTransactionHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	var input models.NewInventoryTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	txn, err := s.ledger.RecordTransaction(c.Request.Context(), companyId, &input)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func quantityOnHandHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	itemId, ok := pathInt(c, "itemId")
	if !ok {
		return
	}
	var asOf time.Time
	if v := c.Query("asOf"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be RFC3339"})
			return
		}
		asOf = t
	}
	qty, err := s.ledger.QuantityOnHand(c.Request.Context(), companyId, itemId, asOf)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemId": itemId, "quantityOnHand": qty})
}

func unitCostHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	itemId, ok := pathInt(c, "itemId")
	if !ok {
		return
	}
	cost, err := s.costs.UnitCost(c.Request.Context(), companyId, itemId)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemId": itemId, "unitCost": cost})
}

type availabilityRequest struct {
	Lines []workflow.AvailabilityLine `json:"lines" binding:"required,min=1"`
}

func availabilityHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := s.availability.CheckAvailability(c.Request.Context(), companyId, req.Lines)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func replenishmentHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	alerts, err := s.replenishment.Alerts(c.Request.Context(), companyId)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func createOrderHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	order, err := s.orders.CreateOrder(c.Request.Context(), companyId, &input)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func getOrderHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	orderId, ok := pathInt(c, "orderId")
	if !ok {
		return
	}
	order, err := s.orders.GetOrder(c.Request.Context(), companyId, orderId)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type transitionRequest struct {
	Target models.OrderStatus `json:"target" binding:"required"`
}

func transitionHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	orderId, ok := pathInt(c, "orderId")
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	order, err := s.orders.Transition(c.Request.Context(), companyId, orderId, req.Target)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func addOrderItemHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	orderId, ok := pathInt(c, "orderId")
	if !ok {
		return
	}
	var input models.NewOrderItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	order, err := s.orders.AddItem(c.Request.Context(), companyId, orderId, &input)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderItemRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

func updateOrderItemHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	orderId, ok := pathInt(c, "orderId")
	if !ok {
		return
	}
	orderItemId, ok := pathInt(c, "orderItemId")
	if !ok {
		return
	}
	var req updateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	order, err := s.orders.UpdateItem(c.Request.Context(), companyId, orderId, orderItemId, req.Quantity, req.UnitPrice)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func removeOrderItemHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	orderId, ok := pathInt(c, "orderId")
	if !ok {
		return
	}
	orderItemId, ok := pathInt(c, "orderItemId")
	if !ok {
		return
	}
	order, err := s.orders.RemoveItem(c.Request.Context(), companyId, orderId, orderItemId)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type marginRequest struct {
	Lines []workflow.MarginLine `json:"lines" binding:"required,min=1"`
}

func marginHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	var req marginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := s.margins.Calculate(c.Request.Context(), companyId, req.Lines)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func customerMarginHandler(c *gin.Context, s *services) {
	companyId := requestCompanyId(c)
	customerId, ok := pathInt(c, "customerId")
	if !ok {
		return
	}
	since := time.Now().UTC().AddDate(0, -12, 0)
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		since = t
	}
	avg, err := s.margins.CustomerAverage(c.Request.Context(), companyId, customerId, since)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customerId": customerId, "averageMarginPercentage": avg})
}

func requestCompanyId(c *gin.Context) string {
	companyId, _ := utils.GetCompanyIdFromContext(c.Request.Context())
	return companyId
}

func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return v, true
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var transitionErr *models.InvalidTransitionError
	var operationErr *models.InvalidOperationError
	var stockErr *models.InsufficientStockError
	var conflictErr *models.ConcurrencyConflictError

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.As(err, &operationErr):
		c.JSON(http.StatusConflict, gin.H{"error": operationErr.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":      stockErr.Error(),
			"shortfalls": stockErr.Shortfalls,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "concurrent update conflict, retry the request"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
