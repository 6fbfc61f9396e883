package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/kds"
	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/services"
	"github.com/tavolo-pos/backend/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// CreateOrder submits a cart for a session. The whole submission is one
// transaction; an unresolved menu item aborts it.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type request struct {
		SessionID uint                  `json:"session"`
		WaiterID  *uint                 `json:"waiter,omitempty"`
		Items     []services.OrderEntry `json:"items"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.SessionID == 0 || len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session and items are required"))
		return
	}

	var created *models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = services.CreateOrder(tx, req.SessionID, req.WaiterID, req.Items)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrSessionClosed), errors.Is(err, services.ErrInvalidQuantity):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	kds.BroadcastOrderCreated(created)
	kds.BroadcastStaffNotification(fmt.Sprintf("New order #%d in session %d", created.ID, created.SessionID))

	utils.RespondJSON(c, http.StatusCreated, "Order created", created)
}

// GetAllOrders lists orders with their items.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID returns one order with resolved items.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("OrderItems").
		Preload("OrderItems.SelectedExtras").
		Preload("OrderItems.RemovedIngredients").
		First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}
