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

type OrderItemController struct {
	DB *gorm.DB
}

func NewOrderItemController(db *gorm.DB) *OrderItemController {
	return &OrderItemController{DB: db}
}

// UpdateItemStatus advances a batch of items to a new kitchen status. The
// batch is all-or-nothing: one unknown id rolls back every change.
func (ic *OrderItemController) UpdateItemStatus(c *gin.Context) {
	type request struct {
		NewStatus string `json:"new_status"`
		Items     []uint `json:"items"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.NewStatus == "" || len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("new_status and items are required"))
		return
	}

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		return services.UpdateItemStatus(tx, req.NewStatus, req.Items)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("batch aborted: %w", err))
		case errors.Is(err, services.ErrUnknownStatus):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	ic.broadcastItems(req.Items)

	utils.RespondJSON(c, http.StatusOK, "Items updated", gin.H{"success": true})
}

// EditItem updates an item in place or splits a partial quantity off into a
// new item carrying the edited attributes.
func (ic *OrderItemController) EditItem(c *gin.Context) {
	type request struct {
		ItemID             uint   `json:"item_id"`
		EditedQuantity     int    `json:"edited_quantity"`
		Notes              string `json:"notes"`
		Course             string `json:"course"`
		SelectedExtras     []uint `json:"selected_extras"`
		RemovedIngredients []uint `json:"removed_ingredients"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ItemID == 0 || req.EditedQuantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("item_id and a positive edited_quantity are required"))
		return
	}

	var operation string
	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		operation, err = services.EditItem(tx, services.EditItemInput{
			ItemID:               req.ItemID,
			Quantity:             req.EditedQuantity,
			Notes:                req.Notes,
			Course:               req.Course,
			ExtraIDs:             req.SelectedExtras,
			RemovedIngredientIDs: req.RemovedIngredients,
		})
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidQuantity), errors.Is(err, services.ErrQuantityExceeds):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	ic.broadcastItems([]uint{req.ItemID})

	message := "Item updated"
	if operation == services.OpSplit {
		message = "Item split"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"success":   true,
		"operation": operation,
	})
}

// GetPendingItems lists items waiting to be fired, oldest first.
func (ic *OrderItemController) GetPendingItems(c *gin.Context) {
	role, _ := c.Get("role")
	if role != "chef" && role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var items []models.OrderItem
	if err := ic.DB.Preload("SelectedExtras").
		Preload("RemovedIngredients").
		Where("status = ?", models.ItemStatusPending).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending items", items)
}

// broadcastItems pushes the current state of the touched items to displays.
// Items absorbed by a merge are simply absent from the reload.
func (ic *OrderItemController) broadcastItems(ids []uint) {
	var items []models.OrderItem
	if err := ic.DB.Preload("SelectedExtras").Preload("RemovedIngredients").
		Find(&items, ids).Error; err != nil {
		utils.ErrorLogger.Printf("broadcast reload items %v: %v", ids, err)
		return
	}
	kds.BroadcastItemUpdate(items)
}
