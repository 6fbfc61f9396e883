package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/utils"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

// OpenSession starts a table visit. One open session per table at a time.
func (sc *SessionController) OpenSession(c *gin.Context) {
	type request struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := sc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("table %d not found", req.TableID))
		return
	}

	var open int64
	sc.DB.Model(&models.Session{}).
		Where("table_id = ? AND status = ?", req.TableID, models.SessionOpen).
		Count(&open)
	if open > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("table already has an open session"))
		return
	}

	session := models.Session{
		Code:     uuid.NewString(),
		TableID:  req.TableID,
		Status:   models.SessionOpen,
		OpenedAt: time.Now(),
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		table.Status = "occupied"
		return tx.Save(&table).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session opened", session)
}

// CloseSession ends a table visit and frees the table.
func (sc *SessionController) CloseSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var session models.Session
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if session.Status == models.SessionClosed {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session already closed"))
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		session.Status = models.SessionClosed
		session.ClosedAt = &now
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).
			Where("id = ?", session.TableID).
			Update("status", "available").Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}

// GetSessions lists sessions, optionally filtered by status.
func (sc *SessionController) GetSessions(c *gin.Context) {
	q := sc.DB.Preload("Table")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var sessions []models.Session
	if err := q.Order("opened_at desc").Find(&sessions).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sessions", sessions)
}

// GetSessionOrders returns every order of a session with resolved items.
func (sc *SessionController) GetSessionOrders(c *gin.Context) {
	sessionID := c.Param("session_id")

	var session models.Session
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orders []models.Order
	if err := sc.DB.Preload("OrderItems").
		Preload("OrderItems.SelectedExtras").
		Preload("OrderItems.RemovedIngredients").
		Where("session_id = ?", session.ID).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}
