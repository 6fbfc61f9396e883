package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenuItems lists the catalog with production routing, ingredients and
// available extras resolved.
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Preload("ProducedBy").
		Preload("Ingredients").
		Preload("Extras").
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem adds a dish to the catalog (admin only).
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	role, _ := c.Get("role")
	if role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type request struct {
		Name          string  `json:"name" binding:"required"`
		Price         float64 `json:"price" binding:"required"`
		Description   string  `json:"description"`
		DefaultCourse string  `json:"default_course"`
		StationIDs    []uint  `json:"stations"`
		IngredientIDs []uint  `json:"ingredients"`
		ExtraIDs      []uint  `json:"extras"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		Name:          req.Name,
		Price:         req.Price,
		Description:   req.Description,
		DefaultCourse: req.DefaultCourse,
		Available:     true,
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if len(req.StationIDs) > 0 {
			if err := tx.Find(&item.ProducedBy, req.StationIDs).Error; err != nil {
				return err
			}
		}
		if len(req.IngredientIDs) > 0 {
			if err := tx.Find(&item.Ingredients, req.IngredientIDs).Error; err != nil {
				return err
			}
		}
		if len(req.ExtraIDs) > 0 {
			if err := tx.Find(&item.Extras, req.ExtraIDs).Error; err != nil {
				return err
			}
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetCourses lists serving courses in menu order.
func (mc *MenuController) GetCourses(c *gin.Context) {
	var courses []models.Course
	if err := mc.DB.Order("sort_order asc").Find(&courses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of courses", courses)
}
