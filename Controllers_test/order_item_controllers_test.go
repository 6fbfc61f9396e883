package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/controllers"
	"github.com/tavolo-pos/backend/database"
	"github.com/tavolo-pos/backend/models"
	"github.com/tavolo-pos/backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Session{},
		&models.Course{},
		&models.Station{},
		&models.Ingredient{},
		&models.Extra{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.RegisterHooks(db); err != nil {
		t.Fatalf("register hooks: %v", err)
	}
	return db
}

func setupItemRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	itemCtrl := controllers.NewOrderItemController(db)
	orderCtrl := controllers.NewOrderController(db)
	r.POST("/order-items/status", itemCtrl.UpdateItemStatus)
	r.POST("/order-items/edit", itemCtrl.EditItem)
	r.POST("/orders", orderCtrl.CreateOrder)
	return r
}

// seedSessionWithItem creates table, open session, menu item routed through
// a station, one order and one pending item of the given quantity.
func seedSessionWithItem(t *testing.T, db *gorm.DB, qty int) (models.Session, models.MenuItem, models.OrderItem) {
	t.Helper()

	table := models.Table{TableNumber: "A1"}
	assert.NoError(t, db.Create(&table).Error)

	session := models.Session{Code: "s-" + t.Name(), TableID: table.ID, Status: models.SessionOpen, OpenedAt: time.Now()}
	assert.NoError(t, db.Create(&session).Error)

	station := models.Station{Name: "grill-" + t.Name()}
	assert.NoError(t, db.Create(&station).Error)

	menuItem := models.MenuItem{Name: "Tagliata", Price: 14, ProducedBy: []models.Station{station}}
	assert.NoError(t, db.Create(&menuItem).Error)

	order := models.Order{SessionID: session.ID}
	assert.NoError(t, db.Create(&order).Error)

	item := models.OrderItem{
		OrderID:        order.ID,
		MenuItemID:     menuItem.ID,
		MenuItemName:   menuItem.Name,
		PriceEach:      menuItem.Price,
		Quantity:       qty,
		Status:         models.ItemStatusPending,
		RequiresFiring: true,
	}
	assert.NoError(t, db.Create(&item).Error)

	return session, menuItem, item
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateItemStatusEndpointFires(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)
	_, _, item := seedSessionWithItem(t, db, 2)

	w := postJSON(t, r, "/order-items/status", map[string]interface{}{
		"new_status": "fired",
		"items":      []uint{item.ID},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.OrderItem
	assert.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, models.ItemStatusFired, got.Status)
	assert.NotNil(t, got.FiredAt)
}

func TestUpdateItemStatusEndpointRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := postJSON(t, r, "/order-items/status", map[string]interface{}{
		"new_status": "",
		"items":      []uint{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemStatusEndpointAtomicBatch(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)
	_, _, item := seedSessionWithItem(t, db, 2)

	w := postJSON(t, r, "/order-items/status", map[string]interface{}{
		"new_status": "fired",
		"items":      []uint{item.ID, 424242},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var got models.OrderItem
	assert.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, models.ItemStatusPending, got.Status)
	assert.Nil(t, got.FiredAt)
}

func TestEditItemEndpointSplit(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)
	_, _, item := seedSessionWithItem(t, db, 5)

	w := postJSON(t, r, "/order-items/edit", map[string]interface{}{
		"item_id":         item.ID,
		"edited_quantity": 2,
		"notes":           "no pepper",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "split", data["operation"])

	var got models.OrderItem
	assert.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, 3, got.Quantity)

	var count int64
	db.Model(&models.OrderItem{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestEditItemEndpointRejectsBadQuantity(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)
	_, _, item := seedSessionWithItem(t, db, 3)

	w := postJSON(t, r, "/order-items/edit", map[string]interface{}{
		"item_id":         item.ID,
		"edited_quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/order-items/edit", map[string]interface{}{
		"item_id":         item.ID,
		"edited_quantity": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got models.OrderItem
	assert.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, 3, got.Quantity)
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)
	session, menuItem, _ := seedSessionWithItem(t, db, 1)

	w := postJSON(t, r, "/orders", map[string]interface{}{
		"session": session.ID,
		"items": []map[string]interface{}{
			{"menu_item": menuItem.ID, "price_each": 14.0, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.InDelta(t, 28.0, data["total_amount"].(float64), 0.001)
	assert.Len(t, data["order_items"].([]interface{}), 1)
}

func TestCreateOrderEndpointRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)
	r := setupItemRouter(db)

	w := postJSON(t, r, "/orders", map[string]interface{}{
		"session": 0,
		"items":   []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
