package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-pos/backend/controllers"
	"github.com/tavolo-pos/backend/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	sessionCtrl := controllers.NewSessionController(db)
	orderCtrl := controllers.NewOrderController(db)
	itemCtrl := controllers.NewOrderItemController(db)
	menuCtrl := controllers.NewMenuController(db)

	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)

	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.GET("/sessions", sessionCtrl.GetSessions)
		api.POST("/sessions", sessionCtrl.OpenSession)
		api.POST("/sessions/:session_id/close", sessionCtrl.CloseSession)
		api.GET("/sessions/:session_id/orders", sessionCtrl.GetSessionOrders)

		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)

		api.POST("/order-items/status", itemCtrl.UpdateItemStatus)
		api.POST("/order-items/edit", itemCtrl.EditItem)
		api.GET("/order-items/pending", itemCtrl.GetPendingItems)

		api.GET("/menu", menuCtrl.GetMenuItems)
		api.POST("/menu", menuCtrl.CreateMenuItem)
		api.GET("/courses", menuCtrl.GetCourses)
	}

	r.GET("/ws/kds", middlewares.AuthMiddleware(), controllers.KDSHandler)

	return r
}
