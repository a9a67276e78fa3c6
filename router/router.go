package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/ai"
	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/chat"
	"github.com/IzzulGod/dynamenu-ai/controllers"
	"github.com/IzzulGod/dynamenu-ai/middlewares"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

// Batas fixed-window per sesi
const (
	chatLimit  = 20 // pesan chat per menit
	ttsLimit   = 30 // permintaan TTS per menit
	limitWindw = time.Minute
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Dependensi domain
	carts := cart.NewStore()
	orderSvc := services.NewOrderService(db)
	orderSvc.OnChange(ws.BroadcastOrderUpdate)
	flow := services.NewPaymentFlow(orderSvc, carts)
	gateway := chat.NewGateway(db, ai.NewGatewayClient(), carts, orderSvc)
	counters := middlewares.NewMemoryCounterStore()

	// Controllers
	menuCtrl := controllers.NewMenuController(db)
	tableCtrl := controllers.NewTableController(db)
	cartCtrl := controllers.NewCartController(db, carts)
	orderCtrl := controllers.NewOrderController(orderSvc, carts)
	paymentCtrl := controllers.NewPaymentController(flow, orderSvc)
	kitchenCtrl := controllers.NewKitchenController(orderSvc)
	chatCtrl := controllers.NewChatController(gateway)
	ttsCtrl := controllers.NewTTSController(services.NewTTSService())
	userCtrl := controllers.NewUserController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC
	// ----------------------------------------------------------------
	r.GET("/session", controllers.NewSession)
	r.GET("/categories", menuCtrl.GetCategories)
	r.GET("/menus", menuCtrl.GetMenuItems)
	r.GET("/tables/:table_number", tableCtrl.GetTableByNumber)
	r.GET("/orders/ws", controllers.OrdersStream)

	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/register", userCtrl.Register)
		login.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER (butuh X-Session-ID)
	// ----------------------------------------------------------------
	customer := r.Group("/")
	customer.Use(middlewares.RequireSession())
	{
		customer.GET("/cart", cartCtrl.GetCart)
		customer.POST("/cart/items", cartCtrl.AddItem)
		customer.PATCH("/cart/items/:menu_item_id", cartCtrl.UpdateItem)
		customer.DELETE("/cart/items/:menu_item_id", cartCtrl.RemoveItem)
		customer.DELETE("/cart", cartCtrl.ClearCart)

		customer.POST("/orders", orderCtrl.Checkout)
		customer.GET("/orders", orderCtrl.ListMyOrders)
		customer.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
		customer.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		customer.GET("/orders/:order_id/payment", paymentCtrl.OpenFlow)
		customer.POST("/orders/:order_id/payment/method", paymentCtrl.SelectMethod)
		customer.POST("/orders/:order_id/payment/qris/confirm", paymentCtrl.ConfirmQris)

		chatGroup := customer.Group("/chat")
		chatLimiter := middlewares.NewSessionLimiter(counters, "chat", chatLimit, limitWindw)
		chatGroup.GET("/messages", chatCtrl.ListMessages)
		chatGroup.POST("", chatLimiter.Limit(), chatCtrl.SendMessage)

		ttsLimiter := middlewares.NewSessionLimiter(counters, "tts", ttsLimit, limitWindw)
		customer.POST("/tts", ttsLimiter.Limit(), ttsCtrl.Synthesize)
	}

	// ----------------------------------------------------------------
	//                      STAFF / DAPUR (JWT)
	// ----------------------------------------------------------------
	staff := r.Group("/kitchen")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.GET("/orders", kitchenCtrl.ListActiveOrders)
		staff.PATCH("/orders/:order_id/status", kitchenCtrl.UpdateStatus)
		staff.POST("/orders/:order_id/cancel", kitchenCtrl.CancelOrder)
		staff.POST("/orders/:order_id/payment/cash/confirm", kitchenCtrl.ConfirmCashPayment)
	}

	return r
}
