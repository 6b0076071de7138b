package routes

import (
	"net/http"
	"time"

	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/store"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// Limiter nil : pas de limitation des ajouts au panier.
	Limiter middleware.Limiter
	Auditor *utils.Auditor

	Store *store.Handler
	User  *user.Handler
	Admin *admin.Handler
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 🛍️ Vitrine (public)
	api.GET("/store", opts.Store.Home)
	api.GET("/products", opts.Store.ListProducts)
	api.GET("/products/:slug", opts.Store.GetProduct)
	api.GET("/categories", opts.Store.ListCategories)

	auth := api.Group("")
	auth.Use(middleware.AuthRequired(opts.JWTSecret))

	// 🛒 Panier
	cart := auth.Group("/cart")
	{
		cart.GET("", opts.User.GetCart)
		cart.POST("", middleware.CartRateLimit(opts.Limiter), opts.User.AddToCart)
		cart.PUT("/:id", opts.User.UpdateCartItem)
		cart.DELETE("/:id", opts.User.RemoveCartItem)
		cart.GET("/ws", opts.User.CartWebSocket)
	}

	// 💳 Checkout
	checkout := auth.Group("/checkout")
	{
		checkout.GET("", opts.User.CheckoutSummary)
		checkout.POST("", opts.User.PlaceOrder)
		checkout.GET("/confirmation", opts.User.Confirmation)
	}

	orders := auth.Group("/orders")
	{
		orders.GET("", opts.User.ListOrders)
		orders.GET("/:id", opts.User.GetOrder)
	}

	// 🔐 Administration
	adm := auth.Group("/admin")
	adm.Use(middleware.RequireAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.AuditCriticalActions(opts.Auditor, action, resource)
	}
	{
		adm.GET("/dashboard", opts.Admin.Dashboard)

		adm.GET("/categories", opts.Admin.ListCategories)
		adm.POST("/categories", audit(utils.ActionCategoryCreate, utils.ResourceCategory), opts.Admin.CreateCategory)
		adm.PUT("/categories/:id", audit(utils.ActionCategoryUpdate, utils.ResourceCategory), opts.Admin.UpdateCategory)
		adm.DELETE("/categories/:id", audit(utils.ActionCategoryDelete, utils.ResourceCategory), opts.Admin.DeleteCategory)

		adm.GET("/products", opts.Admin.ListProducts)
		adm.POST("/products", audit(utils.ActionProductCreate, utils.ResourceProduct), opts.Admin.CreateProduct)
		adm.GET("/products/:id", opts.Admin.GetProduct)
		adm.PUT("/products/:id", audit(utils.ActionProductUpdate, utils.ResourceProduct), opts.Admin.UpdateProduct)
		adm.DELETE("/products/:id", audit(utils.ActionProductDelete, utils.ResourceProduct), opts.Admin.DeleteProduct)
		adm.PATCH("/products/:id/stock", audit(utils.ActionStockUpdate, utils.ResourceProduct), opts.Admin.UpdateStock)

		adm.GET("/orders", opts.Admin.ListOrders)
		adm.GET("/orders/:id", opts.Admin.GetOrder)
		adm.PATCH("/orders/:id/status", audit(utils.ActionOrderStatus, utils.ResourceOrder), opts.Admin.UpdateOrderStatus)

		adm.POST("/images", audit(utils.ActionImageUpload, utils.ResourceImage), opts.Admin.UploadImage)
	}
}
