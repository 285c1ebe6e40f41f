package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"myduka.backend/internal/interfaces/http/handlers"
)

const (
	serviceName    = "myduka-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	accountHandler       *handlers.AccountHandler
	storeHandler         *handlers.StoreHandler
	productHandler       *handlers.ProductHandler
	supplyRequestHandler *handlers.SupplyRequestHandler
	authMiddleware       gin.HandlerFunc
	idempotency          gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public except logout and me)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/confirm-email/:token", d.authHandler.ConfirmEmailLink)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		protected := v1.Group("")
		protected.Use(d.authMiddleware)

		accounts := protected.Group("/accounts")
		{
			accounts.POST("", d.authHandler.CreateAccount)
			accounts.GET("", d.accountHandler.ListAccounts)
			accounts.PUT("/:id/status", d.accountHandler.SetAccountStatus)
		}

		stores := protected.Group("/stores")
		{
			stores.POST("", d.storeHandler.CreateStore)
			stores.GET("", d.storeHandler.ListStores)
			stores.GET("/:id", d.storeHandler.GetStore)
		}

		protected.POST("/stock", d.idempotency, d.productHandler.AddStock)
		protected.GET("/payments", d.productHandler.PaymentSummary)

		products := protected.Group("/products")
		{
			products.GET("", d.productHandler.ListProducts)
			products.PUT("/:id", d.productHandler.UpdateProduct)
			products.PUT("/:id/stock", d.productHandler.ReplaceStock)
			products.PUT("/:id/payment", d.productHandler.UpdatePaymentStatus)
			products.DELETE("/:id", d.productHandler.DeleteProduct)
		}

		requests := protected.Group("/supply-requests")
		{
			requests.POST("", d.idempotency, d.supplyRequestHandler.CreateSupplyRequest)
			requests.GET("", d.supplyRequestHandler.ListSupplyRequests)
			requests.GET("/:id", d.supplyRequestHandler.GetSupplyRequest)
			requests.PUT("/:id", d.supplyRequestHandler.ResolveSupplyRequest)
		}
	}
}
