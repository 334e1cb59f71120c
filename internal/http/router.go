package http

import (
	"github.com/fiyatly/price-catalog/internal/config"
	"github.com/fiyatly/price-catalog/internal/http/controller"
	"github.com/fiyatly/price-catalog/internal/http/middleware"
	"github.com/gin-gonic/gin"
)

// InitRouter mounts the middleware stack and all catalog routes.
func InitRouter(_ *config.Config, server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController, listingCtr *controller.ListingController) *gin.Engine {
	// Recovery first so panics in the other middleware are caught too
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	server.GET("/ping", ctr.Ping)

	products := server.Group("/products")
	{
		products.POST("", productCtr.CreateProduct)
		products.GET("", productCtr.SearchProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
		products.GET("/:id/listings", listingCtr.ListProductListings)
		products.GET("/:id/price-comparison", listingCtr.ComparePrices)
	}

	listings := server.Group("/listings")
	{
		listings.POST("", listingCtr.CreateListing)
		listings.GET("", listingCtr.SearchListings)
		listings.GET("/:id", listingCtr.GetListing)
		listings.PUT("/:id", listingCtr.UpdateListing)
		listings.DELETE("/:id", listingCtr.DeleteListing)
	}

	return server
}
