package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuseats/internal/domain"
)

func listStoresHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores, err := catalog.Stores(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load stores failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stores": stores})
	}
}

func getStoreHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := catalog.Store(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load store failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"store": s})
	}
}

func listStoreProductsHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.StoreProducts(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load products failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load product failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}
