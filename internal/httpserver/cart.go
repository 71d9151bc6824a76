package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuseats/internal/domain"
)

type addItemRequest struct {
	Item     domain.LineItem `json:"item"`
	Quantity int             `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int           `json:"quantity"`
	Bucket   domain.Bucket `json:"bucket"`
	StoreID  string        `json:"store_id"`
}

type stepQuantityRequest struct {
	Delta   int           `json:"delta"`
	Bucket  domain.Bucket `json:"bucket"`
	StoreID string        `json:"store_id"`
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load cart failed"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func cartSummaryHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load cart failed"})
			return
		}
		if storeID := c.Query("store_id"); storeID != "" {
			bucket := domain.Bucket(c.Query("bucket"))
			c.JSON(http.StatusOK, gin.H{
				"store_id": storeID,
				"items":    cart.StoreItems(storeID, bucket),
				"total":    cart.StoreTotal(storeID, bucket),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderTotal":   cart.BucketTotal(domain.BucketOrder),
			"reserveTotal": cart.BucketTotal(domain.BucketReserve),
			"subtotal":     cart.Subtotal(),
			"orderCount":   cart.ItemCount(domain.BucketOrder),
			"reserveCount": cart.ItemCount(domain.BucketReserve),
			"itemCount":    cart.ItemCount(""),
		})
	}
}

func addItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.AddItem(c.Request.Context(), currentUserID(c), in.Item, in.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func updateQuantityHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.UpdateQuantity(c.Request.Context(), currentUserID(c), c.Param("id"), in.Quantity, in.Bucket, in.StoreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// stepQuantityHandler serves the +/- stepper control: decrementing clamps at
// 1, never removes.
func stepQuantityHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stepQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := carts.AdjustQuantity(c.Request.Context(), currentUserID(c), c.Param("id"), in.Delta, in.Bucket, in.StoreID)
		if err != nil {
			status := http.StatusBadRequest
			if err == domain.ErrNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func removeItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := domain.Bucket(c.DefaultQuery("bucket", string(domain.BucketOrder)))
		cart, err := carts.RemoveItem(c.Request.Context(), currentUserID(c), c.Param("id"), bucket, c.Query("store_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// clearCartHandler clears the whole cart, one bucket (?bucket=), or one
// store's rows within a bucket (?store_id=&bucket=).
func clearCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			cart *domain.Cart
			err  error
		)
		owner := currentUserID(c)
		bucket := domain.Bucket(c.Query("bucket"))
		storeID := c.Query("store_id")
		switch {
		case storeID != "":
			cart, err = carts.ClearStoreItems(c.Request.Context(), owner, storeID, bucket)
		case bucket != "":
			cart, err = carts.ClearBucket(c.Request.Context(), owner, bucket)
		default:
			cart, err = carts.ClearCart(c.Request.Context(), owner)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func cartResponse(cart *domain.Cart) gin.H {
	return gin.H{
		"cart":      cart,
		"subtotal":  cart.Subtotal(),
		"itemCount": cart.ItemCount(""),
	}
}
