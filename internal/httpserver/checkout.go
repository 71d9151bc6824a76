package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campuseats/internal/domain"
)

type checkoutRequest struct {
	UserInfo       domain.UserInfo        `json:"userInfo"`
	PickupInfo     domain.PickupInfo      `json:"pickupInfo"`
	PaymentMethod  domain.PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *domain.PaymentDetails `json:"paymentDetails"`
}

// checkoutHandler assembles the payload from the current cart and commits
// it. Missing buyer fields are prefilled from the authenticated account;
// whatever remains empty passes through (low-friction checkout). An empty
// cart yields an empty transaction list, which the client treats as
// "nothing to confirm".
func checkoutHandler(carts cartService, checkouts checkoutService, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		owner := currentUserID(c)
		cart, err := carts.Get(c.Request.Context(), owner)
		if err != nil {
			recordCheckout(false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load cart failed"})
			return
		}

		info := in.UserInfo
		if info.FullName == "" || info.Email == "" {
			if u, err := users.Get(c.Request.Context(), owner); err == nil {
				if info.FullName == "" {
					info.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
				}
				if info.Email == "" {
					info.Email = u.Email
				}
			}
		}

		payload, err := checkouts.Assemble(cart, info, in.PickupInfo, in.PaymentMethod, in.PaymentDetails)
		if err != nil {
			recordCheckout(false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		txs, err := checkouts.Materialize(c.Request.Context(), owner, payload)
		if err != nil {
			recordCheckout(false)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commit failed, please retry"})
			return
		}

		recordCheckout(true)
		c.JSON(http.StatusOK, gin.H{
			"transactions": transactionViews(txs),
			"subtotal":     payload.Subtotal(),
			"serviceFee":   payload.ServiceFeeCents,
			"total":        payload.Total(),
		})
	}
}
