package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campuseats/internal/domain"
	orderssvc "campuseats/internal/service/orders"
)

// transactionView decorates a transaction with its user-facing status label.
type transactionView struct {
	domain.Transaction
	DisplayStatus string `json:"displayStatus"`
}

func transactionViews(txs []domain.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionView{Transaction: tx, DisplayStatus: domain.DisplayStatus(tx)})
	}
	return out
}

func orderHistoryHandler(orders ordersService) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs, err := orders.History(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load order history failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactionViews(txs)})
	}
}

func manageOrdersHandler(orders ordersService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := orderssvc.Filter{
			Type:    domain.TransactionType(c.Query("type")),
			Status:  domain.Status(c.Query("status")),
			StoreID: c.Query("store_id"),
		}
		if v := c.Query("from"); v != "" {
			ts, err := parseTime(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
				return
			}
			filter.From = ts
		}
		if v := c.Query("to"); v != "" {
			ts, err := parseTime(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
			filter.To = ts
		}
		txs, err := orders.ListAll(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load transactions failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactionViews(txs)})
	}
}

func orderStatisticsHandler(orders ordersService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := orders.Statistics(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load statistics failed"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

type updateStatusRequest struct {
	Owner  string        `json:"owner" binding:"required"`
	Status domain.Status `json:"status" binding:"required"`
}

func updateStatusHandler(orders ordersService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner and status required"})
			return
		}
		tx, err := orders.UpdateStatus(c.Request.Context(), in.Owner, c.Param("id"), in.Status)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			case errors.Is(err, domain.ErrStatusTransition):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": transactionView{Transaction: *tx, DisplayStatus: domain.DisplayStatus(*tx)}})
	}
}

func parseTime(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", v)
}
