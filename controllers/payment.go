package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SetPaymentPrice records the amount due on a pending payment (admin only).
func SetPaymentPrice(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paymentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req struct {
		Price float64 `json:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	payment, err := ledger.SetPrice(paymentID, req.Price)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": payment,
	})
}

// ConfirmPayment is the entry point for the external payment-processing
// actor. Confirming the payment advances the owning report to
// PAYMENT_VERIFIED as a side effect.
func ConfirmPayment(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paymentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, err := workflow.HandlePaymentConfirmed(paymentID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed",
		"payment": payment,
	})
}

// GetPayment returns a single payment record.
func GetPayment(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || paymentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, err := ledger.Get(paymentID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": payment,
	})
}
