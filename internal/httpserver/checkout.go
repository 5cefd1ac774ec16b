package httpserver

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/checkout"
)

const emptyCartMessage = "Please add items to your cart before placing an order."

type checkoutHandlers struct {
	svc checkoutService
}

type placeOrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h checkoutHandlers) summary(c *gin.Context) {
	c.JSON(http.StatusOK, toSummaryResponse(h.svc.Summary()))
}

func (h checkoutHandlers) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	order, err := h.svc.PlaceOrder(c.Request.Context(), req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(c, http.StatusConflict, emptyCartMessage)
		case errors.Is(err, checkout.ErrInvalidPaymentMethod):
			writeError(c, http.StatusBadRequest, err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.JSON(http.StatusCreated, orderResponse{
		ID:            order.ID,
		PaymentMethod: order.PaymentMethod,
		PlacedAt:      order.PlacedAt.Format(time.RFC3339),
		Summary:       toSummaryResponse(order.Summary),
	})
}
