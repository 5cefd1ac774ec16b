package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type cartHandlers struct {
	store cartStore
}

type setQuantityRequest struct {
	URL      string `json:"url"`
	Quantity *int   `json:"quantity"`
}

func (h cartHandlers) get(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.store.Snapshot(), h.store.MaxQuantity()))
}

func (h cartHandlers) add(c *gin.Context) {
	var item domain.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, http.StatusBadRequest, "invalid item")
		return
	}
	if strings.TrimSpace(item.URL) == "" {
		writeError(c, http.StatusBadRequest, "url required")
		return
	}
	state := h.store.Add(c.Request.Context(), item)
	c.JSON(http.StatusOK, toCartResponse(state, h.store.MaxQuantity()))
}

// setQuantity answers 200 with the unchanged cart when the quantity is over
// the cap.
func (h cartHandlers) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(c, http.StatusBadRequest, "url required")
		return
	}
	if req.Quantity == nil {
		writeError(c, http.StatusBadRequest, "quantity required")
		return
	}
	state := h.store.SetQuantity(c.Request.Context(), req.URL, *req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(state, h.store.MaxQuantity()))
}

func (h cartHandlers) remove(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		writeError(c, http.StatusBadRequest, "url required")
		return
	}
	state := h.store.Remove(c.Request.Context(), url)
	c.JSON(http.StatusOK, toCartResponse(state, h.store.MaxQuantity()))
}

func (h cartHandlers) clear(c *gin.Context) {
	state := h.store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, toCartResponse(state, h.store.MaxQuantity()))
}
