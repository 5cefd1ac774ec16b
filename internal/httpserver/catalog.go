package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type catalogHandlers struct {
	client catalogClient
}

func (h catalogHandlers) list(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	res, err := h.client.FetchPage(c.Request.Context(), page)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(res))
}

func (h catalogHandlers) search(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	res, err := h.client.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(res))
}

func pageParam(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "page must be a number")
		return 0, false
	}
	return page, true
}
