package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus_share/auth"
)

func (h *Handler) ListBookmarks(c *gin.Context) {
	me := auth.CurrentIdentity(c)
	c.JSON(http.StatusOK, h.views(c, h.store.BookmarkedResources(me.ID)))
}

func (h *Handler) ToggleBookmark(c *gin.Context) {
	me := auth.CurrentIdentity(c)
	on, err := h.store.ToggleBookmark(c.Request.Context(), me.ID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": on})
}

// MyUploads lists the resources the caller created.
func (h *Handler) MyUploads(c *gin.Context) {
	me := auth.CurrentIdentity(c)
	c.JSON(http.StatusOK, h.views(c, h.store.UploadsBy(me.ID)))
}
