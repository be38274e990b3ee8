package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus_share/apperr"
	"campus_share/auth"
	"campus_share/models"
)

func (h *Handler) ListReviews(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.GetResourceByID(id); !ok {
		h.fail(c, apperr.NotFound("list reviews", "resource", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": h.store.ReviewsFor(id),
		"rating":  h.store.Rating(id),
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=2000"`
}

// SubmitReview creates the caller's review of a resource or replaces it.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.store.UpsertReview(c.Request.Context(), models.ReviewInput{
		ResourceID: c.Param("id"),
		Reviewer:   *auth.CurrentIdentity(c),
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review, "rating": h.store.Rating(review.ResourceID)})
}

// DeleteReview removes the caller's own review. Unknown ids succeed.
func (h *Handler) DeleteReview(c *gin.Context) {
	id := c.Param("id")
	review, ok := h.store.ReviewByID(id)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	if review.UserID != auth.CurrentIdentity(c).ID {
		h.fail(c, apperr.Forbidden("delete review", "only the reviewer can delete this review"))
		return
	}
	if err := h.store.DeleteReview(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
