package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"campus_share/access"
	"campus_share/apperr"
	"campus_share/auth"
	"campus_share/models"
	"campus_share/rating"
	"campus_share/store"
)

type Options struct {
	// HideInaccessible applies the access policy to listings as well as to
	// detail views and downloads.
	HideInaccessible bool
	// AdminEmails may download and restore backups.
	AdminEmails      []string
}

type Handler struct {
	store *store.Store
	users *auth.Users
	log   *zap.Logger
	opts  Options
}

func New(st *store.Store, users *auth.Users, log *zap.Logger, opts Options) *Handler {
	return &Handler{store: st, users: users, log: log, opts: opts}
}

// Register mounts the API under /api. Session and identity middleware must
// already be installed on r.
func (h *Handler) Register(r gin.IRouter) {
	signedIn := auth.RequireIdentity()
	admin := auth.RequireAdmin(h.opts.AdminEmails)

	api := r.Group("/api")
	{
		api.GET("/types", h.GetTypes)
		api.POST("/upload", signedIn, h.UploadResource)
		api.GET("/resources", h.ListResources)
		api.GET("/resources/search", h.SearchResources)
		api.GET("/resources/:id", h.GetResource)
		api.PUT("/resources/:id", signedIn, h.UpdateResource)
		api.DELETE("/resources/:id", signedIn, h.DeleteResource)
		api.POST("/resources/:id/like", h.LikeResource)
		api.POST("/resources/:id/download", h.DownloadResource)
		api.GET("/resources/:id/reviews", h.ListReviews)
		api.POST("/resources/:id/reviews", signedIn, h.SubmitReview)
		api.DELETE("/reviews/:id", signedIn, h.DeleteReview)
		api.GET("/tags", h.GetTags)
		api.GET("/bookmarks", signedIn, h.ListBookmarks)
		api.POST("/bookmarks/:id", signedIn, h.ToggleBookmark)
		api.GET("/users/me/uploads", signedIn, h.MyUploads)
		api.GET("/backup", admin, h.CreateBackup)
		api.POST("/restore", admin, h.RestoreBackup)

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", signedIn, h.Me)
	}
}

// resourceView is a resource decorated with its live rating aggregate.
type resourceView struct {
	models.Resource
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	TypeLabel   string  `json:"typeLabel"`
}

func view(r models.Resource, s rating.Summary) resourceView {
	return resourceView{
		Resource:    r,
		Rating:      rating.Display(s, r.Rating),
		ReviewCount: s.Count,
		TypeLabel:   r.Type.Label(),
	}
}

func (h *Handler) views(c *gin.Context, rs []models.Resource) []resourceView {
	if h.opts.HideInaccessible {
		rs = access.Visible(rs, auth.CurrentIdentity(c))
	}
	summaries := h.store.Ratings()
	out := make([]resourceView, 0, len(rs))
	for _, r := range rs {
		out = append(out, view(r, summaries[r.ID]))
	}
	return out
}

// badRequest reports a request body or query that failed to bind.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": describe(verrs)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

// fail writes err as a JSON error with the status its kind maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindDuplicate:
		status = http.StatusConflict
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Failed to save changes"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		log.Info("HTTP request", fields...)
	}
}
