package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus_share/access"
	"campus_share/apperr"
	"campus_share/auth"
	"campus_share/models"
	"campus_share/query"
)

type uploadRequest struct {
	Title       string              `json:"title" form:"title" binding:"required"`
	Subject     string              `json:"subject" form:"subject" binding:"required"`
	Type        models.ResourceType `json:"type" form:"type" binding:"required"`
	Description string              `json:"description" form:"description"`
	Semester    string              `json:"semester" form:"semester"`
	Year        string              `json:"year" form:"year"`
	Branch      string              `json:"branch" form:"branch"`
	Tags        []string            `json:"tags" form:"tags"`
	Privacy     models.Privacy      `json:"privacy" form:"privacy" binding:"omitempty,oneof=public private"`
	Link        string              `json:"link" form:"link" binding:"omitempty,url"`
	FileName    string              `json:"fileName" form:"fileName"`
	FileSize    int64               `json:"fileSize" form:"fileSize" binding:"gte=0"`
}

func (h *Handler) GetTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.ResourceTypes)
}

// UploadResource records a new resource. JSON and multipart bodies are both
// accepted; a multipart "file" part only contributes its name and size.
func (h *Handler) UploadResource(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		req.FileName = fileHeader.Filename
		req.FileSize = fileHeader.Size
	}

	me := auth.CurrentIdentity(c)
	r, err := h.store.AddResource(c.Request.Context(), models.ResourceInput{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		Type:        req.Type,
		Semester:    req.Semester,
		Year:        req.Year,
		Branch:      req.Branch,
		Tags:        splitTags(req.Tags),
		Privacy:     req.Privacy,
		Link:        req.Link,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		Author:      *me,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Resource uploaded successfully", "resource": view(r, h.store.Rating(r.ID))})
}

// splitTags accepts both repeated values and a single comma-separated value.
func splitTags(in []string) []string {
	var out []string
	for _, t := range in {
		out = append(out, strings.Split(t, ",")...)
	}
	return out
}

// ListResources returns the whole collection, newest first.
func (h *Handler) ListResources(c *gin.Context) {
	c.JSON(http.StatusOK, h.views(c, h.store.Resources()))
}

type searchRequest struct {
	Q        string `form:"q"`
	Type     string `form:"type"`
	Subject  string `form:"subject"`
	Semester string `form:"semester"`
	Year     string `form:"year"`
	Branch   string `form:"branch"`
	Privacy  string `form:"privacy"`
	Sort     string `form:"sort"`
}

func (h *Handler) SearchResources(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	results := h.store.Search(query.Params{
		Query: req.Q,
		Filters: query.Filters{
			Type:     models.ResourceType(req.Type),
			Subject:  req.Subject,
			Semester: req.Semester,
			Year:     req.Year,
			Branch:   req.Branch,
			Privacy:  models.Privacy(req.Privacy),
		},
		Sort: query.ParseSort(req.Sort),
	})
	c.JSON(http.StatusOK, h.views(c, results))
}

// GetResource returns one resource if the viewer may open it.
func (h *Handler) GetResource(c *gin.Context) {
	r, ok := h.viewable(c, "get resource")
	if !ok {
		return
	}

	resp := gin.H{"resource": view(r, h.store.Rating(r.ID))}
	if me := auth.CurrentIdentity(c); me != nil {
		resp["bookmarked"] = h.store.IsBookmarked(me.ID, r.ID)
		if mine, ok := h.store.UserReview(r.ID, me.ID); ok {
			resp["myReview"] = mine
		}
	}
	c.JSON(http.StatusOK, resp)
}

type updateRequest struct {
	Title       *string              `json:"title"`
	Subject     *string              `json:"subject"`
	Description *string              `json:"description"`
	Type        *models.ResourceType `json:"type"`
	Semester    *string              `json:"semester"`
	Year        *string              `json:"year"`
	Branch      *string              `json:"branch"`
	Tags        *[]string            `json:"tags"`
	Privacy     *models.Privacy      `json:"privacy"`
	Link        *string              `json:"link"`
}

func (h *Handler) UpdateResource(c *gin.Context) {
	r, ok := h.owned(c, "update resource")
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.store.UpdateResource(c.Request.Context(), r.ID, models.ResourcePatch(req))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view(updated, h.store.Rating(updated.ID)))
}

func (h *Handler) DeleteResource(c *gin.Context) {
	r, ok := h.owned(c, "delete resource")
	if !ok {
		return
	}
	if err := h.store.DeleteResource(c.Request.Context(), r.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted"})
}

func (h *Handler) LikeResource(c *gin.Context) {
	r, err := h.store.LikeResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": r.Likes})
}

// DownloadResource counts a download and returns what the client needs to
// fetch the file. No bytes are served from here.
func (h *Handler) DownloadResource(c *gin.Context) {
	r, ok := h.viewable(c, "download resource")
	if !ok {
		return
	}
	r, err := h.store.DownloadResource(c.Request.Context(), r.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"downloads": r.Downloads,
		"fileName":  r.FileName,
		"fileSize":  r.FileSize,
		"link":      r.Link,
	})
}

// GetTags lists the distinct tags in use.
func (h *Handler) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tags())
}

// viewable loads the :id resource and applies the access policy, writing the
// error response itself when it returns false.
func (h *Handler) viewable(c *gin.Context, op string) (models.Resource, bool) {
	id := c.Param("id")
	r, found := h.store.GetResourceByID(id)
	if !found {
		h.fail(c, apperr.NotFound(op, "resource", id))
		return models.Resource{}, false
	}
	if !access.CanView(r, auth.CurrentIdentity(c)) {
		h.fail(c, apperr.Forbidden(op, "this resource is private to "+r.AuthorCollege))
		return models.Resource{}, false
	}
	return r, true
}

// owned loads the :id resource and checks the signed-in user is its author.
func (h *Handler) owned(c *gin.Context, op string) (models.Resource, bool) {
	id := c.Param("id")
	r, found := h.store.GetResourceByID(id)
	if !found {
		h.fail(c, apperr.NotFound(op, "resource", id))
		return models.Resource{}, false
	}
	if me := auth.CurrentIdentity(c); me == nil || r.AuthorID == "" || r.AuthorID != me.ID {
		h.fail(c, apperr.Forbidden(op, "only the author can change this resource"))
		return models.Resource{}, false
	}
	return r, true
}
