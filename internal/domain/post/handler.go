package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
	"newznepal/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type PostRequest struct {
	Title    string `json:"title" validate:"required,max=500"`
	Summary  string `json:"summary" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"required,category"`
	ImageURL string `json:"image_url" validate:"omitempty,uri,max=2048"`
}

func (r PostRequest) input() Input {
	return Input{
		Title:    r.Title,
		Summary:  r.Summary,
		Content:  r.Content,
		Category: Category(r.Category),
		ImageURL: r.ImageURL,
	}
}

// Categories godoc
// @Summary List post categories with Nepali labels
// @Tags Posts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /categories [get]
func (h *Handler) Categories(c *gin.Context) {
	items := make([]gin.H, 0, len(Categories)+1)
	for _, cat := range append([]Category{CategoryAll}, Categories...) {
		items = append(items, gin.H{
			"value":    cat,
			"label_en": cat.LabelEn(),
			"label_ne": cat.LabelNe(),
		})
	}
	response.Success(c, http.StatusOK, gin.H{"categories": items})
}

// List godoc
// @Summary List posts
// @Tags Posts
// @Produce json
// @Param page query int false "Page, starting at 0"
// @Param limit query int false "Page size (max 100)"
// @Param category query string false "Category filter"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /posts [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))

	res, err := h.service.List(c.Request.Context(), Category(c.Query("category")), page, limit)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid category")
			return
		}
		response.Internal(c, err, "Failed to fetch posts")
		return
	}

	now := h.service.Now()
	views := make([]View, len(res.Posts))
	for i := range res.Posts {
		views[i] = NewView(&res.Posts[i], now, h.service.RetentionDays())
	}

	response.Success(c, http.StatusOK, gin.H{
		"posts": views,
		"page":  res.Page,
		"limit": res.Limit,
		"total": res.Total,
	})
}

// Get godoc
// @Summary Get one post
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to fetch post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"post": NewView(p, h.service.Now(), h.service.RetentionDays()),
	})
}

// Create godoc
// @Summary Create a post
// @Description Requires an admin session. The subscriber email is sent in the background.
// @Tags Posts
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401 {object} map[string]interface{}
// @Router /posts [post]
func (h *Handler) Create(c *gin.Context) {
	req, ok := bindPost(c)
	if !ok {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err, "Failed to create post")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"post":    p,
		"message": "Post created successfully",
	})
}

// Update godoc
// @Summary Update a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body PostRequest true "Post"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /posts/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	req, ok := bindPost(c)
	if !ok {
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.writeError(c, err, "Failed to update post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"post":    p,
		"message": "Post updated successfully",
	})
}

// Delete godoc
// @Summary Delete a post
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401,404 {object} map[string]interface{}
// @Router /posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func bindPost(c *gin.Context) (*PostRequest, bool) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return nil, false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, "Title, content, summary, and category are required", errs)
		return nil, false
	}
	return &req, true
}

func (h *Handler) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid category")
	default:
		response.Internal(c, err, message)
	}
}
