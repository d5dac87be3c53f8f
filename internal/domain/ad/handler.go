package ad

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
	"newznepal/internal/pkg/validator"
)

// AdminCheck reports whether the request carries a valid admin session.
type AdminCheck func(c *gin.Context) bool

type Handler struct {
	service *Service
	isAdmin AdminCheck
}

func NewHandler(service *Service, isAdmin AdminCheck) *Handler {
	if isAdmin == nil {
		isAdmin = func(*gin.Context) bool { return false }
	}
	return &Handler{service: service, isAdmin: isAdmin}
}

type CreateRequest struct {
	Title             string     `json:"title" validate:"required"`
	Description       string     `json:"description"`
	ImageURL          string     `json:"image_url" validate:"required,uri"`
	ClickURL          string     `json:"click_url" validate:"required,url"`
	Placement         string     `json:"placement" validate:"required,placement"`
	Status            string     `json:"status" validate:"omitempty,adstatus"`
	Priority          int        `json:"priority" validate:"omitempty,min=1,max=10"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	TargetImpressions int        `json:"target_impressions" validate:"min=0"`
	TargetClicks      int        `json:"target_clicks" validate:"min=0"`
}

type UpdateRequest struct {
	Title             *string      `json:"title" validate:"omitempty,min=1"`
	Description       *string      `json:"description"`
	ImageURL          *string      `json:"image_url" validate:"omitempty,uri"`
	ClickURL          *string      `json:"click_url" validate:"omitempty,url"`
	Placement         *string      `json:"placement" validate:"omitempty,placement"`
	Status            *string      `json:"status" validate:"omitempty,adstatus"`
	Priority          *int         `json:"priority" validate:"omitempty,min=1,max=10"`
	StartDate         OptionalTime `json:"start_date"`
	EndDate           OptionalTime `json:"end_date"`
	TargetImpressions *int         `json:"target_impressions" validate:"omitempty,min=0"`
	TargetClicks      *int         `json:"target_clicks" validate:"omitempty,min=0"`
}

func (r UpdateRequest) input() UpdateInput {
	in := UpdateInput{
		Title:             r.Title,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		ClickURL:          r.ClickURL,
		Priority:          r.Priority,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		TargetImpressions: r.TargetImpressions,
		TargetClicks:      r.TargetClicks,
	}
	if r.Placement != nil {
		p := Placement(*r.Placement)
		in.Placement = &p
	}
	if r.Status != nil {
		s := Status(*r.Status)
		in.Status = &s
	}
	return in
}

type TrackRequest struct {
	AdID      string `json:"ad_id" validate:"required"`
	EventType string `json:"event_type" validate:"required,eventtype"`
}

// List godoc
// @Summary List advertisements
// @Description Public callers get active in-window ads only. Admins see every ad.
// @Tags Ads
// @Produce json
// @Param placement query string false "Placement slot"
// @Param status query string false "Status filter (admin only)"
// @Param analytics query bool false "Include totals (admin only)"
// @Success 200 {object} map[string]interface{}
// @Router /ads [get]
func (h *Handler) List(c *gin.Context) {
	ads, err := h.service.List(c.Request.Context(), ListQuery{
		Placement: Placement(c.Query("placement")),
		Status:    Status(c.Query("status")),
		Admin:     h.isAdmin(c),
		Analytics: c.Query("analytics") == "true",
	})
	if err != nil {
		h.writeError(c, err, "Failed to fetch advertisements")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ads": ads})
}

// Serve godoc
// @Summary Top ad for a placement
// @Tags Ads
// @Produce json
// @Param placement query string true "Placement slot"
// @Success 200 {object} map[string]interface{}
// @Router /ads/serve [get]
func (h *Handler) Serve(c *gin.Context) {
	a, err := h.service.Serve(c.Request.Context(), Placement(c.Query("placement")))
	if err != nil {
		h.writeError(c, err, "Failed to fetch advertisement")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ad": a})
}

// Create godoc
// @Summary Create an advertisement
// @Tags Ads
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Advertisement"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401 {object} map[string]interface{}
// @Router /ads [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !bind(c, &req, "Missing required fields: title, image_url, click_url, placement") {
		return
	}

	a, err := h.service.Create(c.Request.Context(), CreateInput{
		Title:             req.Title,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		ClickURL:          req.ClickURL,
		Placement:         Placement(req.Placement),
		Status:            Status(req.Status),
		Priority:          req.Priority,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		TargetImpressions: req.TargetImpressions,
		TargetClicks:      req.TargetClicks,
	})
	if err != nil {
		h.writeError(c, err, "Failed to create advertisement")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"ad":      a,
		"message": "Advertisement created successfully",
	})
}

// Update godoc
// @Summary Update an advertisement
// @Tags Ads
// @Accept json
// @Produce json
// @Param id query string true "Advertisement ID"
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /ads [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := requireID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if !bind(c, &req, "Invalid advertisement fields") {
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.writeError(c, err, "Failed to update advertisement")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"ad":      a,
		"message": "Advertisement updated successfully",
	})
}

// Delete godoc
// @Summary Delete an advertisement and its analytics
// @Tags Ads
// @Produce json
// @Param id query string true "Advertisement ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /ads [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := requireID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete advertisement")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Advertisement deleted successfully"})
}

// Track godoc
// @Summary Record an impression or click
// @Description A click answers with the ad's redirect_url.
// @Tags Ads
// @Accept json
// @Produce json
// @Param request body TrackRequest true "Event"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,429 {object} map[string]interface{}
// @Router /ads/track [post]
func (h *Handler) Track(c *gin.Context) {
	var req TrackRequest
	if !bind(c, &req, "Missing required fields: ad_id, event_type") {
		return
	}

	eventType := EventType(req.EventType)
	a, err := h.service.Track(c.Request.Context(), TrackInput{
		AdID:      req.AdID,
		EventType: eventType,
		IP:        clientIP(c),
		UserAgent: userAgent(c),
		Referrer:  c.GetHeader("Referer"),
	})
	if err != nil {
		h.writeError(c, err, "Failed to track ad event")
		return
	}

	if eventType == EventClick {
		response.Success(c, http.StatusOK, gin.H{
			"message":      "Click tracked successfully",
			"redirect_url": a.ClickURL,
		})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Impression tracked successfully"})
}

// Analytics godoc
// @Summary Aggregated impressions, clicks and CTR per ad
// @Tags Ads
// @Produce json
// @Param ad_id query string false "Limit to one ad"
// @Param range query string false "1d, 7d, 30d or all (default 7d)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /ads/track [get]
func (h *Handler) Analytics(c *gin.Context) {
	res, err := h.service.Summary(c.Request.Context(), c.Query("ad_id"), Range(c.DefaultQuery("range", string(Range7d))))
	if err != nil {
		h.writeError(c, err, "Failed to fetch ad analytics")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"summary":       res.Summary,
		"total_records": res.TotalRecords,
		"time_range":    res.TimeRange,
	})
}

func bind(c *gin.Context, req any, message string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, message, errs)
		return false
	}
	return true
}

func requireID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Advertisement ID is required")
		return "", false
	}
	return id, true
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "127.0.0.1"
}

func userAgent(c *gin.Context) string {
	if ua := c.GetHeader("User-Agent"); ua != "" {
		return ua
	}
	return "Unknown"
}

func (h *Handler) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrAdNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Advertisement not found")
	case errors.Is(err, ErrAdNotActive):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Ad is not active")
	case errors.Is(err, ErrAdNotStarted):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Ad has not started yet")
	case errors.Is(err, ErrAdExpired):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Ad has expired")
	case errors.Is(err, ErrInvalidPlacement):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid placement")
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid range. Must be one of: 1d, 7d, 30d, all")
	case errors.Is(err, ErrInvalidWindow):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "end_date must not be before start_date")
	default:
		response.Internal(c, err, message)
	}
}
