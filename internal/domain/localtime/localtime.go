// Package localtime serves the current Kathmandu date and time for the
// header widget.
package localtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
)

// Nepal has had no DST since 1986, so a fixed zone is exact and needs no
// tzdata on the host.
var Kathmandu = time.FixedZone("Asia/Kathmandu", 5*3600+45*60)

var weekdaysNe = [7]string{"आइतबार", "सोमबार", "मंगलबार", "बुधबार", "बिहीबार", "शुक्रबार", "शनिबार"}

var devanagariDigits = strings.NewReplacer(
	"0", "०", "1", "१", "2", "२", "3", "३", "4", "४",
	"5", "५", "6", "६", "7", "७", "8", "८", "9", "९",
)

type Snapshot struct {
	Timezone  string `json:"timezone"`
	Offset    string `json:"offset"`
	ISO       string `json:"iso"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	DateNe    string `json:"date_ne"`
	TimeNe    string `json:"time_ne"`
	WeekdayEn string `json:"weekday_en"`
	WeekdayNe string `json:"weekday_ne"`
	AsOf      string `json:"asOf"`
}

// At converts an instant to Kathmandu wall-clock fields.
func At(t time.Time) Snapshot {
	local := t.In(Kathmandu)
	date := local.Format("2006-01-02")
	clock := local.Format("15:04:05")
	return Snapshot{
		Timezone:  "Asia/Kathmandu",
		Offset:    "+05:45",
		ISO:       local.Format(time.RFC3339),
		Date:      date,
		Time:      clock,
		DateNe:    devanagariDigits.Replace(date),
		TimeNe:    devanagariDigits.Replace(clock),
		WeekdayEn: local.Weekday().String(),
		WeekdayNe: weekdaysNe[local.Weekday()],
		AsOf:      t.UTC().Format(time.RFC3339),
	}
}

type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

// Now godoc
// @Summary Current date and time in Nepal
// @Tags Widgets
// @Produce json
// @Success 200 {object} Snapshot
// @Router /nepali-datetime [get]
func (h *Handler) Now(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	response.Success(c, http.StatusOK, At(h.now()))
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/nepali-datetime", h.Now)
}
