package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/censusgap-backend/internal/census"
	"github.com/yungbote/censusgap-backend/internal/http/response"
	"github.com/yungbote/censusgap-backend/internal/observability"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/services"
)

// Year and age are pointers so a missing field is a 400 while an explicit
// out-of-range age still reaches the bracket rules.
type comparisonRequest struct {
	Year     *int    `json:"year" binding:"required"`
	BaseYear *int    `json:"base_year"`
	Sex      *string `json:"sex"`
	Race     *string `json:"race"`
	Age      *int    `json:"age" binding:"required"`
}

type ComparisonHandler struct {
	comparisonService services.ComparisonService
	metrics           *observability.Metrics
}

func NewComparisonHandler(comparisonService services.ComparisonService, metrics *observability.Metrics) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService, metrics: metrics}
}

// POST /api/comparisons
// body: { "year": 2019, "base_year": 2018|null, "sex": "..."|null, "race": "white"|"asian"|null, "age": 30 }
func (ch *ComparisonHandler) Compare(c *gin.Context) {
	var req comparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ch.metrics.ObserveComparison("bad_request", 0)
		response.RespondBindError(c, err)
		return
	}

	start := time.Now()
	res, err := ch.comparisonService.Compare(c.Request.Context(), census.Request{
		Year:     *req.Year,
		BaseYear: req.BaseYear,
		Sex:      req.Sex,
		Race:     census.RaceFilter(req.Race),
		Age:      *req.Age,
	})
	if err != nil {
		ch.metrics.ObserveComparison(apierr.CodeOf(err), time.Since(start))
		response.RespondError(c, err)
		return
	}
	ch.metrics.ObserveComparison("ok", time.Since(start))
	response.RespondOK(c, res)
}
