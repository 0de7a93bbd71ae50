package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/censusgap-backend/internal/domain"
	"github.com/yungbote/censusgap-backend/internal/http/response"
	"github.com/yungbote/censusgap-backend/internal/services"
)

type recordRequest struct {
	Race     string `json:"race" binding:"required"`
	AgeRange string `json:"age_range" binding:"required"`
	Year     int    `json:"year" binding:"required,min=1900,max=9999"`

	NumMalesWithIncome          int64   `json:"num_males_with_income" binding:"min=0"`
	MaleMedianIncomeCurrDollars float64 `json:"male_median_income_curr_dollars"`
	MaleMedianIncome2019Dollars float64 `json:"male_median_income_2019_dollars"`

	NumFemalesWithIncome          int64   `json:"num_females_with_income" binding:"min=0"`
	FemaleMedianIncomeCurrDollars float64 `json:"female_median_income_curr_dollars"`
	FemaleMedianIncome2019Dollars float64 `json:"female_median_income_2019_dollars"`
}

type RecordHandler struct {
	recordService services.RecordService
}

func NewRecordHandler(recordService services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// GET /api/records/:id
func (rh *RecordHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.RespondErrorStatus(c, http.StatusBadRequest, errors.New("invalid record id"))
		return
	}
	rec, err := rh.recordService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

// POST /api/records
func (rh *RecordHandler) Create(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	rec, err := rh.recordService.Create(c.Request.Context(), &types.CensusRecord{
		Race:                          req.Race,
		AgeRange:                      req.AgeRange,
		Year:                          req.Year,
		NumMalesWithIncome:            req.NumMalesWithIncome,
		MaleMedianIncomeCurrDollars:   req.MaleMedianIncomeCurrDollars,
		MaleMedianIncome2019Dollars:   req.MaleMedianIncome2019Dollars,
		NumFemalesWithIncome:          req.NumFemalesWithIncome,
		FemaleMedianIncomeCurrDollars: req.FemaleMedianIncomeCurrDollars,
		FemaleMedianIncome2019Dollars: req.FemaleMedianIncome2019Dollars,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, rec)
}
