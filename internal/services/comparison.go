package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/censusgap-backend/internal/census"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

type ComparisonService interface {
	Compare(ctx context.Context, req census.Request) (*census.Result, error)
}

type comparisonService struct {
	log    *logger.Logger
	engine *census.Service
}

func NewComparisonService(log *logger.Logger, finder census.RecordFinder, opts ...census.Option) ComparisonService {
	serviceLog := log.With("service", "ComparisonService")
	return &comparisonService{log: serviceLog, engine: census.NewService(finder, opts...)}
}

func (cs *comparisonService) Compare(ctx context.Context, req census.Request) (*census.Result, error) {
	res, err := cs.engine.Compare(ctx, req)
	if err == nil {
		return res, nil
	}

	var nf *census.RecordNotFoundError
	switch {
	case errors.Is(err, census.ErrAgeTooLow):
		return nil, apierr.New(http.StatusUnprocessableEntity, "age_too_low", err)
	case errors.Is(err, census.ErrAgeUnclassified):
		return nil, apierr.New(http.StatusUnprocessableEntity, "age_unclassified", err)
	case errors.Is(err, census.ErrInvalidBaseValue):
		return nil, apierr.New(http.StatusUnprocessableEntity, "invalid_base_value", err)
	case errors.As(err, &nf):
		if !errors.Is(nf.Err, census.ErrNotFound) {
			cs.log.Warn("Record lookup failed", "race", nf.Race.String(), "year", nf.Year, "error", nf.Err)
		}
		return nil, apierr.New(http.StatusNotFound, "no_data", err)
	default:
		cs.log.Error("Comparison failed", "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "comparison_failed", err)
	}
}
