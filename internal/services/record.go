package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/census"
	"github.com/yungbote/censusgap-backend/internal/data/repos"
	types "github.com/yungbote/censusgap-backend/internal/domain"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record entry exists")
	ErrRecordIntegrity = errors.New("db integrity error saving object")
)

type RecordService interface {
	GetByID(ctx context.Context, id uint) (*types.CensusRecord, error)
	Create(ctx context.Context, record *types.CensusRecord) (*types.CensusRecord, error)
}

type recordService struct {
	db         *gorm.DB
	log        *logger.Logger
	recordRepo repos.RecordRepo
}

func NewRecordService(db *gorm.DB, log *logger.Logger, recordRepo repos.RecordRepo) RecordService {
	serviceLog := log.With("service", "RecordService")
	return &recordService{db: db, log: serviceLog, recordRepo: recordRepo}
}

func (rs *recordService) GetByID(ctx context.Context, id uint) (*types.CensusRecord, error) {
	rec, err := rs.recordRepo.GetByID(ctx, nil, id)
	if err != nil {
		rs.log.Warn("Load record failed", "record_id", id, "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "load_record_failed", err)
	}
	if rec == nil {
		return nil, apierr.New(http.StatusNotFound, "record_not_found", ErrRecordNotFound)
	}
	return rec, nil
}

// Create stores a new record unless one already exists for the same race,
// age range and year.
func (rs *recordService) Create(ctx context.Context, record *types.CensusRecord) (*types.CensusRecord, error) {
	if err := normalizeRecord(record); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_record", err)
	}
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dupe, err := rs.recordRepo.Exists(ctx, tx, record.Race, record.AgeRange, record.Year)
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dupe {
			return apierr.New(http.StatusConflict, "duplicate_record", ErrDuplicateRecord)
		}
		if _, err := rs.recordRepo.Create(ctx, tx, []*types.CensusRecord{record}); err != nil {
			rs.log.Warn("Insert record failed", "error", err)
			return apierr.New(http.StatusConflict, "integrity_error", ErrRecordIntegrity)
		}
		return nil
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apierr.New(http.StatusInternalServerError, "create_record_failed", err)
	}
	return record, nil
}

func normalizeRecord(r *types.CensusRecord) error {
	race, ok := census.ParseRace(r.Race)
	if !ok {
		return fmt.Errorf("unsupported race %q", r.Race)
	}
	r.Race = race.String()
	r.AgeRange = strings.TrimSpace(r.AgeRange)
	if !census.KnownBracket(r.AgeRange) {
		return fmt.Errorf("unknown age range %q", r.AgeRange)
	}
	if r.NumMalesWithIncome < 0 || r.NumFemalesWithIncome < 0 {
		return fmt.Errorf("counts with income must not be negative")
	}
	r.ID = 0
	return nil
}
