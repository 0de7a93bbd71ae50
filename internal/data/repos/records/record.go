package records

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/census"
	types "github.com/yungbote/censusgap-backend/internal/domain"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

type RecordRepo interface {
	census.RecordFinder
	Create(ctx context.Context, tx *gorm.DB, records []*types.CensusRecord) ([]*types.CensusRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.CensusRecord, error)
	Exists(ctx context.Context, tx *gorm.DB, race, ageRange string, year int) (bool, error)
}

type recordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	repoLog := baseLog.With("repo", "RecordRepo")
	return &recordRepo{db: db, log: repoLog}
}

// Find returns the single record for a race, year and bracket.
func (rr *recordRepo) Find(ctx context.Context, race census.Race, year int, bracket census.Bracket) (census.Record, error) {
	var row types.CensusRecord
	err := rr.db.WithContext(ctx).
		Where("race = ? AND year = ? AND age_range = ?", race.String(), year, string(bracket)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return census.Record{}, fmt.Errorf("%s/%d/%s: %w", race, year, bracket, census.ErrNotFound)
	}
	if err != nil {
		rr.log.Warn("Record lookup failed", "race", race.String(), "year", year, "bracket", string(bracket), "error", err)
		return census.Record{}, err
	}
	return ToRecord(&row)
}

func (rr *recordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.CensusRecord) ([]*types.CensusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(records) == 0 {
		return []*types.CensusRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID returns nil without error when no row has the id.
func (rr *recordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.CensusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.CensusRecord
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *recordRepo) Exists(ctx context.Context, tx *gorm.DB, race, ageRange string, year int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CensusRecord{}).
		Where("race = ? AND age_range = ? AND year = ?", race, ageRange, year).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ToRecord converts a stored row into the value the comparison works on.
func ToRecord(row *types.CensusRecord) (census.Record, error) {
	race, ok := census.ParseRace(row.Race)
	if !ok {
		return census.Record{}, fmt.Errorf("record %d has unsupported race %q", row.ID, row.Race)
	}
	return census.Record{
		Race:     race,
		AgeRange: census.Bracket(row.AgeRange),
		Year:     row.Year,
		Male: census.SexStats{
			CountWithIncome:       row.NumMalesWithIncome,
			MedianIncomeCurrent:   row.MaleMedianIncomeCurrDollars,
			MedianIncomeReference: row.MaleMedianIncome2019Dollars,
		},
		Female: census.SexStats{
			CountWithIncome:       row.NumFemalesWithIncome,
			MedianIncomeCurrent:   row.FemaleMedianIncomeCurrDollars,
			MedianIncomeReference: row.FemaleMedianIncome2019Dollars,
		},
	}, nil
}
