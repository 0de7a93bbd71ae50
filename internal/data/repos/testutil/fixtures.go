package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	types "github.com/yungbote/censusgap-backend/internal/domain"
)

// SeedUser inserts a user whose password hash matches password.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username, password string) *types.User {
	tb.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &types.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: string(hashed),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// RecordFixture describes one census row; current and 2019 dollar incomes
// are stored with the same value.
type RecordFixture struct {
	Race         string
	AgeRange     string
	Year         int
	Males        int64
	Females      int64
	MaleIncome   float64
	FemaleIncome float64
}

func SeedRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, f RecordFixture) *types.CensusRecord {
	tb.Helper()
	if f.AgeRange == "" {
		f.AgeRange = "25-34"
	}
	rec := &types.CensusRecord{
		Race:                          f.Race,
		AgeRange:                      f.AgeRange,
		Year:                          f.Year,
		NumMalesWithIncome:            f.Males,
		MaleMedianIncomeCurrDollars:   f.MaleIncome,
		MaleMedianIncome2019Dollars:   f.MaleIncome,
		NumFemalesWithIncome:          f.Females,
		FemaleMedianIncomeCurrDollars: f.FemaleIncome,
		FemaleMedianIncome2019Dollars: f.FemaleIncome,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed record: %v", err)
	}
	return rec
}
