package census

import (
	"time"
)

// CensusRecord is one row of the per-race income tables, keyed by race, age
// bracket and year.
type CensusRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Race     string `gorm:"size:10;not null;column:race;uniqueIndex:idx_census_record_key,priority:1" json:"race"`
	AgeRange string `gorm:"size:10;not null;column:age_range;uniqueIndex:idx_census_record_key,priority:2" json:"age_range"`
	Year     int    `gorm:"type:smallint;not null;column:year;uniqueIndex:idx_census_record_key,priority:3" json:"year"`

	NumMalesWithIncome          int64   `gorm:"not null;column:num_males_with_income" json:"num_males_with_income"`
	MaleMedianIncomeCurrDollars float64 `gorm:"not null;column:male_median_income_curr_dollars" json:"male_median_income_curr_dollars"`
	MaleMedianIncome2019Dollars float64 `gorm:"not null;column:male_median_income_2019_dollars" json:"male_median_income_2019_dollars"`

	NumFemalesWithIncome          int64   `gorm:"not null;column:num_females_with_income" json:"num_females_with_income"`
	FemaleMedianIncomeCurrDollars float64 `gorm:"not null;column:female_median_income_curr_dollars" json:"female_median_income_curr_dollars"`
	FemaleMedianIncome2019Dollars float64 `gorm:"not null;column:female_median_income_2019_dollars" json:"female_median_income_2019_dollars"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CensusRecord) TableName() string { return "census_record" }
