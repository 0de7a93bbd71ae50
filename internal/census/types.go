package census

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Race is the closed set of population groups the comparison covers.
type Race uint8

const (
	RaceWhite Race = iota + 1
	RaceAsian
)

// Races lists the supported races in lookup order. White always comes first.
var Races = []Race{RaceWhite, RaceAsian}

func (r Race) String() string {
	switch r {
	case RaceWhite:
		return "white"
	case RaceAsian:
		return "asian"
	default:
		return fmt.Sprintf("race(%d)", uint8(r))
	}
}

func (r Race) Valid() bool { return r == RaceWhite || r == RaceAsian }

func (r Race) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("census: cannot marshal %s", r)
	}
	return json.Marshal(r.String())
}

// ParseRace maps a label onto a supported race. Matching ignores case and
// surrounding whitespace.
func ParseRace(s string) (Race, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return RaceWhite, true
	case "asian":
		return RaceAsian, true
	default:
		return 0, false
	}
}

// RaceFilter turns an optional request label into an optional race. Only the
// exact lowercase labels select a race; anything else yields nil, the same as
// no filter at all.
func RaceFilter(label *string) *Race {
	if label == nil {
		return nil
	}
	r, ok := raceFromLabel(*label)
	if !ok {
		return nil
	}
	return &r
}

func raceFromLabel(s string) (Race, bool) {
	for _, r := range Races {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Bracket is an age range label used as a partition key for records.
type Bracket string

// SexStats holds the per-sex figures of one record.
type SexStats struct {
	CountWithIncome       int64
	MedianIncomeCurrent   float64
	MedianIncomeReference float64
}

// Record is a read-only snapshot of one census row.
type Record struct {
	Race     Race
	AgeRange Bracket
	Year     int
	Male     SexStats
	Female   SexStats
}

type Request struct {
	Year     int
	BaseYear *int
	Sex      *string
	Race     *Race
	Age      int
}

type Comparison struct {
	IncomeDifference     int64    `json:"income_difference"`
	Head                 Race     `json:"head"`
	PopulationDifference int64    `json:"population_difference"`
	PercentChangeIncome  *float64 `json:"percent_change_income"`
	PercentChangePop     *float64 `json:"percent_change_pop"`
}

type SexComparisons struct {
	Male   Comparison `json:"male"`
	Female Comparison `json:"female"`
}

type Result struct {
	Year       int            `json:"year"`
	Sex        *string        `json:"sex"`
	Age        int            `json:"age"`
	Comparison SexComparisons `json:"comparison"`
}
