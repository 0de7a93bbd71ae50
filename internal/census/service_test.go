package census

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type findCall struct {
	Race    Race
	Year    int
	Bracket Bracket
	Found   bool
}

// recordingFinder serves fixture records and remembers every lookup.
type recordingFinder struct {
	mu      sync.Mutex
	records map[string]Record
	calls   []findCall
	failErr error
}

func newRecordingFinder(records ...Record) *recordingFinder {
	f := &recordingFinder{records: map[string]Record{}}
	for _, r := range records {
		f.records[fixtureKey(r.Race, r.Year, r.AgeRange)] = r
	}
	return f
}

func fixtureKey(race Race, year int, bracket Bracket) string {
	return fmt.Sprintf("%s/%d/%s", race, year, bracket)
}

func (f *recordingFinder) Find(_ context.Context, race Race, year int, bracket Bracket) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[fixtureKey(race, year, bracket)]
	f.calls = append(f.calls, findCall{Race: race, Year: year, Bracket: bracket, Found: ok})
	if !ok {
		if f.failErr != nil {
			return Record{}, f.failErr
		}
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (f *recordingFinder) Calls() []findCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]findCall(nil), f.calls...)
}

func fixture(race Race, year int, bracket Bracket, male, female SexStats) Record {
	return Record{Race: race, AgeRange: bracket, Year: year, Male: male, Female: female}
}

var (
	white2019 = fixture(RaceWhite, 2019, "15-24",
		SexStats{CountWithIncome: 12000, MedianIncomeCurrent: 14000, MedianIncomeReference: 13800},
		SexStats{CountWithIncome: 11000, MedianIncomeCurrent: 11500, MedianIncomeReference: 11600},
	)
	asian2019 = fixture(RaceAsian, 2019, "15-24",
		SexStats{CountWithIncome: 900, MedianIncomeCurrent: 12000, MedianIncomeReference: 12100},
		SexStats{CountWithIncome: 950, MedianIncomeCurrent: 11600, MedianIncomeReference: 11400},
	)
	white2018 = fixture(RaceWhite, 2018, "15-24",
		SexStats{CountWithIncome: 10000, MedianIncomeCurrent: 13000, MedianIncomeReference: 14000},
		SexStats{CountWithIncome: 10000, MedianIncomeCurrent: 11000, MedianIncomeReference: 11500},
	)
	asian2018 = fixture(RaceAsian, 2018, "15-24",
		SexStats{CountWithIncome: 1000, MedianIncomeCurrent: 11000, MedianIncomeReference: 12000},
		SexStats{CountWithIncome: 1000, MedianIncomeCurrent: 10000, MedianIncomeReference: 10500},
	)
)

func bothModes(t *testing.T, fn func(t *testing.T, opts ...Option)) {
	t.Run("concurrent", func(t *testing.T) { fn(t) })
	t.Run("sequential", func(t *testing.T) { fn(t, WithSequentialFetch()) })
}

func TestCompareWithoutBaseYear(t *testing.T) {
	bothModes(t, func(t *testing.T, opts ...Option) {
		finder := newRecordingFinder(white2019, asian2019)
		svc := NewService(finder, opts...)

		res, err := svc.Compare(context.Background(), Request{Year: 2019, Age: 20})
		require.NoError(t, err)

		assert.Equal(t, 2019, res.Year)
		assert.Equal(t, 20, res.Age)
		assert.Nil(t, res.Sex)

		male := res.Comparison.Male
		assert.Equal(t, RaceWhite, male.Head)
		assert.Equal(t, int64(14000-12100), male.IncomeDifference)
		assert.Equal(t, int64(12000-900), male.PopulationDifference)
		assert.Nil(t, male.PercentChangeIncome)
		assert.Nil(t, male.PercentChangePop)

		female := res.Comparison.Female
		assert.Equal(t, RaceAsian, female.Head, "equal incomes resolve to asian")
		assert.Equal(t, int64(0), female.IncomeDifference)
		assert.Equal(t, int64(11000-950), female.PopulationDifference)
		assert.Nil(t, female.PercentChangeIncome)
		assert.Nil(t, female.PercentChangePop)

		assert.Len(t, finder.Calls(), 2)
	})
}

func TestCompareWithBaseYearForWhite(t *testing.T) {
	bothModes(t, func(t *testing.T, opts ...Option) {
		finder := newRecordingFinder(white2019, asian2019, white2018, asian2018)
		svc := NewService(finder, opts...)

		res, err := svc.Compare(context.Background(), Request{
			Year:     2019,
			BaseYear: intptr(2018),
			Race:     raceptr(RaceWhite),
			Age:      20,
		})
		require.NoError(t, err)

		male := res.Comparison.Male
		require.NotNil(t, male.PercentChangeIncome)
		require.NotNil(t, male.PercentChangePop)
		assert.InDelta(t, 14000.0/14000.0*100, *male.PercentChangeIncome, 1e-9)
		assert.InDelta(t, 12000.0/10000.0*100, *male.PercentChangePop, 1e-9)

		female := res.Comparison.Female
		require.NotNil(t, female.PercentChangeIncome)
		require.NotNil(t, female.PercentChangePop)
		assert.InDelta(t, 11600.0/11500.0*100, *female.PercentChangeIncome, 1e-9)
		assert.InDelta(t, 11000.0/10000.0*100, *female.PercentChangePop, 1e-9)

		assert.Len(t, finder.Calls(), 4)
	})
}

func TestCompareUnsupportedRaceLeavesChangesEmpty(t *testing.T) {
	for _, label := range []string{"hispanic", "White", " asian ", "ASIAN"} {
		t.Run(label, func(t *testing.T) {
			finder := newRecordingFinder(white2019, asian2019, white2018, asian2018)
			svc := NewService(finder, WithSequentialFetch())

			res, err := svc.Compare(context.Background(), Request{
				Year:     2019,
				BaseYear: intptr(2018),
				Race:     RaceFilter(strptr(label)),
				Sex:      strptr("female"),
				Age:      24,
			})
			require.NoError(t, err)

			for _, c := range []Comparison{res.Comparison.Male, res.Comparison.Female} {
				assert.Nil(t, c.PercentChangeIncome)
				assert.Nil(t, c.PercentChangePop)
			}
			assert.Equal(t, int64(14000-12100), res.Comparison.Male.IncomeDifference)
			require.NotNil(t, res.Sex)
			assert.Equal(t, "female", *res.Sex)

			calls := finder.Calls()
			require.Len(t, calls, 4)
			assert.Equal(t, 2018, calls[2].Year)
			assert.Equal(t, 2018, calls[3].Year)
		})
	}
}

func TestCompareAgeErrorsSkipLookups(t *testing.T) {
	bothModes(t, func(t *testing.T, opts ...Option) {
		finder := newRecordingFinder(white2019, asian2019)
		svc := NewService(finder, opts...)

		_, err := svc.Compare(context.Background(), Request{Year: 2019, Age: 10})
		require.ErrorIs(t, err, ErrAgeTooLow)

		_, err = svc.Compare(context.Background(), Request{Year: 2019, Age: 60})
		require.ErrorIs(t, err, ErrAgeUnclassified)

		assert.Empty(t, finder.Calls())
	})
}

func TestCompareMissingAsianRecord(t *testing.T) {
	finder := newRecordingFinder(white2019)
	svc := NewService(finder, WithSequentialFetch())

	_, err := svc.Compare(context.Background(), Request{Year: 2019, Age: 20})
	require.ErrorIs(t, err, ErrNotFound)

	var nf *RecordNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, RaceAsian, nf.Race)
	assert.Equal(t, 2019, nf.Year)
	assert.Contains(t, err.Error(), "no data for race asian")

	calls := finder.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, findCall{Race: RaceWhite, Year: 2019, Bracket: "15-24", Found: true}, calls[0])
	assert.Equal(t, findCall{Race: RaceAsian, Year: 2019, Bracket: "15-24", Found: false}, calls[1])
}

func TestCompareReportsWhiteBeforeAsian(t *testing.T) {
	bothModes(t, func(t *testing.T, opts ...Option) {
		svc := NewService(newRecordingFinder(), opts...)

		_, err := svc.Compare(context.Background(), Request{Year: 2019, Age: 30})
		var nf *RecordNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, RaceWhite, nf.Race)
	})
}

func TestCompareMissingBaseRecord(t *testing.T) {
	bothModes(t, func(t *testing.T, opts ...Option) {
		svc := NewService(newRecordingFinder(white2019, asian2019, white2018), opts...)

		_, err := svc.Compare(context.Background(), Request{
			Year:     2019,
			BaseYear: intptr(2018),
			Race:     raceptr(RaceWhite),
			Age:      20,
		})
		var nf *RecordNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, RaceAsian, nf.Race)
		assert.Equal(t, 2018, nf.Year)
	})
}

func TestCompareLookupFailureKeepsCause(t *testing.T) {
	boom := errors.New("connection reset")
	finder := newRecordingFinder()
	finder.failErr = boom
	svc := NewService(finder)

	_, err := svc.Compare(context.Background(), Request{Year: 2019, Age: 40})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompareSameYearAsBaseIsHundredPercent(t *testing.T) {
	for _, race := range Races {
		svc := NewService(newRecordingFinder(white2019, asian2019))
		res, err := svc.Compare(context.Background(), Request{
			Year:     2019,
			BaseYear: intptr(2019),
			Race:     raceptr(race),
			Age:      15,
		})
		require.NoError(t, err)
		for _, c := range []Comparison{res.Comparison.Male, res.Comparison.Female} {
			require.NotNil(t, c.PercentChangeIncome)
			require.NotNil(t, c.PercentChangePop)
			assert.Equal(t, 100.0, *c.PercentChangeIncome)
			assert.Equal(t, 100.0, *c.PercentChangePop)
		}
	}
}

func TestCompareZeroBasePopulation(t *testing.T) {
	zeroBase := white2018
	zeroBase.Male.CountWithIncome = 0
	svc := NewService(newRecordingFinder(white2019, asian2019, zeroBase, asian2018))

	_, err := svc.Compare(context.Background(), Request{
		Year:     2019,
		BaseYear: intptr(2018),
		Race:     raceptr(RaceWhite),
		Age:      20,
	})
	require.ErrorIs(t, err, ErrInvalidBaseValue)
}
