package census

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RecordFinder is the read side of record storage the comparison depends on.
// A miss must be reported with an error matching ErrNotFound.
type RecordFinder interface {
	Find(ctx context.Context, race Race, year int, bracket Bracket) (Record, error)
}

type Service struct {
	finder     RecordFinder
	sequential bool
}

type Option func(*Service)

// WithSequentialFetch issues record lookups one at a time in lookup order and
// stops at the first miss.
func WithSequentialFetch() Option {
	return func(s *Service) { s.sequential = true }
}

func NewService(finder RecordFinder, opts ...Option) *Service {
	s := &Service{finder: finder}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type lookup struct {
	race Race
	year int
}

// Compare builds the male and female comparison for a request.
//
// Lookups are ordered current white, current asian, then base white and base
// asian when a base year is present. Whether they run concurrently or not,
// the first failure in that order is the one reported.
func (s *Service) Compare(ctx context.Context, req Request) (*Result, error) {
	bracket, err := ResolveBracket(req.Age)
	if err != nil {
		return nil, err
	}

	lookups := []lookup{{RaceWhite, req.Year}, {RaceAsian, req.Year}}
	if req.BaseYear != nil {
		lookups = append(lookups, lookup{RaceWhite, *req.BaseYear}, lookup{RaceAsian, *req.BaseYear})
	}
	records, err := s.fetch(ctx, lookups, bracket)
	if err != nil {
		return nil, err
	}

	current := map[Race]Metrics{
		RaceWhite: ExtractMetrics(records[0]),
		RaceAsian: ExtractMetrics(records[1]),
	}
	var base map[Race]Metrics
	if req.BaseYear != nil {
		base = map[Race]Metrics{
			RaceWhite: ExtractMetrics(records[2]),
			RaceAsian: ExtractMetrics(records[3]),
		}
	}

	male, err := BuildComparison(
		figures(current, base, RaceWhite, maleOf),
		figures(current, base, RaceAsian, maleOf),
		req.Race,
	)
	if err != nil {
		return nil, err
	}
	female, err := BuildComparison(
		figures(current, base, RaceWhite, femaleOf),
		figures(current, base, RaceAsian, femaleOf),
		req.Race,
	)
	if err != nil {
		return nil, err
	}

	return &Result{
		Year:       req.Year,
		Sex:        req.Sex,
		Age:        req.Age,
		Comparison: SexComparisons{Male: male, Female: female},
	}, nil
}

func (s *Service) fetch(ctx context.Context, lookups []lookup, bracket Bracket) ([]Record, error) {
	records := make([]Record, len(lookups))
	if s.sequential {
		for i, l := range lookups {
			rec, err := s.find(ctx, l, bracket)
			if err != nil {
				return nil, err
			}
			records[i] = rec
		}
		return records, nil
	}

	errs := make([]error, len(lookups))
	var g errgroup.Group
	for i, l := range lookups {
		g.Go(func() error {
			records[i], errs[i] = s.find(ctx, l, bracket)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Service) find(ctx context.Context, l lookup, bracket Bracket) (Record, error) {
	rec, err := s.finder.Find(ctx, l.race, l.year, bracket)
	if err != nil {
		return Record{}, &RecordNotFoundError{Race: l.race, Year: l.year, Err: err}
	}
	return rec, nil
}

func maleOf(m Metrics) SexMetrics   { return m.Male }
func femaleOf(m Metrics) SexMetrics { return m.Female }

func figures(current, base map[Race]Metrics, race Race, sex func(Metrics) SexMetrics) RaceFigures {
	f := RaceFigures{Current: sex(current[race])}
	if b, ok := base[race]; ok {
		bm := sex(b)
		f.Base = &bm
	}
	return f
}
