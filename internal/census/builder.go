package census

// RaceFigures is one race's figures for one sex. Base is nil when the request
// carries no base year.
type RaceFigures struct {
	Current SexMetrics
	Base    *SexMetrics
}

// BuildComparison compares white and asian figures for one sex.
//
// Head goes to white only when white income is strictly higher, so ties
// resolve to asian. Percent change is reported for the requested race only;
// with no base year or no supported race requested both fields stay nil.
func BuildComparison(white, asian RaceFigures, requested *Race) (Comparison, error) {
	head := RaceAsian
	if white.Current.Income > asian.Current.Income {
		head = RaceWhite
	}
	c := Comparison{
		IncomeDifference:     int64(spread(white.Current.Income, asian.Current.Income)),
		Head:                 head,
		PopulationDifference: spread(white.Current.Population, asian.Current.Population),
	}

	changes := make(map[Race]ChangeResult, 2)
	for race, f := range map[Race]RaceFigures{RaceWhite: white, RaceAsian: asian} {
		if f.Base != nil {
			changes[race] = ComputeChange(f.Current, *f.Base)
		}
	}
	if requested == nil {
		return c, nil
	}
	res, ok := changes[*requested]
	if !ok {
		return c, nil
	}
	if res.Err != nil {
		return Comparison{}, res.Err
	}
	income, pop := res.Change.Income, res.Change.Population
	c.PercentChangeIncome = &income
	c.PercentChangePop = &pop
	return c, nil
}

func spread[T int64 | float64](a, b T) T {
	return max(a, b) - min(a, b)
}
