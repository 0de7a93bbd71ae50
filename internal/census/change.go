package census

// PercentChange expresses current as a percentage of base.
func PercentChange(current, base float64) (float64, error) {
	if base == 0 {
		return 0, ErrInvalidBaseValue
	}
	return current / base * 100, nil
}

// Change is the percent change of one race between the base and current year.
type Change struct {
	Income     float64
	Population float64
}

// ChangeResult is the outcome of computing a Change. Err is set instead of
// Change when a base figure is zero.
type ChangeResult struct {
	Change *Change
	Err    error
}

// ComputeChange compares current against base for one sex.
func ComputeChange(current, base SexMetrics) ChangeResult {
	income, err := PercentChange(current.Income, base.Income)
	if err != nil {
		return ChangeResult{Err: err}
	}
	pop, err := PercentChange(float64(current.Population), float64(base.Population))
	if err != nil {
		return ChangeResult{Err: err}
	}
	return ChangeResult{Change: &Change{Income: income, Population: pop}}
}
