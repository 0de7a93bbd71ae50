package census

// SexMetrics is the income and population figure of one sex within a record.
type SexMetrics struct {
	Income     float64
	Population int64
}

// Metrics is what the comparison needs from a record.
type Metrics struct {
	Male   SexMetrics
	Female SexMetrics
}

// ExtractMetrics derives comparison figures from a record. Income is the
// larger of the two reported medians regardless of dollar basis.
func ExtractMetrics(r Record) Metrics {
	return Metrics{
		Male:   sexMetrics(r.Male),
		Female: sexMetrics(r.Female),
	}
}

func sexMetrics(s SexStats) SexMetrics {
	return SexMetrics{
		Income:     max(s.MedianIncomeCurrent, s.MedianIncomeReference),
		Population: s.CountWithIncome,
	}
}
