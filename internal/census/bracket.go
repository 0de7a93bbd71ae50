package census

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed brackets.yaml
var bracketsYAML []byte

type bracketRange struct {
	Label Bracket `yaml:"label"`
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
}

type bracketTable struct {
	MinAge     int            `yaml:"min_age"`
	Resolvable []bracketRange `yaml:"resolvable"`
	Known      []Bracket      `yaml:"known"`
}

// fallback table used when the embedded YAML is missing or invalid
var fallbackBrackets = bracketTable{
	MinAge: 15,
	Resolvable: []bracketRange{
		{Label: "15-24", Min: 15, Max: 24},
		{Label: "25-34", Min: 25, Max: 34},
		{Label: "35-44", Min: 35, Max: 44},
		{Label: "45-54", Min: 45, Max: 54},
	},
	Known: []Bracket{"15-24", "25-34", "35-44", "45-54", "55-64", "65-74", "Over 75"},
}

var (
	bracketsOnce sync.Once
	brackets     bracketTable
)

func loadBrackets() bracketTable {
	bracketsOnce.Do(func() {
		t, err := parseBrackets(bracketsYAML)
		if err != nil {
			brackets = fallbackBrackets
			return
		}
		brackets = t
	})
	return brackets
}

func parseBrackets(raw []byte) (bracketTable, error) {
	var t bracketTable
	if len(raw) == 0 {
		return t, fmt.Errorf("empty bracket table")
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse bracket table: %w", err)
	}
	if len(t.Resolvable) == 0 {
		return t, fmt.Errorf("bracket table has no resolvable brackets")
	}
	prevMax := t.MinAge - 1
	for _, b := range t.Resolvable {
		if b.Label == "" || b.Min > b.Max {
			return t, fmt.Errorf("invalid bracket %q [%d, %d]", b.Label, b.Min, b.Max)
		}
		if b.Min != prevMax+1 {
			return t, fmt.Errorf("bracket %q does not follow the previous bracket", b.Label)
		}
		prevMax = b.Max
	}
	return t, nil
}

// ResolveBracket maps an age onto the bracket label used to look up records.
func ResolveBracket(age int) (Bracket, error) {
	t := loadBrackets()
	if age < t.MinAge {
		return "", ErrAgeTooLow
	}
	for _, b := range t.Resolvable {
		if age >= b.Min && age <= b.Max {
			return b.Label, nil
		}
	}
	return "", ErrAgeUnclassified
}

// KnownBracket reports whether label names a bracket present in the source
// tables, including brackets ResolveBracket never returns.
func KnownBracket(label string) bool {
	for _, b := range loadBrackets().Known {
		if string(b) == label {
			return true
		}
	}
	return false
}
