package timeline

import "strings"

type Phase string

const (
	PhaseNone     Phase = "none"
	PhaseYouth    Phase = "youth"
	PhaseMaturity Phase = "maturity"
	PhaseNext     Phase = "next"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseNone, PhaseYouth, PhaseMaturity, PhaseNext}

func (p Phase) String() string { return string(p) }

type Scale string

const (
	ScaleMonth Scale = "m"
	ScaleWeek  Scale = "w"
	ScaleDay   Scale = "d"
)

// Scales lists the scales in the order the UI offers them.
var Scales = []Scale{ScaleMonth, ScaleWeek, ScaleDay}

// ScaleCount is the number of cells per year row. Leap days are skipped.
var ScaleCount = map[Scale]int{
	ScaleMonth: 12,
	ScaleWeek:  52,
	ScaleDay:   365,
}

var scaleNames = map[Scale]string{
	ScaleMonth: "month",
	ScaleWeek:  "week",
	ScaleDay:   "day",
}

func (s Scale) String() string { return string(s) }

// Name returns the long name (month, week, day).
func (s Scale) Name() string {
	if n, ok := scaleNames[s]; ok {
		return n
	}
	return string(s)
}

func (s Scale) Valid() bool {
	_, ok := ScaleCount[s]
	return ok
}

// ParseScale accepts the short identifiers and the long names.
func ParseScale(v string) (Scale, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for s, name := range scaleNames {
		if v == string(s) || v == name {
			return s, nil
		}
	}
	return "", &ScaleError{Value: v}
}

// Row is one calendar year of cells.
type Row struct {
	Year  int
	Cells []Phase
}

type Grid []Row

// Count tallies cells per phase. Every phase is present in the result.
func (g Grid) Count() map[Phase]int {
	counts := make(map[Phase]int, len(Phases))
	for _, p := range Phases {
		counts[p] = 0
	}
	for _, row := range g {
		for _, c := range row.Cells {
			counts[c]++
		}
	}
	return counts
}

// Cells returns the total number of cells.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g {
		n += len(row.Cells)
	}
	return n
}
