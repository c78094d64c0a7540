package timeline

import "time"

// YouthYears is the row-year cutoff between youth and maturity.
const YouthYears = 18

// CellDate returns the date of unit i (1-based) in the given year.
//
// Day cells are January i, so day 366 of a leap year has no cell. Week cells
// are January 7*i, a fixed stride from New Year's Day. Month cells fall on
// now's day-of-month and roll into the next month when it is too short.
func CellDate(year, i int, scale Scale, now time.Time) (time.Time, error) {
	loc := now.Location()
	switch scale {
	case ScaleDay:
		return time.Date(year, time.January, i, 0, 0, 0, 0, loc), nil
	case ScaleWeek:
		return time.Date(year, time.January, 7*i, 0, 0, 0, 0, loc), nil
	case ScaleMonth:
		return time.Date(year, time.Month(i), now.Day(), 0, 0, 0, 0, loc), nil
	default:
		return time.Time{}, &ScaleError{Value: string(scale)}
	}
}

// Classify assigns the phase of a cell dated d in row year.
func Classify(d, start, now time.Time, year int) Phase {
	switch {
	case !d.After(start):
		return PhaseNone
	case d.Before(now):
		if year <= start.Year()+YouthYears {
			return PhaseYouth
		}
		return PhaseMaturity
	default:
		return PhaseNext
	}
}

// Build computes the grid for [start.Year(), end.Year()). An unknown scale
// returns a nil grid.
func Build(start, end time.Time, scale Scale, now time.Time) (Grid, error) {
	if !scale.Valid() {
		return nil, &ScaleError{Value: string(scale)}
	}

	count := ScaleCount[scale]
	grid := make(Grid, 0, max(end.Year()-start.Year(), 0))

	for year := start.Year(); year < end.Year(); year++ {
		cells := make([]Phase, count)
		for i := 1; i <= count; i++ {
			d, err := CellDate(year, i, scale, now)
			if err != nil {
				return nil, err
			}
			cells[i-1] = Classify(d, start, now, year)
		}
		grid = append(grid, Row{Year: year, Cells: cells})
	}

	return grid, nil
}

// Build computes the grid for the state at now.
func (s State) Build(now time.Time) (Grid, error) {
	return Build(s.Start, s.End, s.Scale, now)
}
