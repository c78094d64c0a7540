package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/lifecal/internal/timeline"
)

type jsonRow struct {
	Year  int              `json:"year"`
	Cells []timeline.Phase `json:"cells"`
}

type jsonGrid struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Scale string    `json:"scale"`
	Years int       `json:"years"`
	Rows  []jsonRow `json:"rows"`
}

// JSON writes the state and its grid.
func JSON(w io.Writer, s timeline.State, grid timeline.Grid) error {
	out := jsonGrid{
		Start: s.Start.Format(time.DateOnly),
		End:   s.End.Format(time.DateOnly),
		Scale: s.Scale.String(),
		Years: s.Years,
		Rows:  make([]jsonRow, 0, len(grid)),
	}
	for _, row := range grid {
		out.Rows = append(out.Rows, jsonRow{Year: row.Year, Cells: row.Cells})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
