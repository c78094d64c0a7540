package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifecal/internal/timeline"
)

// SVG draws one rect per cell. cell is the cell height in pixels; day
// cells are a quarter as wide and month cells four times as wide.
func SVG(grid timeline.Grid, scale timeline.Scale, theme Theme, cell float64) string {
	if cell <= 0 {
		cell = 8
	}
	cw := cell
	switch scale {
	case timeline.ScaleDay:
		cw = cell / 4
	case timeline.ScaleMonth:
		cw = cell * 4
	}
	gap := cell / 8
	label := cell * 5

	cols := timeline.ScaleCount[scale]
	width := label + float64(cols)*(cw+gap)
	height := float64(len(grid)) * (cell + gap)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for r, row := range grid {
		y := float64(r) * (cell + gap)
		sb.WriteString(fmt.Sprintf(`<text x="0" y="%.1f" font-size="%.1f" fill="%s">%d</text>
`, y+cell, cell, theme.Muted, row.Year))
		for c, p := range row.Cells {
			x := label + float64(c)*(cw+gap)
			sb.WriteString(fmt.Sprintf(`<rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, CellText(p, scale), x, y, cw, cell, theme.Color(p)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
