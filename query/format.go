package query

import (
	"fmt"
	"strings"
)

// FormatTable renders header/rows per §6's output formatter rules: column
// widths grow to fit the widest cell (or the header, or 20 with neither),
// rounded up to the next multiple of ten, framed by "-" separator lines.
func FormatTable(header []string, rows [][]string) string {
	w := columnWidths(header, rows)
	sep := strings.Repeat("-", sum(w)+10)

	var b strings.Builder
	b.WriteString(sep)
	if len(header) > 0 {
		b.WriteByte('\n')
		b.WriteString(formatRow(header, w))
	}
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(formatRow(row, w))
	}
	b.WriteByte('\n')
	b.WriteString(sep)
	return b.String()
}

// Trailer renders the SELECT row-count trailer line.
func Trailer(n int) string {
	if n == 1 {
		return "1 row in set"
	}
	return fmt.Sprintf("%d rows in set", n)
}

func columnWidths(header []string, rows [][]string) []int {
	n := len(header)
	if n == 0 && len(rows) > 0 {
		n = len(rows[0])
	}
	w := make([]int, n)
	for i := range w {
		if len(header) > 0 {
			w[i] = len(header[i])
		} else {
			w[i] = 20
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > w[i] {
				w[i] = len(cell)
			}
		}
	}
	for i := range w {
		w[i] = roundUpToTen(w[i])
	}
	return w
}

func roundUpToTen(n int) int {
	return ((n + 9) / 10) * 10
}

func formatRow(cells []string, w []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%-*s", w[i], c)
	}
	return strings.Join(parts, " | ")
}

func sum(w []int) int {
	total := 0
	for _, x := range w {
		total += x
	}
	return total
}
