// Package render formats search results for the console and the sandbox.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// FormatHits joins hit renderings with single spaces.
func FormatHits(hits []model.Hit) string {
	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.String()
	}
	return strings.Join(parts, " ")
}

// Lines renders the best line followed by one line per bucket.
func Lines(agg model.Aggregated, limit int) []string {
	lines := make([]string, 0, len(agg.Buckets)+1)
	lines = append(lines, fmt.Sprintf("Top %d Best -> %s", limit, FormatHits(agg.Best)))
	for _, b := range agg.Buckets {
		lines = append(lines, fmt.Sprintf("Angle ~%d -> %s", b.Key, FormatHits(b.Hits)))
	}
	return lines
}

// StyledLines is Lines with the labels and hits colored.
func StyledLines(agg model.Aggregated, limit int) []string {
	lines := make([]string, 0, len(agg.Buckets)+1)
	lines = append(lines, styledLine(fmt.Sprintf("Top %d Best", limit), agg.Best))
	for _, b := range agg.Buckets {
		lines = append(lines, styledLine(fmt.Sprintf("Angle ~%d", b.Key), b.Hits))
	}
	return lines
}

func styledLine(label string, hits []model.Hit) string {
	return labelStyle.Render(label) + " -> " + hitStyle.Render(FormatHits(hits))
}

// Table renders hits as aligned Velocity/Angle/Bucket columns.
func Table(hits []model.Hit) []string {
	rows := make([][]string, len(hits))
	for i, hit := range hits {
		rows[i] = []string{
			strconv.Itoa(hit.Velocity),
			strconv.Itoa(hit.Angle),
			fmt.Sprintf("~%d", ballistics.BucketKey(hit.Angle)),
		}
	}
	return FormatTable([]string{"Velocity", "Angle", "Bucket"}, rows, map[int]bool{0: true, 1: true, 2: true})
}
