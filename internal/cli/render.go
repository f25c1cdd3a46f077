// Package cli renders kotae results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteChart writes spec to w in the given format.
func WriteChart(w io.Writer, spec models.ChartSpec, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, spec)
	}
	chart, err := spec.Chart()
	if err != nil {
		if spec.ChartType != "" && !spec.ChartType.Known() {
			fmt.Fprintf(w, "Unknown chart type: %s\n", spec.ChartType)
			return nil
		}
		fmt.Fprintf(w, "Cannot render chart: %v\n", err)
		return nil
	}

	switch c := chart.(type) {
	case *models.ErrorChart:
		fmt.Fprintf(w, "Error: %s\n", c.Message)
		return nil
	case *models.SeriesChart:
		writeHeading(w, c.Title, c.Type)
		writeSeries(w, c)
		writeInsight(w, c.Insight)
	case *models.PieChart:
		writeHeading(w, c.Title, c.Type)
		writePie(w, c)
		writeInsight(w, c.Insight)
	case *models.TableChart:
		writeHeading(w, c.Title, models.ChartTable)
		writeTable(w, c.Columns, c.Rows)
		writeInsight(w, c.Insight)
	}
	return nil
}

func writeHeading(w io.Writer, title string, kind models.ChartType) {
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s [%s]\n\n", title, kind)
}

func writeInsight(w io.Writer, insight string) {
	if insight != "" {
		fmt.Fprintf(w, "\nInsight: %s\n", insight)
	}
}

func writeSeries(w io.Writer, c *models.SeriesChart) {
	header := []string{c.XLabel}
	if header[0] == "" {
		header[0] = "x"
	}
	for _, s := range c.Series {
		header = append(header, s.Name)
	}
	rows := make([][]string, len(c.Categories))
	for i, cat := range c.Categories {
		row := []string{cat.String()}
		for _, s := range c.Series {
			if i < len(s.Data) {
				row = append(row, formatCell(s.Data[i]))
			} else {
				row = append(row, "")
			}
		}
		rows[i] = row
	}
	writeGrid(w, header, rows)
	if c.YLabel != "" {
		fmt.Fprintf(w, "\n(values: %s)\n", c.YLabel)
	}
}

func writePie(w io.Writer, c *models.PieChart) {
	var total float64
	for _, s := range c.Slices {
		if v, ok := s.Value.Float(); ok {
			total += v
		}
	}
	rows := make([][]string, len(c.Slices))
	for i, s := range c.Slices {
		share := ""
		if v, ok := s.Value.Float(); ok && total != 0 {
			share = strconv.FormatFloat(v/total*100, 'f', 1, 64) + "%"
		}
		rows[i] = []string{s.Name, formatCell(s.Value), share}
	}
	writeGrid(w, []string{"name", "value", "share"}, rows)
}

func writeTable(w io.Writer, columns []models.Cell, cells [][]models.Cell) {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.String()
	}
	rows := make([][]string, len(cells))
	for i, r := range cells {
		row := make([]string, len(r))
		for j, c := range r {
			row[j] = c.String()
		}
		rows[i] = row
	}
	writeGrid(w, header, rows)
}

const maxCellWidth = 40

func writeGrid(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, header)
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", max(len([]rune(h)), 3))
	}
	writeRow(tw, rule)
	for _, r := range rows {
		writeRow(tw, r)
	}
	_ = tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = utils.Truncate(strings.ReplaceAll(c, "\t", " "), maxCellWidth)
	}
	fmt.Fprintln(w, strings.Join(out, "\t"))
}

// formatCell prints numeric values through formatNumber, null as blank, and anything else as written.
func formatCell(c models.Cell) string {
	if v, ok := c.Float(); ok {
		return formatNumber(v)
	}
	return c.String()
}

// formatNumber prints whole numbers with thousands separators and keeps fractions as written.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return humanize.Comma(int64(f))
	}
	return humanize.CommafWithDigits(f, 2)
}

// FormatBytes renders a byte count for listings.
func FormatBytes(n int) string {
	return humanize.Bytes(uint64(n))
}
