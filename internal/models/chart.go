package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ChartType is the kind of visualization the model chose.
type ChartType string

const (
	ChartLine     ChartType = "line"
	ChartBar      ChartType = "bar"
	ChartArea     ChartType = "area"
	ChartPie      ChartType = "pie"
	ChartDoughnut ChartType = "doughnut"
	ChartTable    ChartType = "table"
)

// Known reports whether t is one of the chart types above.
func (t ChartType) Known() bool {
	switch t {
	case ChartLine, ChartBar, ChartArea, ChartPie, ChartDoughnut, ChartTable:
		return true
	}
	return false
}

// ChartSpec is the wire shape returned to the rendering layer. Every field is optional on the
// wire; when Error is set the consumer renders an error state instead of a chart.
// Use Chart to obtain the variant that carries only the fields required by ChartType.
//
// A spec decoded from JSON re-encodes to exactly the object it was decoded from, including
// fields this struct does not model. Specs built in code encode from their fields.
type ChartSpec struct {
	ChartType ChartType `json:"chartType,omitempty"`
	Title     string    `json:"title,omitempty"`
	XAxis     *XAxis    `json:"xAxis,omitempty"`
	YAxis     *YAxis    `json:"yAxis,omitempty"`
	Series    []Series  `json:"series,omitempty"`
	Data      []Slice   `json:"data,omitempty"`
	Columns   []Cell    `json:"columns,omitempty"`
	Rows      [][]Cell  `json:"rows,omitempty"`
	Insight   string    `json:"insight,omitempty"`
	Error     string    `json:"error,omitempty"`

	raw     json.RawMessage
	typeErr *json.UnmarshalTypeError
}

// ErrNotObject is returned when decoding a ChartSpec from a JSON value that is not an object.
var ErrNotObject = errors.New("chart must be a JSON object")

type wireSpec ChartSpec

// UnmarshalJSON implements json.Unmarshaler. Only a value that is not an object fails; a field
// holding a value of the wrong type is left unset and reported by Chart. null is a no-op.
func (s *ChartSpec) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if string(trimmed) == "null" {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	var w wireSpec
	err := json.Unmarshal(trimmed, &w)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return err
	}
	*s = ChartSpec(w)
	s.raw = append(json.RawMessage(nil), trimmed...)
	s.typeErr = typeErr
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s ChartSpec) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	return json.Marshal(wireSpec(s))
}

// XAxis holds category labels (or numeric positions) for series charts.
type XAxis struct {
	Label string `json:"label,omitempty"`
	Data  []Cell `json:"data,omitempty"`
}

// YAxis holds the value axis label.
type YAxis struct {
	Label string `json:"label,omitempty"`
}

// Series is one named line, bar group, or area. A null value is a gap, not a zero.
type Series struct {
	Name string `json:"name"`
	Data []Cell `json:"data"`
}

// Slice is one pie/doughnut segment.
type Slice struct {
	Name  string `json:"name"`
	Value Cell   `json:"value"`
}

// Cell is a JSON value kept as its raw token, so labels, values and table cells keep whatever
// the model wrote: strings, numbers, bools or null. Scalar reports whether it is one of those.
type Cell struct {
	raw json.RawMessage
}

// TextCell returns a cell holding s.
func TextCell(s string) Cell {
	b, _ := json.Marshal(s)
	return Cell{raw: b}
}

// NumberCell returns a cell holding f.
func NumberCell(f float64) Cell {
	return Cell{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// TextCells returns one text cell per value.
func TextCells(vals ...string) []Cell {
	out := make([]Cell, len(vals))
	for i, v := range vals {
		out[i] = TextCell(v)
	}
	return out
}

// NumberCells returns one number cell per value.
func NumberCells(vals ...float64) []Cell {
	out := make([]Cell, len(vals))
	for i, v := range vals {
		out[i] = NumberCell(v)
	}
	return out
}

// IsNull reports whether the cell is JSON null or empty.
func (c Cell) IsNull() bool {
	return len(c.raw) == 0 || string(c.raw) == "null"
}

// Scalar reports whether the cell is not an object or array.
func (c Cell) Scalar() bool {
	return len(c.raw) == 0 || (c.raw[0] != '{' && c.raw[0] != '[')
}

// Float returns the cell as a number. Numeric strings such as "12" count; null, bools and
// other text do not.
func (c Cell) Float() (float64, bool) {
	if c.IsNull() {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(c.raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(c.raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// MarshalJSON implements json.Marshaler.
func (c Cell) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Any value is kept.
func (c *Cell) UnmarshalJSON(b []byte) error {
	c.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}

// String renders the cell for display: strings unquoted, other scalars as written.
func (c Cell) String() string {
	if len(c.raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.raw, &s); err == nil {
		return s
	}
	if string(c.raw) == "null" {
		return ""
	}
	return string(c.raw)
}

// Chart is the tagged union over ChartSpec shapes. The concrete types are
// *SeriesChart, *PieChart, *TableChart and *ErrorChart.
type Chart interface {
	Kind() ChartType
	isChart()
}

// SeriesChart is a line, bar, or area chart.
type SeriesChart struct {
	Type       ChartType
	Title      string
	XLabel     string
	Categories []Cell
	YLabel     string
	Series     []Series
	Insight    string
}

// PieChart is a pie or doughnut chart.
type PieChart struct {
	Type    ChartType
	Title   string
	Slices  []Slice
	Insight string
}

// TableChart is a plain table.
type TableChart struct {
	Title   string
	Columns []Cell
	Rows    [][]Cell
	Insight string
}

// ErrorChart carries only an error message.
type ErrorChart struct {
	Message string
}

func (c *SeriesChart) Kind() ChartType { return c.Type }
func (c *PieChart) Kind() ChartType    { return c.Type }
func (c *TableChart) Kind() ChartType  { return ChartTable }
func (c *ErrorChart) Kind() ChartType  { return "" }

func (*SeriesChart) isChart() {}
func (*PieChart) isChart()    {}
func (*TableChart) isChart()  {}
func (*ErrorChart) isChart()  {}

// ShapeError reports a ChartSpec whose fields do not satisfy its chart type.
type ShapeError struct {
	ChartType ChartType
	Reason    string
}

func (e *ShapeError) Error() string {
	if e.ChartType == "" {
		return "invalid chart: " + e.Reason
	}
	return fmt.Sprintf("invalid %s chart: %s", e.ChartType, e.Reason)
}

// ErrorSpec returns a ChartSpec carrying only msg.
func ErrorSpec(msg string) ChartSpec {
	return ChartSpec{Error: msg}
}

// IsError reports whether s is the error variant.
func (s ChartSpec) IsError() bool {
	return s.Error != ""
}

// Chart converts the wire shape into its variant. An error spec always converts to *ErrorChart.
// A *ShapeError is returned when a field had the wrong JSON type, when the fields required by
// ChartType are missing, or when a value that must be scalar is an object or array.
func (s ChartSpec) Chart() (Chart, error) {
	if s.IsError() {
		return &ErrorChart{Message: s.Error}, nil
	}
	if s.typeErr != nil {
		return nil, &ShapeError{ChartType: s.ChartType, Reason: wrongType(s.typeErr)}
	}
	if field := s.nonScalarField(); field != "" {
		return nil, &ShapeError{ChartType: s.ChartType, Reason: field + " must hold scalar values"}
	}
	switch s.ChartType {
	case ChartLine, ChartBar, ChartArea:
		if s.XAxis == nil || s.XAxis.Data == nil {
			return nil, &ShapeError{ChartType: s.ChartType, Reason: "xAxis.data is required"}
		}
		if s.Series == nil {
			return nil, &ShapeError{ChartType: s.ChartType, Reason: "series is required"}
		}
		c := &SeriesChart{
			Type:       s.ChartType,
			Title:      s.Title,
			XLabel:     s.XAxis.Label,
			Categories: s.XAxis.Data,
			Series:     s.Series,
			Insight:    s.Insight,
		}
		if s.YAxis != nil {
			c.YLabel = s.YAxis.Label
		}
		return c, nil
	case ChartPie, ChartDoughnut:
		if s.Data == nil {
			return nil, &ShapeError{ChartType: s.ChartType, Reason: "data is required"}
		}
		return &PieChart{Type: s.ChartType, Title: s.Title, Slices: s.Data, Insight: s.Insight}, nil
	case ChartTable:
		if s.Columns == nil || s.Rows == nil {
			return nil, &ShapeError{ChartType: s.ChartType, Reason: "columns and rows are required"}
		}
		return &TableChart{Title: s.Title, Columns: s.Columns, Rows: s.Rows, Insight: s.Insight}, nil
	case "":
		return nil, &ShapeError{Reason: "chartType is required"}
	default:
		return nil, &ShapeError{ChartType: s.ChartType, Reason: "unknown chart type"}
	}
}

func wrongType(e *json.UnmarshalTypeError) string {
	field := e.Field
	if field == "" {
		field = "value"
	}
	return fmt.Sprintf("%s has the wrong type (got %s)", field, e.Value)
}

func (s ChartSpec) nonScalarField() string {
	if s.XAxis != nil && !allScalar(s.XAxis.Data) {
		return "xAxis.data"
	}
	for _, sr := range s.Series {
		if !allScalar(sr.Data) {
			return "series.data"
		}
	}
	for _, sl := range s.Data {
		if !sl.Value.Scalar() {
			return "data.value"
		}
	}
	if !allScalar(s.Columns) {
		return "columns"
	}
	for _, r := range s.Rows {
		if !allScalar(r) {
			return "rows"
		}
	}
	return ""
}

func allScalar(cells []Cell) bool {
	for _, c := range cells {
		if !c.Scalar() {
			return false
		}
	}
	return true
}

// Validate returns the ShapeError from Chart, if any.
func (s ChartSpec) Validate() error {
	_, err := s.Chart()
	return err
}
