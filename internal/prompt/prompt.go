// Package prompt builds the single completion prompt sent for a question.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

const (
	// Directive opens every prompt.
	Directive = "You must respond with ONLY valid JSON, no other text."

	// Schema closes every prompt and restates the reply shape the model must produce.
	Schema = `Respond with ONLY valid JSON in this exact format:
{"chartType":"line|bar|pie|area|table","title":"...","xAxis":{"label":"...","data":[...]},"yAxis":{"label":"..."},"series":[{"name":"...","data":[...]}],"insight":"..."}`
)

// Section headings, in prompt order.
const (
	DataHeading      = "INTERNAL DATA CONTEXT:"
	KnowledgeHeading = "BUSINESS DEFINITIONS:"
	QuestionHeading  = "USER QUESTION:"
)

// Assemble lays out the prompt: directive, records as two-space indented JSON, knowledge text,
// question, instruction template and the schema line. Knowledge, question and template are
// inserted verbatim.
func Assemble(records []models.Record, knowledge, question, template string) (string, error) {
	data, err := FormatRecords(records)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Directive)
	b.WriteString("\n\n")
	b.WriteString(DataHeading)
	b.WriteString("\n")
	b.WriteString(data)
	b.WriteString("\n\n")
	b.WriteString(KnowledgeHeading)
	b.WriteString("\n")
	b.WriteString(knowledge)
	b.WriteString("\n\n")
	b.WriteString(QuestionHeading)
	b.WriteString("\n")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(template)
	b.WriteString("\n\n")
	b.WriteString(Schema)
	return b.String(), nil
}

// FormatRecords renders records as a JSON array indented by two spaces. HTML characters are
// left unescaped so product names reach the model as written.
func FormatRecords(records []models.Record) (string, error) {
	if records == nil {
		records = []models.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// TemplateFile reads the instruction template from disk on every call so edits apply to the
// next question without a restart.
type TemplateFile struct {
	path string
}

// NewTemplateFile returns a template source for path.
func NewTemplateFile(path string) *TemplateFile {
	return &TemplateFile{path: path}
}

// Path returns the template location.
func (t *TemplateFile) Path() string {
	return t.path
}

// Load returns the template text. A missing file yields an empty template.
func (t *TemplateFile) Load() (string, error) {
	if t.path == "" {
		return "", nil
	}
	b, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	return string(b), nil
}
