// Package models defines core data structures for records, knowledge documents, questions, and charts.
package models

// KnowledgeDocument is one reference document from the knowledge directory.
// Source is the file name the content was read from.
type KnowledgeDocument struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// DomainTag identifies which record collection a question is routed to.
type DomainTag string

// Record is one immutable fixture row. Implementations are flat structs whose
// JSON field order is the order shown to the model.
type Record interface {
	RecordID() string
}
