package knowledge

import (
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func corpus() []models.KnowledgeDocument {
	return []models.KnowledgeDocument{
		{Source: "a_overview.md", Content: "# Overview\nThe plant runs three lines."},
		{Source: "b_finance.md", Content: "Revenue is booked on shipment. Profit excludes tax."},
		{Source: "c_charts.md", Content: "Use a Chart of type pie for shares."},
		{Source: "d_customers.md", Content: "A customer is any billed account."},
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	r := NewRetriever(nil)
	tests := []struct {
		name     string
		question string
		corpus   []models.KnowledgeDocument
		want     string
	}{
		{"empty corpus", "revenue by month", nil, ""},
		{"fallback to first", "asdkjasdlk", corpus(), "# Overview\nThe plant runs three lines."},
		{"single topic", "Show REVENUE trend", corpus(), "Revenue is booked on shipment. Profit excludes tax."},
		{
			"multiple topics keep corpus order",
			"customer profit as a chart",
			corpus(),
			"Revenue is booked on shipment. Profit excludes tax.\n\nUse a Chart of type pie for shares.\n\nA customer is any billed account.",
		},
		{"product not mentioned", "product mix", corpus(), "# Overview\nThe plant runs three lines."},
		{"topic without any mention", "costs per line", corpus(), "# Overview\nThe plant runs three lines."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Retrieve(tt.question, tt.corpus)
			if got != tt.want {
				t.Errorf("Retrieve(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestRetriever_SelectDoesNotDuplicate(t *testing.T) {
	docs := []models.KnowledgeDocument{{Source: "x.md", Content: "revenue and profit"}}
	got := NewRetriever(nil).Select("revenue and profit", docs)
	if len(got) != 1 {
		t.Errorf("got %d documents, want 1", len(got))
	}
}

func TestRetriever_CustomPairs(t *testing.T) {
	r := NewRetriever([]TopicPair{{Topic: "OEE", Keyword: "Utilization"}})
	docs := []models.KnowledgeDocument{
		{Source: "a.md", Content: "first"},
		{Source: "b.md", Content: "utilization is run time over available time"},
	}
	if got := r.Retrieve("what is our oee", docs); got != docs[1].Content {
		t.Errorf("got %q", got)
	}
}
