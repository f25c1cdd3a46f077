package classify

import (
	"testing"

	"github.com/hyperjump/kotae/internal/dataset"
	"github.com/hyperjump/kotae/internal/models"
)

func TestClassifier_Manufacturing(t *testing.T) {
	c, err := ForDeployment(dataset.Manufacturing())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		question string
		want     models.DomainTag
	}{
		{"batch keyword", "Show batch release status by line", dataset.TagBatch},
		{"released keyword", "How many were RELEASED last week?", dataset.TagBatch},
		{"equipment keyword", "Equipment status overview", dataset.TagEquipment},
		{"utilization keyword", "average utilization per line", dataset.TagEquipment},
		{"machine keyword", "Which machine is offline?", dataset.TagEquipment},
		{"plan keyword", "planned vs produced", dataset.TagPlan},
		{"actual keyword", "Compare actual output", dataset.TagPlan},
		{"order keyword", "Open orders by due date", dataset.TagOrder},
		{"fulfillment keyword", "Fulfillment rate", dataset.TagOrder},
		{"no keyword", "asdkjasdlk", dataset.TagBatch},
		{"empty question", "", dataset.TagBatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestClassifier_Precedence(t *testing.T) {
	c, err := ForDeployment(dataset.Manufacturing())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		question string
		want     models.DomainTag
	}{
		{"equipment used by each batch", dataset.TagBatch},
		{"orders that missed the plan", dataset.TagPlan},
		{"machine utilization for open orders", dataset.TagEquipment},
		// "explanation" contains "plan" as a substring.
		{"explanation of order delays", dataset.TagPlan},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.question); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestClassifier_Sales(t *testing.T) {
	c, err := ForDeployment(dataset.Sales())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		question string
		want     models.DomainTag
	}{
		{"Monthly revenue trend", dataset.TagRevenue},
		{"Profit by region", dataset.TagRevenue},
		{"Top product by units sold", dataset.TagProduct},
		{"Customer count per segment", dataset.TagCustomer},
		{"revenue per customer", dataset.TagRevenue},
		{"hello", dataset.TagRevenue},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.question); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestClassifier_Explain(t *testing.T) {
	c := NewClassifier(ManufacturingRules, dataset.TagBatch)
	tag, kw := c.Explain("Machine status")
	if tag != dataset.TagEquipment || kw != "machine" {
		t.Errorf("Explain = (%q, %q)", tag, kw)
	}
	tag, kw = c.Explain("nothing here")
	if tag != dataset.TagBatch || kw != "" {
		t.Errorf("Explain default = (%q, %q)", tag, kw)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(SalesRules, dataset.TagRevenue)
	q := "customer product revenue"
	first := c.Classify(q)
	for i := 0; i < 100; i++ {
		if got := c.Classify(q); got != first {
			t.Fatalf("iteration %d: got %q, want %q", i, got, first)
		}
	}
}

func TestForDeployment_Unknown(t *testing.T) {
	if _, err := ForDeployment(&dataset.Deployment{Name: "retail"}); err == nil {
		t.Error("expected error for deployment without rules")
	}
}
