// Package classify routes a free-text question to a domain tag by ordered keyword groups.
package classify

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kotae/internal/dataset"
	"github.com/hyperjump/kotae/internal/models"
)

// Rule binds a keyword group to a tag. Keywords are lowercase substrings.
type Rule struct {
	Tag      models.DomainTag
	Keywords []string
}

// Classifier evaluates rules top to bottom; the first matching rule wins.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules      []Rule
	defaultTag models.DomainTag
}

// NewClassifier returns a classifier over rules with the given fallback tag.
func NewClassifier(rules []Rule, defaultTag models.DomainTag) *Classifier {
	return &Classifier{rules: rules, defaultTag: defaultTag}
}

// Classify returns the tag of the first rule with a keyword in question, or the default tag.
func (c *Classifier) Classify(question string) models.DomainTag {
	tag, _ := c.Explain(question)
	return tag
}

// Explain is Classify plus the keyword that decided it (empty when the default was used).
func (c *Classifier) Explain(question string) (models.DomainTag, string) {
	lower := strings.ToLower(question)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Tag, kw
			}
		}
	}
	return c.defaultTag, ""
}

// Rules returns a copy of the ordered rules.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// ManufacturingRules is the precedence order for the manufacturing deployment.
var ManufacturingRules = []Rule{
	{Tag: dataset.TagBatch, Keywords: []string{"batch", "release", "released"}},
	{Tag: dataset.TagEquipment, Keywords: []string{"equipment", "utilization", "machine"}},
	{Tag: dataset.TagPlan, Keywords: []string{"plan", "planned", "actual"}},
	{Tag: dataset.TagOrder, Keywords: []string{"order", "fulfillment", "fulfill"}},
}

// SalesRules is the precedence order for the sales deployment.
var SalesRules = []Rule{
	{Tag: dataset.TagRevenue, Keywords: []string{"revenue", "profit", "cost", "margin"}},
	{Tag: dataset.TagProduct, Keywords: []string{"product", "sku", "units"}},
	{Tag: dataset.TagCustomer, Keywords: []string{"customer", "client", "segment"}},
}

var rulesByDeployment = map[string][]Rule{
	dataset.DeploymentManufacturing: ManufacturingRules,
	dataset.DeploymentSales:         SalesRules,
}

// ForDeployment returns a classifier for the named deployment, defaulting to its first tag.
func ForDeployment(d *dataset.Deployment) (*Classifier, error) {
	rules, ok := rulesByDeployment[d.Name]
	if !ok {
		return nil, fmt.Errorf("no classification rules for deployment %q", d.Name)
	}
	return NewClassifier(rules, d.DefaultTag()), nil
}
