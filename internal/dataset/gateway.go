// Package dataset exposes the read-only fixture record collections, one per domain tag.
package dataset

import "github.com/hyperjump/kotae/internal/models"

// Gateway lists fixture records by domain tag.
type Gateway interface {
	// ListByDomain returns the records for tag. Unmapped tags get the default collection.
	ListByDomain(tag models.DomainTag) []models.Record
	// Tags returns the deployment's tags in declaration order; the first is the default.
	Tags() []models.DomainTag
	// DefaultTag returns the tag used when a question matches no keyword group.
	DefaultTag() models.DomainTag
	// Name returns the deployment name.
	Name() string
}

// MemoryGateway serves a Deployment's collections from memory. Safe for concurrent readers.
type MemoryGateway struct {
	deployment *Deployment
}

// NewMemoryGateway returns a gateway over d.
func NewMemoryGateway(d *Deployment) *MemoryGateway {
	return &MemoryGateway{deployment: d}
}

// ListByDomain returns a copy of the collection for tag, falling back to the default collection.
// Callers may reorder or truncate the result freely.
func (g *MemoryGateway) ListByDomain(tag models.DomainTag) []models.Record {
	records, ok := g.deployment.Collections[tag]
	if !ok {
		records = g.deployment.Collections[g.DefaultTag()]
	}
	return append([]models.Record(nil), records...)
}

// Tags returns the deployment's tags.
func (g *MemoryGateway) Tags() []models.DomainTag {
	return append([]models.DomainTag(nil), g.deployment.Tags...)
}

// DefaultTag returns the first declared tag.
func (g *MemoryGateway) DefaultTag() models.DomainTag {
	return g.deployment.DefaultTag()
}

// Name returns the deployment name.
func (g *MemoryGateway) Name() string {
	return g.deployment.Name
}
