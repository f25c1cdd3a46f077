package dataset

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hyperjump/kotae/internal/models"
)

const (
	// DeploymentManufacturing serves batch, equipment, plan and order records.
	DeploymentManufacturing = "manufacturing"
	// DeploymentSales serves revenue, product and customer records.
	DeploymentSales = "sales"
)

// Deployment is one fixed set of domain tags and their record collections.
type Deployment struct {
	Name        string
	Tags        []models.DomainTag
	Collections map[models.DomainTag][]models.Record

	decoders map[models.DomainTag]func([]byte) (models.Record, error)
}

// DefaultTag returns the first declared tag.
func (d *Deployment) DefaultTag() models.DomainTag {
	if len(d.Tags) == 0 {
		return ""
	}
	return d.Tags[0]
}

// decode turns a stored JSON row back into the typed record for tag.
func (d *Deployment) decode(tag models.DomainTag, data []byte) (models.Record, error) {
	dec, ok := d.decoders[tag]
	if !ok {
		return nil, fmt.Errorf("no record type for domain %q", tag)
	}
	return dec(data)
}

func decodeAs[T models.Record](data []byte) (models.Record, error) {
	var r T
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func collect[T models.Record](rows []T) []models.Record {
	out := make([]models.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

var deployments = map[string]func() *Deployment{
	DeploymentManufacturing: Manufacturing,
	DeploymentSales:         Sales,
}

// Lookup returns the built-in deployment with the given name.
func Lookup(name string) (*Deployment, error) {
	build, ok := deployments[name]
	if !ok {
		return nil, fmt.Errorf("unknown deployment %q (available: %v)", name, Names())
	}
	return build(), nil
}

// Names returns the built-in deployment names, sorted.
func Names() []string {
	names := make([]string, 0, len(deployments))
	for name := range deployments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
