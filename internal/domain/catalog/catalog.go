package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Catalog answers lookups over the reference collections.
// A Catalog is immutable after New and safe for concurrent use.
type Catalog struct {
	contractors  []Contractor
	warehouses   []Warehouse
	services     []ServiceDefinition
	palletTypes  []PalletType
	assignments  []ContractorService
	contractorBy map[string]Contractor
	warehouseBy  map[string]Warehouse
	serviceBy    map[string]ServiceDefinition
	palletBy     map[string]PalletType
}

// New indexes data. Input slices are copied.
func New(data Data) *Catalog {
	c := &Catalog{
		contractors:  slices.Clone(data.Contractors),
		warehouses:   slices.Clone(data.Warehouses),
		services:     slices.Clone(data.Services),
		palletTypes:  slices.Clone(data.PalletTypes),
		assignments:  slices.Clone(data.ContractorServices),
		contractorBy: make(map[string]Contractor, len(data.Contractors)),
		warehouseBy:  make(map[string]Warehouse, len(data.Warehouses)),
		serviceBy:    make(map[string]ServiceDefinition, len(data.Services)),
		palletBy:     make(map[string]PalletType, len(data.PalletTypes)),
	}
	for _, x := range c.contractors {
		c.contractorBy[x.ID] = x
	}
	for _, x := range c.warehouses {
		c.warehouseBy[x.ID] = x
	}
	for _, x := range c.services {
		c.serviceBy[x.ID] = x
	}
	for _, x := range c.palletTypes {
		c.palletBy[x.ID] = x
	}

	// Names sort with Polish collation.
	col := collate.New(language.Polish)
	slices.SortStableFunc(c.contractors, func(a, b Contractor) int {
		return col.CompareString(a.Name, b.Name)
	})
	slices.SortStableFunc(c.warehouses, func(a, b Warehouse) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return c
}

// Contractors returns active contractors sorted by name.
func (c *Catalog) Contractors() []Contractor {
	out := make([]Contractor, 0, len(c.contractors))
	for _, x := range c.contractors {
		if x.IsActive {
			out = append(out, x)
		}
	}
	return out
}

// ContractorIDs returns ids of active contractors in display order.
func (c *Catalog) ContractorIDs() []string {
	active := c.Contractors()
	ids := make([]string, len(active))
	for i, x := range active {
		ids[i] = x.ID
	}
	return ids
}

func (c *Catalog) Contractor(id string) (Contractor, bool) {
	x, ok := c.contractorBy[id]
	return x, ok
}

// Warehouses returns all warehouses ordered by SortOrder.
func (c *Catalog) Warehouses() []Warehouse {
	return slices.Clone(c.warehouses)
}

func (c *Catalog) Warehouse(id string) (Warehouse, bool) {
	x, ok := c.warehouseBy[id]
	return x, ok
}

func (c *Catalog) Services() []ServiceDefinition {
	return slices.Clone(c.services)
}

func (c *Catalog) Service(id string) (ServiceDefinition, bool) {
	x, ok := c.serviceBy[id]
	return x, ok
}

func (c *Catalog) PalletTypes() []PalletType {
	return slices.Clone(c.palletTypes)
}

func (c *Catalog) PalletType(id string) (PalletType, bool) {
	x, ok := c.palletBy[id]
	return x, ok
}

// ServiceName returns the display name or the id itself for unknown services.
func (c *Catalog) ServiceName(id string) string {
	if s, ok := c.serviceBy[id]; ok {
		return s.Name
	}
	return id
}

// PalletTypeName returns the display name or the id itself for unknown pallet types.
func (c *Catalog) PalletTypeName(id string) string {
	if p, ok := c.palletBy[id]; ok {
		return p.Name
	}
	return id
}

// EnabledServices lists the services a contractor is billed for.
// Assignments without a definition are dropped. Pallets in and out are
// always present when defined, in front of the configured ones, with
// pallets out first.
func (c *Catalog) EnabledServices(contractorID string) []EnabledService {
	var out []EnabledService
	for _, a := range c.assignments {
		if a.ContractorID != contractorID || !a.IsEnabled {
			continue
		}
		def, ok := c.serviceBy[a.ServiceID]
		if !ok {
			continue
		}
		out = append(out, EnabledService{ContractorService: a, Definition: def})
	}

	for _, mandatory := range []string{ServicePalletsIn, ServicePalletsOut} {
		if slices.ContainsFunc(out, func(s EnabledService) bool { return s.ServiceID == mandatory }) {
			continue
		}
		def, ok := c.serviceBy[mandatory]
		if !ok {
			continue
		}
		auto := EnabledService{
			ContractorService: ContractorService{
				ID:           fmt.Sprintf("auto-%s-%s", contractorID, mandatory),
				ContractorID: contractorID,
				ServiceID:    mandatory,
				IsEnabled:    true,
			},
			Definition: def,
		}
		out = append([]EnabledService{auto}, out...)
	}
	return out
}
