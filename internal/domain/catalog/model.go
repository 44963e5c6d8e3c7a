// Package catalog holds the reference collections the ledger is keyed by.
// They are read-only for the core and replaced as a whole on snapshot load.
package catalog

// Well-known service ids.
const (
	ServicePalletsIn  = "svc-pallets-in"
	ServicePalletsOut = "svc-pallets-out"
	ServiceStorage    = "svc-storage"
)

// IsMovementService reports whether serviceID denotes a pallet movement.
func IsMovementService(serviceID string) bool {
	return serviceID == ServicePalletsIn || serviceID == ServicePalletsOut
}

// IsBuiltinService reports whether serviceID is billed by the engine itself
// rather than as an additional flat service.
func IsBuiltinService(serviceID string) bool {
	return IsMovementService(serviceID) || serviceID == ServiceStorage
}

// Contractor is a billable customer.
type Contractor struct {
	ID                  string   `db:"id" json:"id"`
	Name                string   `db:"name" json:"name"`
	IsActive            bool     `db:"is_active" json:"isActive"`
	AcceptedPalletTypes []string `db:"accepted_pallet_types" json:"acceptedPalletTypes"`
}

// Accepts reports whether the contractor stores the given pallet type.
// An empty list accepts everything.
func (c Contractor) Accepts(palletTypeID string) bool {
	if len(c.AcceptedPalletTypes) == 0 {
		return true
	}
	for _, id := range c.AcceptedPalletTypes {
		if id == palletTypeID {
			return true
		}
	}
	return false
}

type Warehouse struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sortOrder"`
}

// ServiceDefinition describes a billable activity and its unit of measure.
type ServiceDefinition struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Unit        string `db:"unit" json:"unit"`
	Description string `db:"description" json:"description,omitempty"`
}

type PalletType struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Dimensions string `db:"dimensions" json:"dimensions,omitempty"`
	MaxLoad    int    `db:"max_load" json:"maxLoad,omitempty"`
	Notes      string `db:"notes" json:"notes,omitempty"`
}

// ContractorService enables a service for a contractor.
type ContractorService struct {
	ID           string `db:"id" json:"id"`
	ContractorID string `db:"contractor_id" json:"contractorId"`
	ServiceID    string `db:"service_id" json:"serviceId"`
	IsEnabled    bool   `db:"is_enabled" json:"isEnabled"`
}

// EnabledService is an assignment joined with its definition.
type EnabledService struct {
	ContractorService
	Definition ServiceDefinition `json:"definition"`
}

// Data is the raw content of all reference collections.
type Data struct {
	Contractors        []Contractor
	Warehouses         []Warehouse
	Services           []ServiceDefinition
	PalletTypes        []PalletType
	ContractorServices []ContractorService
}
