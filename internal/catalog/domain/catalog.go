package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog entry not found")

// Hospital is a customer account. Orders join against it by id; deactivated
// hospitals stay on record so historical orders keep their reference.
type Hospital struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ShortName      *string `json:"short_name"`
	HospitalType   string  `json:"hospital_type"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	ContactPerson  *string `json:"contact_person"`
	BusinessNumber *string `json:"business_number"`
	PaymentTerms   *string `json:"payment_terms"`
	LeadTimeDays   int     `json:"lead_time_days"`
	IsActive       bool    `json:"is_active"`
}

type Product struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	OfficialName string              `json:"official_name"`
	ShortName    *string             `json:"short_name"`
	Category     string              `json:"category"`
	Manufacturer *string             `json:"manufacturer"`
	Ingredient   *string             `json:"ingredient"`
	Efficacy     *string             `json:"efficacy"`
	StandardCode *string             `json:"standard_code"`
	Unit         *string             `json:"unit"`
	UnitPrice    decimal.NullDecimal `json:"unit_price"`
	IsActive     bool                `json:"is_active"`
}

type Supplier struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ShortName   *string         `json:"short_name"`
	ContactInfo json.RawMessage `json:"contact_info"`
	Notes       *string         `json:"notes"`
	IsActive    bool            `json:"is_active"`
}

// ProductAlias maps a name seen in incoming messages to a product. A nil
// hospital scopes the alias globally; hospital-specific aliases win during
// matching.
type ProductAlias struct {
	ID         int64  `json:"id"`
	HospitalID *int64 `json:"hospital_id"`
	Alias      string `json:"alias"`
	ProductID  int64  `json:"product_id"`
	Source     string `json:"source"`
}

// Alias sources.
const (
	AliasSourceManual  = "manual"
	AliasSourceLearned = "learned"
)
