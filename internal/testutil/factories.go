package testutil

import (
	"database/sql"
	"testing"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
)

// FundEntryBuilder provides a fluent interface for creating test fund entries.
//
// Example usage:
//
//	// Simple creation with defaults
//	entry := testutil.NewFundEntry().Build(t, db)
//
//	// Customized entry
//	entry := testutil.NewFundEntry().
//	    WithShareClass("SC-1", "PV-1").
//	    WithUnits(10).
//	    Build(t, db)
type FundEntryBuilder struct {
	ID                string
	Name              string
	PvNumber          string
	ShareClassID      string
	InvestmentDate    string
	ValueOfInvestment *float64
	PricePerUnit      float64
	UnitsAcquired     *float64
	Currency          string
	Position          int
}

// NewFundEntry creates a FundEntryBuilder with sensible defaults.
func NewFundEntry() *FundEntryBuilder {
	return &FundEntryBuilder{
		ID:             MakeID(),
		Name:           "Test Fund",
		PvNumber:       "PV-100",
		ShareClassID:   "SC-100",
		InvestmentDate: "2024-01-15",
		PricePerUnit:   50.0,
		UnitsAcquired:  FloatPtr(10),
		Currency:       "EUR",
		Position:       1,
	}
}

// WithID sets a custom ID.
func (b *FundEntryBuilder) WithID(id string) *FundEntryBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *FundEntryBuilder) WithName(name string) *FundEntryBuilder {
	b.Name = name
	return b
}

// WithShareClass sets the share class and pool number identifiers.
func (b *FundEntryBuilder) WithShareClass(shareClassID, pvNumber string) *FundEntryBuilder {
	b.ShareClassID = shareClassID
	b.PvNumber = pvNumber
	return b
}

// WithPrice sets the acquisition price per unit.
func (b *FundEntryBuilder) WithPrice(price float64) *FundEntryBuilder {
	b.PricePerUnit = price
	return b
}

// WithUnits sets the acquired unit count.
func (b *FundEntryBuilder) WithUnits(units float64) *FundEntryBuilder {
	b.UnitsAcquired = FloatPtr(units)
	return b
}

// WithoutUnits clears the unit count so it must be derived from the invested
// value and price.
func (b *FundEntryBuilder) WithoutUnits() *FundEntryBuilder {
	b.UnitsAcquired = nil
	return b
}

// WithInvestment sets the total invested value.
func (b *FundEntryBuilder) WithInvestment(value float64) *FundEntryBuilder {
	b.ValueOfInvestment = FloatPtr(value)
	return b
}

// WithPosition sets the display position.
func (b *FundEntryBuilder) WithPosition(position int) *FundEntryBuilder {
	b.Position = position
	return b
}

// Build creates the fund entry in the database and returns it.
func (b *FundEntryBuilder) Build(t *testing.T, db *sql.DB) model.FundEntry {
	t.Helper()

	query := `
		INSERT INTO fund_entry (
			id, name, pv_number, share_class_id, investment_date,
			value_of_investment, price_per_unit, units_acquired, currency, position
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Name, b.PvNumber, b.ShareClassID, b.InvestmentDate,
		b.ValueOfInvestment, b.PricePerUnit, b.UnitsAcquired, b.Currency, b.Position,
	)
	if err != nil {
		t.Fatalf("Failed to create test fund entry: %v", err)
	}

	return model.FundEntry{
		ID:                b.ID,
		Name:              b.Name,
		PvNumber:          b.PvNumber,
		ShareClassID:      b.ShareClassID,
		InvestmentDate:    b.InvestmentDate,
		ValueOfInvestment: b.ValueOfInvestment,
		PricePerUnit:      b.PricePerUnit,
		UnitsAcquired:     b.UnitsAcquired,
		Currency:          b.Currency,
		Position:          b.Position,
	}
}
