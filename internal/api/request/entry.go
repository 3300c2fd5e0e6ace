package request

// CreateEntryRequest is the payload for adding a fund entry. UnitsAcquired
// and ValueOfInvestment are optional; at most one of them is authoritative
// (units win when both are present).
type CreateEntryRequest struct {
	Name              string   `json:"name"`
	PvNumber          string   `json:"pvNumber"`
	ShareClassID      string   `json:"shareClassId"`
	InvestmentDate    string   `json:"investmentDate"`
	ValueOfInvestment *float64 `json:"valueOfInvestment"`
	PricePerUnit      float64  `json:"pricePerUnit"`
	UnitsAcquired     *float64 `json:"unitsAcquired"`
	Currency          string   `json:"currency"`
}

// UpdateEntryRequest replaces a stored entry wholesale; entries are immutable
// records, so editing carries the full new state rather than a partial patch.
type UpdateEntryRequest = CreateEntryRequest
