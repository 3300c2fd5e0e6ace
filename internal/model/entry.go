package model

// FundEntry represents a single configured fund purchase.
// Entries are immutable once saved; editing replaces the whole record.
//
// PricePerUnit is always required. UnitsAcquired and ValueOfInvestment are
// both optional: when UnitsAcquired is absent the unit count is derived from
// ValueOfInvestment / PricePerUnit. Optional numerics are pointers so that
// "not provided" is distinguishable from an explicit zero.
type FundEntry struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	PvNumber          string   `json:"pvNumber"`
	ShareClassID      string   `json:"shareClassId"`
	InvestmentDate    string   `json:"investmentDate,omitempty"`
	ValueOfInvestment *float64 `json:"valueOfInvestment,omitempty"`
	PricePerUnit      float64  `json:"pricePerUnit"`
	UnitsAcquired     *float64 `json:"unitsAcquired,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	Position          int      `json:"position"`
}

// GroupKey identifies the investment group an entry belongs to.
// Two entries with the same (pool number, share class) pair are pooled
// for average-price calculation.
type GroupKey struct {
	PvNumber     string
	ShareClassID string
}

// Key returns the entry's group key. ok is false when either identifier is
// missing; such entries belong to no group and are valued on their own
// price and units only.
func (e FundEntry) Key() (GroupKey, bool) {
	if e.PvNumber == "" || e.ShareClassID == "" {
		return GroupKey{}, false
	}
	return GroupKey{PvNumber: e.PvNumber, ShareClassID: e.ShareClassID}, true
}

// OwnUnits resolves the unit count held by this entry: the explicit
// UnitsAcquired when present, otherwise ValueOfInvestment / PricePerUnit
// when both are usable, otherwise 0.
func (e FundEntry) OwnUnits() float64 {
	if e.UnitsAcquired != nil {
		return *e.UnitsAcquired
	}
	if e.ValueOfInvestment != nil && *e.ValueOfInvestment != 0 && e.PricePerUnit != 0 {
		return *e.ValueOfInvestment / e.PricePerUnit
	}
	return 0
}
