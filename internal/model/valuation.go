package model

import "time"

// GroupStats holds the pooled position for one (pool number, share class)
// group. It is recomputed from scratch from the full entry list on every
// refresh cycle and never persisted.
type GroupStats struct {
	WeightedSum float64 `json:"weightedSum"` // sum of price * units across the group
	TotalUnits  float64 `json:"totalUnits"`
	AvgPrice    float64 `json:"avgPrice"` // WeightedSum / TotalUnits, 0 when TotalUnits is 0
}

// NavQuote is the externally fetched net-asset-value quote for a share class.
// It is owned entirely by the data source; the valuation core treats it as
// an opaque input.
type NavQuote struct {
	Value        float64  `json:"value"`
	AsAtDate     string   `json:"asAtDate,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	UpDownValue  *float64 `json:"upDownValue,omitempty"`
	UpDownPct    *float64 `json:"upDownPctValue,omitempty"`
	FundName     string   `json:"fundName,omitempty"`
	BaseCurrency string   `json:"baseCurrency,omitempty"`
	ShareClassID string   `json:"shareClassId,omitempty"`
}

// ValuationResult is the derived valuation for one entry, recomputed on every
// successful refresh cycle. EffectivePrice and EffectiveUnits are the group
// averages when the entry belongs to a group, the entry's own values
// otherwise. Profit is sized by the entry's own units; ReturnPct is a
// price-ratio metric independent of position size.
type ValuationResult struct {
	EntryID           string    `json:"entryId"`
	FundName          string    `json:"fundName"`
	ShareClassID      string    `json:"shareClassId"`
	PvNumber          string    `json:"pvNumber,omitempty"`
	Currency          string    `json:"currency,omitempty"`
	BaseCurrency      string    `json:"baseCurrency,omitempty"`
	AsAtDate          string    `json:"asAtDate,omitempty"`
	Nav               float64   `json:"nav"`
	UpDownValue       *float64  `json:"upDownValue,omitempty"`
	UpDownPct         *float64  `json:"upDownPct,omitempty"`
	EffectivePrice    float64   `json:"effectivePrice"`
	EffectiveUnits    float64   `json:"effectiveUnits"`
	EntryPrice        float64   `json:"entryPrice"`
	EntryUnits        float64   `json:"entryUnits"`
	GroupAvgPrice     *float64  `json:"groupAvgPrice,omitempty"`
	GroupUnits        *float64  `json:"groupTotalUnits,omitempty"`
	Profit            float64   `json:"profit"`
	ReturnPct         float64   `json:"returnPct"`
	InvestmentDate    string    `json:"investmentDate,omitempty"`
	ValueOfInvestment *float64  `json:"valueOfInvestment,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// EntryStatus reports the refresh-cycle health for one tracked entry.
// A non-empty LastError with a non-zero LastSuccess means the published
// valuation is stale but still the last good value.
type EntryStatus struct {
	EntryID             string    `json:"entryId"`
	Tracking            bool      `json:"tracking"`
	LastAttempt         time.Time `json:"lastAttempt,omitempty"`
	LastSuccess         time.Time `json:"lastSuccess,omitempty"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
}

// RefreshSummary is the outcome of an on-demand refresh of all entries.
// Success is true if at least one entry refreshed successfully; per-entry
// failures are reported alongside so one bad entry never hides the rest.
type RefreshSummary struct {
	Success        bool                `json:"success"`
	TotalRefreshed int                 `json:"totalRefreshed"`
	TotalErrors    int                 `json:"totalErrors"`
	Refreshed      []string            `json:"refreshed"`
	Errors         []EntryRefreshError `json:"errors"`
}

// EntryRefreshError identifies an entry whose refresh cycle failed and why.
type EntryRefreshError struct {
	EntryID string `json:"entryId"`
	Name    string `json:"name"`
	Error   string `json:"error"`
}

// Settings holds the user-configurable tracker settings kept in the store.
type Settings struct {
	ResourceURL            string `json:"resourceUrl"`
	RefreshIntervalSeconds int    `json:"refreshIntervalSeconds"`
}
