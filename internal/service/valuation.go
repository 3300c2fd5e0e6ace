package service

import (
	"math"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
)

// ComputeGroupStats pools all configured entries by (pool number, share class)
// and computes a units-weighted average acquisition price and total units per
// group.
//
// Entries missing either identifier contribute to no group; they are valued
// solely on their own price and units by ComputeValuation. Unit counts are
// resolved per entry (explicit units, else invested amount / price, else 0),
// so a single incomplete entry degrades to a zero contribution instead of
// breaking aggregation for its group.
//
// The function is pure and deterministic: same entry list, same output.
func ComputeGroupStats(entries []model.FundEntry) map[model.GroupKey]model.GroupStats {
	groups := make(map[model.GroupKey]model.GroupStats)

	for _, entry := range entries {
		key, ok := entry.Key()
		if !ok {
			continue
		}

		units := entry.OwnUnits()
		group := groups[key]
		group.WeightedSum += entry.PricePerUnit * units
		group.TotalUnits += units
		groups[key] = group
	}

	for key, group := range groups {
		if group.TotalUnits != 0 {
			group.AvgPrice = round(group.WeightedSum/group.TotalUnits, 4)
		} else {
			group.AvgPrice = 0
		}
		groups[key] = group
	}

	return groups
}

// ComputeValuation derives profit and percentage return for one entry from a
// freshly fetched NAV quote and the entry's group stats (nil when the entry
// belongs to no group).
//
// Profit is sized by the entry's own units even when the price is the group
// average: profit reflects this entry's position, valued against the pooled
// acquisition price. ReturnPct is a pure price ratio and uses the effective
// price only. Both are 0 when the effective price is 0; division by zero is
// never raised as an error.
func ComputeValuation(entry model.FundEntry, group *model.GroupStats, nav model.NavQuote) model.ValuationResult {
	ownUnits := entry.OwnUnits()

	effectivePrice := entry.PricePerUnit
	effectiveUnits := ownUnits
	var groupAvgPrice, groupUnits *float64
	if group != nil {
		effectivePrice = group.AvgPrice
		effectiveUnits = group.TotalUnits
		avg, total := group.AvgPrice, group.TotalUnits
		groupAvgPrice = &avg
		groupUnits = &total
	}

	var profit, returnPct float64
	if effectivePrice != 0 {
		profit = round((nav.Value-effectivePrice)*ownUnits, 2)
		returnPct = round((nav.Value/effectivePrice-1)*100, 2)
	}

	// Display fields: user-supplied name wins over the source-reported one,
	// source-reported currency wins over the user-supplied default.
	fundName := entry.Name
	if fundName == "" {
		fundName = nav.FundName
	}
	if fundName == "" {
		fundName = "Fund"
	}
	currency := nav.Currency
	if currency == "" {
		currency = entry.Currency
	}
	baseCurrency := nav.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = entry.Currency
	}
	shareClassID := nav.ShareClassID
	if shareClassID == "" {
		shareClassID = entry.ShareClassID
	}

	return model.ValuationResult{
		EntryID:           entry.ID,
		FundName:          fundName,
		ShareClassID:      shareClassID,
		PvNumber:          entry.PvNumber,
		Currency:          currency,
		BaseCurrency:      baseCurrency,
		AsAtDate:          nav.AsAtDate,
		Nav:               nav.Value,
		UpDownValue:       nav.UpDownValue,
		UpDownPct:         nav.UpDownPct,
		EffectivePrice:    effectivePrice,
		EffectiveUnits:    effectiveUnits,
		EntryPrice:        entry.PricePerUnit,
		EntryUnits:        ownUnits,
		GroupAvgPrice:     groupAvgPrice,
		GroupUnits:        groupUnits,
		Profit:            profit,
		ReturnPct:         returnPct,
		InvestmentDate:    entry.InvestmentDate,
		ValueOfInvestment: entry.ValueOfInvestment,
	}
}

// round rounds to the given number of decimal places.
func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
