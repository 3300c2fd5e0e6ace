package validation

import (
	"strings"
	"time"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/request"
)

// ValidateCreateEntry checks a new fund entry request. Invalid input is
// rejected synchronously with field-level errors; it never reaches a refresh
// cycle. The pool number is optional here because it can be resolved through
// the share-class lookup.
func ValidateCreateEntry(req request.CreateEntryRequest) error {
	errors := make(map[string]string)

	// Required fields
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if strings.TrimSpace(req.ShareClassID) == "" {
		errors["shareClassId"] = "share class id is required"
	} else if len(req.ShareClassID) > 20 {
		errors["shareClassId"] = "share class id must be 20 characters or less"
	}

	if req.PricePerUnit <= 0 {
		errors["pricePerUnit"] = "price per unit must be greater than zero"
	}

	// Optional fields
	if len(req.PvNumber) > 20 {
		errors["pvNumber"] = "pool number must be 20 characters or less"
	}

	if req.UnitsAcquired != nil && *req.UnitsAcquired < 0 {
		errors["unitsAcquired"] = "units acquired cannot be negative"
	}

	if req.ValueOfInvestment != nil && *req.ValueOfInvestment < 0 {
		errors["valueOfInvestment"] = "value of investment cannot be negative"
	}

	if date := strings.TrimSpace(req.InvestmentDate); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			errors["investmentDate"] = "investment date must be formatted YYYY-MM-DD"
		}
	}

	if currency := strings.TrimSpace(req.Currency); len(currency) > 3 {
		errors["currency"] = "currency must be 3 characters or less (USD, EUR)"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateEntry checks an entry replacement request. Updates replace
// the stored record wholesale, so the rules match creation.
func ValidateUpdateEntry(req request.UpdateEntryRequest) error {
	return ValidateCreateEntry(req)
}
