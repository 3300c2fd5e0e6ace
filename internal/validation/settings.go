package validation

import (
	"net/url"
	"strings"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/request"
)

// ValidateUpdateSettings checks a settings update request. The refresh
// interval is not validated here: out-of-range values are clamped by the
// settings service rather than rejected.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	if req.ResourceURL != nil {
		resourceURL := strings.TrimSpace(*req.ResourceURL)
		if resourceURL == "" {
			errors["resourceUrl"] = "resource URL is required"
		} else if parsed, err := url.ParseRequestURI(resourceURL); err != nil ||
			(parsed.Scheme != "http" && parsed.Scheme != "https") {
			errors["resourceUrl"] = "resource URL must be a valid http(s) URL"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
