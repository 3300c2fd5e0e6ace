package request

// UpdateSettingsRequest is the payload for changing tracker settings. Absent
// fields keep their current value. An out-of-range refresh interval is
// clamped to the allowed range, not rejected.
type UpdateSettingsRequest struct {
	ResourceURL            *string `json:"resourceUrl"`
	RefreshIntervalSeconds *int    `json:"refreshIntervalSeconds"`
}
