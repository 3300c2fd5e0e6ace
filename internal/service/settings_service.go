package service

import (
	"context"
	"strconv"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/repository"
)

// Refresh interval bounds in seconds. Values outside the range are clamped,
// not rejected.
const (
	MinRefreshIntervalSeconds = 60
	MaxRefreshIntervalSeconds = 86400
)

// Setting keys in the setting table.
const (
	settingResourceURL     = "resource_url"
	settingRefreshInterval = "refresh_interval_seconds"
)

// SettingsService manages the tracker settings: the NAV source endpoint URL
// and the shared refresh interval. Values not yet stored fall back to the
// bootstrap defaults from the environment.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	defaults     model.Settings
}

// NewSettingsService creates a new SettingsService. The defaults seed any
// setting that has never been written through the API.
func NewSettingsService(settingsRepo *repository.SettingsRepository, defaults model.Settings) *SettingsService {
	defaults.RefreshIntervalSeconds = ClampRefreshInterval(defaults.RefreshIntervalSeconds)
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetSettings returns the current tracker settings.
func (s *SettingsService) GetSettings() (model.Settings, error) {
	settings := s.defaults

	if value, ok, err := s.settingsRepo.GetSetting(settingResourceURL); err != nil {
		return model.Settings{}, err
	} else if ok {
		settings.ResourceURL = value
	}

	if value, ok, err := s.settingsRepo.GetSetting(settingRefreshInterval); err != nil {
		return model.Settings{}, err
	} else if ok {
		if seconds, err := strconv.Atoi(value); err == nil {
			settings.RefreshIntervalSeconds = ClampRefreshInterval(seconds)
		}
	}

	return settings, nil
}

// UpdateSettings stores new tracker settings. The refresh interval is clamped
// to [MinRefreshIntervalSeconds, MaxRefreshIntervalSeconds]; the stored
// settings are returned.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	settings.RefreshIntervalSeconds = ClampRefreshInterval(settings.RefreshIntervalSeconds)

	if err := s.settingsRepo.SetSetting(ctx, settingResourceURL, settings.ResourceURL); err != nil {
		return model.Settings{}, err
	}
	if err := s.settingsRepo.SetSetting(ctx, settingRefreshInterval, strconv.Itoa(settings.RefreshIntervalSeconds)); err != nil {
		return model.Settings{}, err
	}

	return settings, nil
}

// ClampRefreshInterval forces a refresh interval into the allowed range.
func ClampRefreshInterval(seconds int) int {
	if seconds < MinRefreshIntervalSeconds {
		return MinRefreshIntervalSeconds
	}
	if seconds > MaxRefreshIntervalSeconds {
		return MaxRefreshIntervalSeconds
	}
	return seconds
}
