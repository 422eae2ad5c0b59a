package models

import (
	"fmt"

	"github.com/julianstephens/slotsheet/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayStart:
			settings.DayStart = value
		case constants.SettingDayEnd:
			settings.DayEnd = value
		case constants.SettingBreakStart:
			settings.BreakStart = value
		case constants.SettingBreakEnd:
			settings.BreakEnd = value
		case constants.SettingStepMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.StepMin); err != nil {
				return Settings{}, fmt.Errorf("parsing step_min: %w", err)
			}
		case constants.SettingBaseURL:
			settings.BaseURL = value
		case constants.SettingHistoryLimit:
			if _, err := fmt.Sscanf(value, "%d", &settings.HistoryLimit); err != nil {
				return Settings{}, fmt.Errorf("parsing history_limit: %w", err)
			}
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingLastEmail:
			settings.LastEmail = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayStart:             settings.DayStart,
		constants.SettingDayEnd:               settings.DayEnd,
		constants.SettingBreakStart:           settings.BreakStart,
		constants.SettingBreakEnd:             settings.BreakEnd,
		constants.SettingStepMin:              fmt.Sprintf("%d", settings.StepMin),
		constants.SettingBaseURL:              settings.BaseURL,
		constants.SettingHistoryLimit:         fmt.Sprintf("%d", settings.HistoryLimit),
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingLastEmail:            settings.LastEmail,
	}
}

// DefaultSettings returns the settings a freshly initialized store starts with.
func DefaultSettings() Settings {
	settings := Settings{NotificationsEnabled: constants.DefaultNotificationsEnabled}
	ApplyDefaultSettings(&settings)
	return settings
}

// ApplyDefaultSettings applies default values to missing settings.
// The break window is only defaulted when both ends are missing so that an
// explicitly cleared break stays disabled.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayStart == "" {
		settings.DayStart = constants.DefaultDayStart
	}
	if settings.DayEnd == "" {
		settings.DayEnd = constants.DefaultDayEnd
	}
	if settings.BreakStart == "" && settings.BreakEnd == "" {
		settings.BreakStart = constants.DefaultBreakStart
		settings.BreakEnd = constants.DefaultBreakEnd
	}
	if settings.StepMin == 0 {
		settings.StepMin = constants.DefaultStepMin
	}
	if settings.BaseURL == "" {
		settings.BaseURL = constants.DefaultBaseURL
	}
	if settings.HistoryLimit == 0 {
		settings.HistoryLimit = constants.DefaultHistoryLimit
	}
}
