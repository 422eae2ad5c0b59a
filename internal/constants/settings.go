package constants

const (
	// Day window settings
	SettingDayStart   = "day_start"
	SettingDayEnd     = "day_end"
	SettingBreakStart = "break_start"
	SettingBreakEnd   = "break_end"
	SettingStepMin    = "step_min"

	// Remote settings
	SettingBaseURL      = "base_url"
	SettingHistoryLimit = "history_limit"
	SettingLastEmail    = "last_email"

	SettingNotificationsEnabled = "notifications_enabled"

	// Default Settings Values
	DefaultDayStart             = "08:30"
	DefaultDayEnd               = "17:30"
	DefaultBreakStart           = "12:30"
	DefaultBreakEnd             = "13:30"
	DefaultStepMin              = 30
	DefaultNotificationsEnabled = false
)
