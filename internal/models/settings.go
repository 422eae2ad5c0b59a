package models

// Settings represents application-wide settings
type Settings struct {
	DayStart             string `json:"day_start"`             // the time the working day starts, e.g. "08:30"
	DayEnd               string `json:"day_end"`               // the time the working day ends, e.g. "17:30"
	BreakStart           string `json:"break_start"`           // start of the lunch break, e.g. "12:30"
	BreakEnd             string `json:"break_end"`             // end of the lunch break, e.g. "13:30"
	StepMin              int    `json:"step_min"`              // slot length in minutes
	BaseURL              string `json:"base_url"`              // timesheet API base URL
	HistoryLimit         int    `json:"history_limit"`         // number of remote records fetched per merge
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether to notify the tray app after a submission
	LastEmail            string `json:"last_email"`            // last email used to sign in
}
