package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "slotsheet"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "timesheet-session"
	DefaultConfigPath  = "~/.config/slotsheet/slotsheet.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// RemoteTimestampFormat is the UTC-suffixed layout the timesheet API exchanges
	RemoteTimestampFormat = "2006-01-02T15:04:05Z"

	// Remote API
	DefaultBaseURL       = "https://kdmorg.shgm.gov.tr/api"
	DefaultHistoryLimit  = 100
	DefaultClientTimeout = 15 * time.Second
	MaxJobNameLength     = 60
	SlotHours            = 0.5

	// Remote status identifiers
	RemoteStatusCompleted = "Completed"
	RemoteStatusPlanned   = "Planned"
	RemoteStatusDayOff    = "DayOff"
	RemoteDataActivated   = "Activated"

	// Slot labels
	LabelDayOff      = "Day off"
	LabelPlannedWork = "Planned work"
	LabelRoutineWork = "Routine work"
	PlanLabelPrefix  = "Plan: "

	// Auto-fill quota as a fraction of empty slots
	FillMinRatio = 0.4
	FillMaxRatio = 0.8

	// Shake detection
	ShakeThreshold       = 2.0 // acceleration magnitude in g
	ShakeMinSpacing      = time.Second
	ShakeQuota           = 2
	MotionSampleInterval = 100 * time.Millisecond

	// Notify constants
	NotificationDurationMs = 5000
	NotifierLockfileName   = "slotsheet-notifier.lock"
	TrayAppIdentifier      = "com.julianstephens.slotsheet"
	TrayExecutablePrefix   = "slotsheet-tray"

	// Session States
	StateDay SessionState = iota
	StatePickJob
	StatePickPlan
	StateConfirmation
	StateShake
	StateSubmitting
	StateDatePicker
)
