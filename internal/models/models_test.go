package models

import (
	"testing"

	"github.com/julianstephens/slotsheet/internal/constants"
)

func TestSlotKind(t *testing.T) {
	tests := []struct {
		name      string
		slot      Slot
		kind      SlotKind
		empty     bool
		pending   bool
		persisted bool
	}{
		{name: "empty", slot: Slot{}, kind: SlotKindEmpty, empty: true},
		{name: "job", slot: Slot{JobID: 7}, kind: SlotKindJob, pending: true},
		{name: "planned with job", slot: Slot{JobID: 7, IsPlanned: true}, kind: SlotKindPlanned, pending: true},
		{name: "planned without job", slot: Slot{IsPlanned: true}, kind: SlotKindPlanned, pending: true},
		{name: "day off", slot: Slot{IsDayOff: true}, kind: SlotKindDayOff, pending: true},
		{name: "persisted job", slot: Slot{JobID: 7, ExistingRecordID: 3}, kind: SlotKindJob, persisted: true},
		{name: "persisted without content", slot: Slot{ExistingRecordID: 3}, kind: SlotKindEmpty, persisted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slot.Kind(); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}
			if got := tt.slot.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.slot.IsPending(); got != tt.pending {
				t.Errorf("IsPending() = %v, want %v", got, tt.pending)
			}
			if got := tt.slot.IsPersisted(); got != tt.persisted {
				t.Errorf("IsPersisted() = %v, want %v", got, tt.persisted)
			}
		})
	}
}

func TestCloneSlotsDoesNotAlias(t *testing.T) {
	original := []Slot{{Index: 0, StartTime: "08:30"}}
	clone := CloneSlots(original)
	clone[0].JobID = 42

	if original[0].JobID != 0 {
		t.Errorf("mutating the clone changed the original: %+v", original[0])
	}
}

func TestTruncateName(t *testing.T) {
	long := "Linux Sunucu Konfigürasyonu ve Bakımı için oldukça uzun bir iş tanımı adı"
	got := TruncateName(long, constants.MaxJobNameLength)
	if len([]rune(got)) != constants.MaxJobNameLength {
		t.Errorf("TruncateName() rune length = %d, want %d", len([]rune(got)), constants.MaxJobNameLength)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("TruncateName() = %q, want ellipsis suffix", got)
	}

	short := "LB Yapılandırma"
	if got := TruncateName(short, constants.MaxJobNameLength); got != short {
		t.Errorf("TruncateName(%q) = %q, want unchanged", short, got)
	}
}

func TestRemoteRecordTimeParts(t *testing.T) {
	rec := RemoteRecord{StartTimestamp: "2024-01-10T08:30:00Z"}
	if rec.Date() != "2024-01-10" {
		t.Errorf("Date() = %q", rec.Date())
	}
	if rec.TimeOfDay() != "08:30" {
		t.Errorf("TimeOfDay() = %q", rec.TimeOfDay())
	}

	bare := RemoteRecord{StartTimestamp: "2024-01-10"}
	if bare.TimeOfDay() != "" {
		t.Errorf("TimeOfDay() = %q, want empty for date-only timestamp", bare.TimeOfDay())
	}
}

func TestParseStatusKind(t *testing.T) {
	tests := map[string]StatusKind{
		"DayOff":    StatusDayOff,
		"Planned":   StatusPlanned,
		"Completed": StatusOrdinary,
		"":          StatusOrdinary,
	}
	for in, want := range tests {
		if got := ParseStatusKind(in); got != want {
			t.Errorf("ParseStatusKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSettingsRoundTripThroughMap(t *testing.T) {
	settings := DefaultSettings()
	settings.LastEmail = "worker@example.com"

	got, err := MapToSettings(SettingsToMap(settings))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if got != settings {
		t.Errorf("MapToSettings(SettingsToMap(s)) = %+v, want %+v", got, settings)
	}
}

func TestMapToSettingsRejectsBadNumber(t *testing.T) {
	_, err := MapToSettings(map[string]string{constants.SettingStepMin: "half"})
	if err == nil {
		t.Error("MapToSettings() expected error for non-numeric step_min")
	}
}

func TestApplyDefaultSettingsKeepsClearedBreak(t *testing.T) {
	settings := Settings{BreakStart: "12:00"}
	ApplyDefaultSettings(&settings)
	if settings.BreakStart != "12:00" || settings.BreakEnd != "" {
		t.Errorf("break window overwritten: %q-%q", settings.BreakStart, settings.BreakEnd)
	}
	if settings.DayStart != constants.DefaultDayStart {
		t.Errorf("DayStart = %q, want default", settings.DayStart)
	}
}
