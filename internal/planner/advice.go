package planner

import (
	"strings"

	"github.com/holidayist/holiday-planner/internal/common"
)

// slotHints are the canonical windows applied when advisory text pairs an
// activity name with a slot keyword. They deliberately differ from the
// candidate windows: the advisor speaks in looser, human terms.
var slotHints = []struct {
	keyword string
	slot    Slot
	start   string
	end     string
}{
	{"morning", SlotMorning, "09:00", "12:00"},
	{"afternoon", SlotAfternoon, "14:00", "17:00"},
	{"evening", SlotEvening, "18:00", "21:00"},
}

// applyAdvice is the best-effort annotation pass over advisory free text.
// When the text mentions an activity's name (case-insensitively) the activity
// gets a note and, if it has no rationale yet, a generic one. Only with
// applySlotHints enabled does a co-occurring slot keyword also overwrite the
// activity's window; plain text matching must not silently beat the numeric
// schedule.
func applyAdvice(batch []Activity, advice string, applySlotHints bool) {
	lowered := strings.ToLower(advice)

	for i := range batch {
		a := &batch[i]
		if a.Name == "" || !strings.Contains(lowered, strings.ToLower(a.Name)) {
			continue
		}

		if applySlotHints {
			for _, hint := range slotHints {
				if common.HasAny(lowered, hint.keyword) {
					a.Slot = hint.slot
					a.StartTime = hint.start
					a.EndTime = hint.end
					break
				}
			}
		}

		if a.OptimizationReason == "" {
			a.OptimizationReason = "suggested adjustment based on weather forecast"
		}
		if !strings.Contains(a.Notes, adviceNote) {
			if a.Notes != "" {
				a.Notes += "; "
			}
			a.Notes += adviceNote
		}
	}
}

const adviceNote = "mentioned in weather advisory"
