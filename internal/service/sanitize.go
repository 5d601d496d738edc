package service

import (
	"sort"
	"strings"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// Sanitize canonicalizes a possibly malformed or partially-edited form.
// It is total (never fails) and idempotent: out-of-range values are
// clamped, structurally useless pieces are dropped, and omitted settings
// are filled with defaults.
//
// Responses pass through untouched. A response whose slot no longer
// exists simply becomes inert for capacity accounting; it is not deleted,
// so a slot that is removed and later restored does not lose its
// sign-ups.
func Sanitize(form model.SignupForm) model.SignupForm {
	out := form

	out.Sections = sanitizeSections(form.Sections)
	if len(out.Sections) == 0 {
		out.Enabled = false
	}

	out.Settings = sanitizeSettings(form.Settings)
	out.Questions = sanitizeQuestions(form.Questions)

	return out
}

func sanitizeSections(sections []model.Section) []model.Section {
	out := make([]model.Section, 0, len(sections))
	for _, section := range sections {
		slots := make([]model.Slot, 0, len(section.Slots))
		for _, slot := range section.Slots {
			slot.Label = strings.TrimSpace(slot.Label)
			if slot.Label == "" {
				continue
			}
			slot.Capacity = clampCapacity(slot.Capacity)
			slots = append(slots, slot)
		}
		if len(slots) == 0 {
			continue
		}
		section.Slots = slots
		out = append(out, section)
	}
	return out
}

// clampCapacity coerces a capacity into (0, MaxSlotCapacity], or to nil
// (unlimited) when it is not a positive number.
func clampCapacity(capacity *int) *int {
	if capacity == nil {
		return nil
	}
	c := *capacity
	if c <= 0 {
		return nil
	}
	if c > model.MaxSlotCapacity {
		c = model.MaxSlotCapacity
	}
	return &c
}

func sanitizeSettings(s model.SignupSettings) model.SignupSettings {
	if s.MaxGuestsPerSignup < 1 {
		s.MaxGuestsPerSignup = model.DefaultMaxGuests
	}
	if s.MaxGuestsPerSignup > model.MaxGuestsCap {
		s.MaxGuestsPerSignup = model.MaxGuestsCap
	}

	if s.MaxSlotsPerPerson != nil && *s.MaxSlotsPerPerson < 1 {
		s.MaxSlotsPerPerson = nil
	}

	s.AutoRemindersHoursBefore = sanitizeReminderHours(s.AutoRemindersHoursBefore)

	return s
}

// sanitizeReminderHours clamps each offset into [MinReminderHours,
// MaxReminderHours], sorts ascending and de-duplicates. A nil slice means
// the setting was omitted and gets the default schedule; an explicitly
// empty slice disables reminders and stays empty.
func sanitizeReminderHours(hours []int) []int {
	if hours == nil {
		return model.DefaultReminderHours()
	}

	seen := make(map[int]bool, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if h < model.MinReminderHours {
			h = model.MinReminderHours
		}
		if h > model.MaxReminderHours {
			h = model.MaxReminderHours
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

func sanitizeQuestions(questions []model.Question) []model.Question {
	if questions == nil {
		return nil
	}
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Prompt == "" {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
