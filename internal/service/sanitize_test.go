package service

import (
	"reflect"
	"testing"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

func TestSanitizeDropsEmptySlotsAndSections(t *testing.T) {
	t.Parallel()

	form := model.SignupForm{
		Enabled: true,
		Sections: []model.Section{
			{
				ID: "a",
				Slots: []model.Slot{
					{ID: "s1", Label: "   "},
					{ID: "s2", Label: "  Keep me  "},
				},
			},
			{
				ID: "b",
				Slots: []model.Slot{
					{ID: "s3", Label: ""},
				},
			},
		},
	}

	got := Sanitize(form)

	if len(got.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got.Sections))
	}
	if len(got.Sections[0].Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(got.Sections[0].Slots))
	}
	if got.Sections[0].Slots[0].Label != "Keep me" {
		t.Errorf("expected trimmed label, got %q", got.Sections[0].Slots[0].Label)
	}
	if !got.Enabled {
		t.Error("form with a surviving section should stay enabled")
	}
}

func TestSanitizeDisablesFormWithoutSections(t *testing.T) {
	t.Parallel()

	form := model.SignupForm{
		Enabled: true,
		Sections: []model.Section{
			{ID: "a", Slots: []model.Slot{{ID: "s1", Label: ""}}},
		},
	}

	got := Sanitize(form)
	if got.Enabled {
		t.Error("form with no usable slots should be disabled")
	}
}

func TestSanitizeClampsCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity *int
		want     *int
	}{
		{"nil stays unlimited", nil, nil},
		{"zero becomes unlimited", intp(0), nil},
		{"negative becomes unlimited", intp(-5), nil},
		{"in range preserved", intp(10), intp(10)},
		{"above max clamped", intp(5000), intp(model.MaxSlotCapacity)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := model.SignupForm{
				Enabled: true,
				Sections: []model.Section{
					{ID: "a", Slots: []model.Slot{{ID: "s", Label: "Slot", Capacity: tt.capacity}}},
				},
			}
			got := Sanitize(form).Sections[0].Slots[0].Capacity
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected unlimited, got %d", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("expected %d, got %v", *tt.want, got)
			}
		})
	}
}

func TestSanitizeSettings(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Settings.MaxGuestsPerSignup = 0
	form.Settings.MaxSlotsPerPerson = intp(0)

	got := Sanitize(form).Settings
	if got.MaxGuestsPerSignup != model.DefaultMaxGuests {
		t.Errorf("expected default max guests, got %d", got.MaxGuestsPerSignup)
	}
	if got.MaxSlotsPerPerson != nil {
		t.Error("non-positive max slots per person should become nil")
	}

	form.Settings.MaxGuestsPerSignup = 100
	if got := Sanitize(form).Settings.MaxGuestsPerSignup; got != model.MaxGuestsCap {
		t.Errorf("expected guests capped at %d, got %d", model.MaxGuestsCap, got)
	}
}

func TestSanitizeReminderHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours []int
		want  []int
	}{
		{"nil gets defaults", nil, model.DefaultReminderHours()},
		{"explicit empty stays empty", []int{}, []int{}},
		{"clamped sorted deduped", []int{500, 0, 24, 24, 2}, []int{1, 2, 24, model.MaxReminderHours}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := twoSlotForm()
			form.Settings.AutoRemindersHoursBefore = tt.hours
			got := Sanitize(form).Settings.AutoRemindersHoursBefore
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSanitizeQuestions(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Questions = []model.Question{
		{ID: "q1", Prompt: "  Allergies?  "},
		{ID: "q2", Prompt: "   "},
	}

	got := Sanitize(form).Questions
	if len(got) != 1 || got[0].Prompt != "Allergies?" {
		t.Errorf("expected one trimmed question, got %+v", got)
	}
}

func TestSanitizePreservesResponses(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Responses = []model.Response{
		confirmedResponse("r1", 1, 0),
		{ID: "orphan", Name: "Orphan", Status: model.StatusConfirmed, Slots: []model.SlotSelection{
			{SectionID: "gone", SlotID: "gone", Quantity: 1},
		}},
	}

	got := Sanitize(form)
	if !reflect.DeepEqual(got.Responses, form.Responses) {
		t.Error("sanitize must not touch responses")
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	t.Parallel()

	form := twoSlotForm()
	form.Sections[0].Slots[0].Capacity = intp(2000)
	form.Settings.MaxGuestsPerSignup = -1
	form.Settings.AutoRemindersHoursBefore = []int{400, 400, 3}
	form.Questions = []model.Question{{ID: "q", Prompt: " hi "}}
	form.Responses = []model.Response{confirmedResponse("r1", 1, 0)}

	once := Sanitize(form)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Error("Sanitize(Sanitize(x)) must equal Sanitize(x)")
	}
}
