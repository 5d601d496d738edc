package model

import (
	"strings"
	"testing"
	"time"
)

func TestSignupActionRequestValidate(t *testing.T) {
	t.Parallel()

	negative := -1
	tests := []struct {
		name      string
		req       SignupActionRequest
		wantField string
	}{
		{
			name:      "unknown action",
			req:       SignupActionRequest{Action: "upsert"},
			wantField: "action",
		},
		{
			name:      "reserve without slots",
			req:       SignupActionRequest{Action: ActionReserve},
			wantField: "slots",
		},
		{
			name: "reserve with blank slot ids",
			req: SignupActionRequest{
				Action: ActionReserve,
				Slots:  []SlotSelectionRequest{{SectionID: " ", SlotID: "s"}},
			},
			wantField: "slots",
		},
		{
			name: "reserve with negative guests",
			req: SignupActionRequest{
				Action: ActionReserve,
				Slots:  []SlotSelectionRequest{{SectionID: "a", SlotID: "s"}},
				Guests: &negative,
			},
			wantField: "guests",
		},
		{
			name: "reserve with oversized name",
			req: SignupActionRequest{
				Action: ActionReserve,
				Slots:  []SlotSelectionRequest{{SectionID: "a", SlotID: "s"}},
				Name:   strings.Repeat("x", MaxNameLength+1),
			},
			wantField: "name",
		},
		{
			name:      "cancel without signup id",
			req:       SignupActionRequest{Action: ActionCancel},
			wantField: "signup_id",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.req.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %+v", tt.wantField, errs)
			}
		})
	}

	valid := SignupActionRequest{
		Action: ActionReserve,
		Slots:  []SlotSelectionRequest{{SectionID: "a", SlotID: "s", Quantity: 1}},
		Email:  "a@example.com",
	}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("expected valid request, got %+v", errs)
	}

	cancel := SignupActionRequest{Action: ActionCancel, SignupID: "r1"}
	if errs := cancel.Validate(); len(errs) != 0 {
		t.Errorf("expected valid cancel, got %+v", errs)
	}
}

func TestSignupActionRequestExtractorsTrim(t *testing.T) {
	t.Parallel()

	req := SignupActionRequest{
		Action: ActionReserve,
		Slots:  []SlotSelectionRequest{{SectionID: "a", SlotID: "s"}},
		Name:   "  Casey  ",
		Email:  " casey@example.com ",
		Phone:  " 555-0100 ",
		Note:   "  note  ",
	}

	reserve := req.Reserve()
	if reserve.Name != "Casey" || reserve.Email != "casey@example.com" || reserve.Phone != "555-0100" || reserve.Note != "note" {
		t.Errorf("extractor should trim fields, got %+v", reserve)
	}
}

func TestUpsertFormRequestValidate(t *testing.T) {
	t.Parallel()

	empty := UpsertFormRequest{}
	if errs := empty.Validate(); len(errs) == 0 {
		t.Error("expected error for missing sections")
	}

	ok := UpsertFormRequest{Sections: []Section{{Title: "S"}}}
	if errs := ok.Validate(); len(errs) != 0 {
		t.Errorf("expected valid request, got %+v", errs)
	}
}

func TestResponseHasIdentityAndActive(t *testing.T) {
	t.Parallel()

	userID := "u1"
	tests := []struct {
		name string
		r    Response
		want bool
	}{
		{"user id", Response{UserID: &userID}, true},
		{"email", Response{Email: "a@example.com"}, true},
		{"phone", Response{Phone: "555"}, true},
		{"nothing", Response{Name: "anon"}, false},
	}
	for _, tt := range tests {
		if got := tt.r.HasIdentity(); got != tt.want {
			t.Errorf("%s: HasIdentity = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !(&Response{Status: StatusConfirmed}).Active() {
		t.Error("confirmed is active")
	}
	if !(&Response{Status: StatusWaitlisted}).Active() {
		t.Error("waitlisted is active")
	}
	if (&Response{Status: StatusCancelled}).Active() {
		t.Error("cancelled is not active")
	}
}

func TestFinders(t *testing.T) {
	t.Parallel()

	form := SignupForm{
		Sections: []Section{
			{ID: "a", Slots: []Slot{{ID: "s1", Label: "One"}}},
		},
		Questions: []Question{{ID: "q1", Prompt: "P"}},
		Responses: []Response{{ID: "r1", CreatedOn: time.Now()}},
	}

	if form.FindSection("a") == nil || form.FindSection("b") != nil {
		t.Error("FindSection mismatch")
	}
	if form.FindSlot("a", "s1") == nil || form.FindSlot("a", "s2") != nil || form.FindSlot("b", "s1") != nil {
		t.Error("FindSlot mismatch")
	}
	if form.FindQuestion("q1") == nil || form.FindQuestion("q2") != nil {
		t.Error("FindQuestion mismatch")
	}
	if form.FindResponse("r1") == nil || form.FindResponse("r2") != nil {
		t.Error("FindResponse mismatch")
	}
}

func TestSignupSettingsRequestResolve(t *testing.T) {
	t.Parallel()

	off := false
	partial := SignupSettingsRequest{WaitlistEnabled: &off}
	s := partial.Resolve()
	if s.WaitlistEnabled {
		t.Error("explicit waitlist_enabled=false must stick")
	}
	if !s.LockWhenFull {
		t.Error("omitted lock_when_full must keep its default")
	}
	if s.MaxGuestsPerSignup != DefaultMaxGuests {
		t.Errorf("omitted max_guests_per_signup must default, got %d", s.MaxGuestsPerSignup)
	}
	if len(s.AutoRemindersHoursBefore) != len(DefaultReminderHours()) {
		t.Errorf("omitted reminders must default, got %v", s.AutoRemindersHoursBefore)
	}

	explicit := SignupSettingsRequest{AutoRemindersHoursBefore: []int{}}
	if got := explicit.Resolve().AutoRemindersHoursBefore; len(got) != 0 {
		t.Errorf("explicit empty reminders must stay empty, got %v", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	if !s.WaitlistEnabled || !s.LockWhenFull {
		t.Error("waitlist and lock-when-full should default on")
	}
	if s.MaxGuestsPerSignup != DefaultMaxGuests {
		t.Errorf("unexpected default guests %d", s.MaxGuestsPerSignup)
	}
	if len(s.AutoRemindersHoursBefore) == 0 {
		t.Error("default reminder schedule should be non-empty")
	}
}
