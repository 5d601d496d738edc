package model

import (
	"strconv"
	"strings"
	"time"
)

// ResponseStatus is the allocation status of a response.
// Cancelled is terminal: no engine code transitions a cancelled response
// back to confirmed or waitlisted.
type ResponseStatus string

const (
	StatusConfirmed  ResponseStatus = "confirmed"
	StatusWaitlisted ResponseStatus = "waitlisted"
	StatusCancelled  ResponseStatus = "cancelled"
)

// Signup action constants for the inbound request union
const (
	ActionReserve = "reserve"
	ActionCancel  = "cancel"
)

// Constraints
const (
	MaxSlotCapacity      = 999
	MaxSelectionQuantity = 50
	MaxGuestsCap         = 20
	DefaultMaxGuests     = 1
	MinReminderHours     = 1
	MaxReminderHours     = 336 // 14 days
	MaxNameLength        = 200
	MaxNoteLength        = 1000
	MaxSignupSlots       = 20
)

// DefaultReminderHours is the reminder schedule applied when a form does
// not configure its own: 24h and 2h before a slot starts.
func DefaultReminderHours() []int { return []int{2, 24} }

// SignupForm is the root aggregate for one event's sign-up sheet.
type SignupForm struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`

	// Version is the optimistic-concurrency counter. Every successful save
	// increments it; a save conditioned on a stale version fails and the
	// caller re-runs the pipeline against the fresh snapshot.
	Version int `json:"version"`

	Sections  []Section      `json:"sections"`
	Settings  SignupSettings `json:"settings"`
	Questions []Question     `json:"questions,omitempty"`

	// Responses are append/update-only. Cancellation flips status; nothing
	// is ever removed, so rebalancing is reproducible from history alone.
	Responses []Response `json:"responses"`

	// RemindersSent is the dedupe ledger for the reminder job.
	RemindersSent []SentReminder `json:"reminders_sent,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Section is a named group of slots. Order matters for display only.
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slots       []Slot `json:"slots"`
}

// Slot is the unit of reservation.
type Slot struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Capacity is nil for unlimited, otherwise in (0, MaxSlotCapacity].
	Capacity *int `json:"capacity,omitempty"`

	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// SignupSettings is the policy configuration recognized by the engine.
type SignupSettings struct {
	AllowMultipleSlotsPerPerson bool `json:"allow_multiple_slots_per_person"`
	MaxSlotsPerPerson           *int `json:"max_slots_per_person,omitempty"` // preserved, enforced by callers
	MaxGuestsPerSignup          int  `json:"max_guests_per_signup"`
	WaitlistEnabled             bool `json:"waitlist_enabled"`
	LockWhenFull                bool `json:"lock_when_full"`
	CollectPhone                bool `json:"collect_phone"`
	CollectEmail                bool `json:"collect_email"`
	ShowRemainingSpots          bool `json:"show_remaining_spots"`
	HideParticipantNames        bool `json:"hide_participant_names"`

	// AutoRemindersHoursBefore is kept sorted ascending and de-duplicated,
	// each value in [MinReminderHours, MaxReminderHours].
	AutoRemindersHoursBefore []int `json:"auto_reminders_hours_before"`
}

// DefaultSettings returns the settings applied to a form that omits them.
func DefaultSettings() SignupSettings {
	return SignupSettings{
		MaxGuestsPerSignup:       DefaultMaxGuests,
		WaitlistEnabled:          true,
		LockWhenFull:             true,
		AutoRemindersHoursBefore: DefaultReminderHours(),
	}
}

// Question is a custom question attached to every response.
type Question struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Required bool   `json:"required"`
}

// SlotSelection is one response's claim on a slot.
type SlotSelection struct {
	SectionID string `json:"section_id"`
	SlotID    string `json:"slot_id"`
	Quantity  int    `json:"quantity"`
}

// Answer is a response's answer to a form question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// Response is one person's reservation against the form.
type Response struct {
	ID string `json:"id"`

	// Identity: authenticated user and/or guest contact channels. At least
	// one must be present for the response to be addressable later.
	UserID *string `json:"user_id,omitempty"`
	Email  string  `json:"email,omitempty"`
	Phone  string  `json:"phone,omitempty"`

	Name   string `json:"name"`
	Guests *int   `json:"guests,omitempty"` // nil means no extra guests
	Note   string `json:"note,omitempty"`

	Slots   []SlotSelection `json:"slots"`
	Answers []Answer        `json:"answers,omitempty"`

	Status ResponseStatus `json:"status"`

	// ManageTokenHash is the bcrypt hash of the guest manage token issued
	// when the response was created without an authenticated user. Never
	// exposed through the API (views strip it).
	ManageTokenHash string `json:"manage_token_hash,omitempty"`

	CreatedOn time.Time `json:"created_on"` // immutable once set; allocation order
	UpdatedOn time.Time `json:"updated_on"`
}

// HasIdentity reports whether the response is addressable for later
// update or cancellation.
func (r *Response) HasIdentity() bool {
	return (r.UserID != nil && *r.UserID != "") || r.Email != "" || r.Phone != ""
}

// Active reports whether the response participates in allocation.
func (r *Response) Active() bool {
	return r.Status == StatusConfirmed || r.Status == StatusWaitlisted
}

// SentReminder records one reminder delivery so the reminder job never
// mails the same (response, slot, offset) twice.
type SentReminder struct {
	ResponseID  string    `json:"response_id"`
	SectionID   string    `json:"section_id"`
	SlotID      string    `json:"slot_id"`
	HoursBefore int       `json:"hours_before"`
	SentOn      time.Time `json:"sent_on"`
}

// FindSection returns the section with the given ID, or nil.
func (f *SignupForm) FindSection(sectionID string) *Section {
	for i := range f.Sections {
		if f.Sections[i].ID == sectionID {
			return &f.Sections[i]
		}
	}
	return nil
}

// FindSlot resolves a (section, slot) pair, or nil if either is missing.
func (f *SignupForm) FindSlot(sectionID, slotID string) *Slot {
	section := f.FindSection(sectionID)
	if section == nil {
		return nil
	}
	for i := range section.Slots {
		if section.Slots[i].ID == slotID {
			return &section.Slots[i]
		}
	}
	return nil
}

// FindResponse returns the response with the given ID, or nil.
func (f *SignupForm) FindResponse(id string) *Response {
	for i := range f.Responses {
		if f.Responses[i].ID == id {
			return &f.Responses[i]
		}
	}
	return nil
}

// FindQuestion returns the question with the given ID, or nil.
func (f *SignupForm) FindQuestion(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// ============================================================================
// Request types
// ============================================================================

// SlotSelectionRequest is an inbound slot claim. Quantity defaults to 1
// and is clamped into [1, MaxSelectionQuantity].
type SlotSelectionRequest struct {
	SectionID string `json:"section_id"`
	SlotID    string `json:"slot_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// SignupActionRequest is the inbound signup body: a closed union tagged by
// Action. It is validated at the boundary and converted into the concrete
// ReserveRequest or CancelRequest before any engine code runs.
type SignupActionRequest struct {
	Action string `json:"action"`

	// Reserve fields
	Slots   []SlotSelectionRequest `json:"slots,omitempty"`
	Name    string                 `json:"name,omitempty"`
	Email   string                 `json:"email,omitempty"`
	Phone   string                 `json:"phone,omitempty"`
	Guests  *int                   `json:"guests,omitempty"`
	Note    string                 `json:"note,omitempty"`
	Answers []Answer               `json:"answers,omitempty"`

	// Reserve (update target) and cancel
	SignupID string `json:"signup_id,omitempty"`
}

// Validate checks the union shape. Engine-level rules (slot resolution,
// capacity, required answers) are enforced by the reservation processor.
func (r *SignupActionRequest) Validate() []FieldError {
	var errs []FieldError

	switch r.Action {
	case ActionReserve:
		if len(r.Slots) == 0 {
			errs = append(errs, FieldError{Field: "slots", Message: "at least one slot selection is required"})
		}
		if len(r.Slots) > MaxSignupSlots {
			errs = append(errs, FieldError{Field: "slots", Message: "too many slot selections"})
		}
		for i, sel := range r.Slots {
			if strings.TrimSpace(sel.SectionID) == "" || strings.TrimSpace(sel.SlotID) == "" {
				errs = append(errs, FieldError{Field: "slots", Message: "selection " + strconv.Itoa(i) + " is missing section_id or slot_id"})
			}
		}
		if len(r.Name) > MaxNameLength {
			errs = append(errs, FieldError{Field: "name", Message: "name too long"})
		}
		if len(r.Note) > MaxNoteLength {
			errs = append(errs, FieldError{Field: "note", Message: "note too long"})
		}
		if r.Guests != nil && *r.Guests < 0 {
			errs = append(errs, FieldError{Field: "guests", Message: "guests cannot be negative"})
		}
	case ActionCancel:
		if r.SignupID == "" {
			errs = append(errs, FieldError{Field: "signup_id", Message: "signup_id is required"})
		}
	default:
		errs = append(errs, FieldError{Field: "action", Message: "action must be \"reserve\" or \"cancel\""})
	}

	return errs
}

// ReserveRequest is the validated reserve variant handed to the engine.
type ReserveRequest struct {
	Slots    []SlotSelectionRequest
	Name     string
	Email    string
	Phone    string
	Guests   *int
	Note     string
	Answers  []Answer
	SignupID string
}

// CancelRequest is the validated cancel variant.
type CancelRequest struct {
	SignupID string
}

// Reserve extracts the reserve variant. Call only after Validate.
func (r *SignupActionRequest) Reserve() *ReserveRequest {
	return &ReserveRequest{
		Slots:    r.Slots,
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Phone:    strings.TrimSpace(r.Phone),
		Guests:   r.Guests,
		Note:     strings.TrimSpace(r.Note),
		Answers:  r.Answers,
		SignupID: r.SignupID,
	}
}

// Cancel extracts the cancel variant. Call only after Validate.
func (r *SignupActionRequest) Cancel() *CancelRequest {
	return &CancelRequest{SignupID: r.SignupID}
}

// SignupSettingsRequest is the inbound settings shape. Booleans whose
// default is on are pointers, so a partially-specified settings object
// keeps the defaults for whatever it omits instead of zeroing them.
type SignupSettingsRequest struct {
	AllowMultipleSlotsPerPerson bool  `json:"allow_multiple_slots_per_person"`
	MaxSlotsPerPerson           *int  `json:"max_slots_per_person,omitempty"`
	MaxGuestsPerSignup          int   `json:"max_guests_per_signup"`
	WaitlistEnabled             *bool `json:"waitlist_enabled,omitempty"`
	LockWhenFull                *bool `json:"lock_when_full,omitempty"`
	CollectPhone                bool  `json:"collect_phone"`
	CollectEmail                bool  `json:"collect_email"`
	ShowRemainingSpots          bool  `json:"show_remaining_spots"`
	HideParticipantNames        bool  `json:"hide_participant_names"`
	AutoRemindersHoursBefore    []int `json:"auto_reminders_hours_before"`
}

// Resolve materializes the request over DefaultSettings.
func (r *SignupSettingsRequest) Resolve() SignupSettings {
	s := DefaultSettings()
	s.AllowMultipleSlotsPerPerson = r.AllowMultipleSlotsPerPerson
	s.MaxSlotsPerPerson = r.MaxSlotsPerPerson
	if r.MaxGuestsPerSignup != 0 {
		s.MaxGuestsPerSignup = r.MaxGuestsPerSignup
	}
	if r.WaitlistEnabled != nil {
		s.WaitlistEnabled = *r.WaitlistEnabled
	}
	if r.LockWhenFull != nil {
		s.LockWhenFull = *r.LockWhenFull
	}
	s.CollectPhone = r.CollectPhone
	s.CollectEmail = r.CollectEmail
	s.ShowRemainingSpots = r.ShowRemainingSpots
	s.HideParticipantNames = r.HideParticipantNames
	if r.AutoRemindersHoursBefore != nil {
		s.AutoRemindersHoursBefore = r.AutoRemindersHoursBefore
	}
	return s
}

// UpsertFormRequest creates or replaces an event's sign-up sheet. The
// sanitizer is the permissive boundary: out-of-range values are coerced,
// not rejected, so this request only validates gross shape.
type UpsertFormRequest struct {
	Enabled   *bool                  `json:"enabled,omitempty"`
	Title     string                 `json:"title,omitempty"`
	Sections  []Section              `json:"sections"`
	Settings  *SignupSettingsRequest `json:"settings,omitempty"`
	Questions []Question             `json:"questions,omitempty"`
}

// Validate validates an UpsertFormRequest.
func (r *UpsertFormRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Sections) == 0 {
		errs = append(errs, FieldError{Field: "sections", Message: "at least one section is required"})
	}
	if len(r.Title) > MaxNameLength {
		errs = append(errs, FieldError{Field: "title", Message: "title too long"})
	}
	return errs
}

// ============================================================================
// View types (outbound)
// ============================================================================

// SlotView is a slot annotated with live availability numbers.
type SlotView struct {
	Slot
	Remaining  *int `json:"remaining,omitempty"`
	Waitlisted *int `json:"waitlisted,omitempty"`
}

// SectionView mirrors Section with annotated slots.
type SectionView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Slots       []SlotView `json:"slots"`
}

// ResponseView is a response as exposed through the API: the manage token
// hash is stripped and, when the form hides participant names, so are the
// name and contact channels.
type ResponseView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Guests    *int            `json:"guests,omitempty"`
	Note      string          `json:"note,omitempty"`
	Slots     []SlotSelection `json:"slots"`
	Answers   []Answer        `json:"answers,omitempty"`
	Status    ResponseStatus  `json:"status"`
	CreatedOn time.Time       `json:"created_on"`
	UpdatedOn time.Time       `json:"updated_on"`
}

// FormView is the outbound shape of a sign-up sheet.
type FormView struct {
	Enabled   bool           `json:"enabled"`
	Title     string         `json:"title,omitempty"`
	Version   int            `json:"version"`
	Sections  []SectionView  `json:"sections"`
	Settings  SignupSettings `json:"settings"`
	Questions []Question     `json:"questions,omitempty"`
	Responses []ResponseView `json:"responses"`
}

// SignupResult is the outbound shape of a successful reserve.
type SignupResult struct {
	OK       bool           `json:"ok"`
	Status   ResponseStatus `json:"status"`
	Form     *FormView      `json:"signup_form"`
	Response *ResponseView  `json:"response"`

	// ManageToken is set only when a fresh guest response was created; it
	// is shown once and never recoverable afterwards.
	ManageToken string `json:"manage_token,omitempty"`
}

