package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/perevoscic/envitefy-sub005/internal/database"
	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// saveRetries bounds how many times the pipeline re-runs after a
// version conflict before giving up.
const saveRetries = 3

// FormRepositoryInterface defines the repository interface
type FormRepositoryInterface interface {
	GetByEvent(ctx context.Context, eventID string) (*model.SignupForm, error)
	Create(ctx context.Context, eventID string, form *model.SignupForm) error
	// Save persists the form conditional on form.Version still being the
	// stored version; it returns database.ErrConflict otherwise.
	Save(ctx context.Context, eventID string, form *model.SignupForm) (*model.SignupForm, error)
}

// Notifier is told about successful reservations so the host application
// can send a confirmation message. Calls are fire-and-forget: they run on
// their own goroutine and never block or fail the reservation.
type Notifier interface {
	SignupConfirmed(ctx context.Context, eventID string, form *model.SignupForm, response *model.Response)
}

// SignupService runs the sign-up pipeline against stored forms.
type SignupService struct {
	repo     FormRepositoryInterface
	notifier Notifier
}

// NewSignupService creates a new signup service. notifier may be nil.
func NewSignupService(repo FormRepositoryInterface, notifier Notifier) *SignupService {
	return &SignupService{
		repo:     repo,
		notifier: notifier,
	}
}

// ReserveOutcome is the result of a successful reservation.
type ReserveOutcome struct {
	Form        *model.SignupForm
	Response    *model.Response
	ManageToken string
}

// GetForm retrieves an event's sign-up form.
func (s *SignupService) GetForm(ctx context.Context, eventID string) (*model.SignupForm, error) {
	form, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// PutForm creates or replaces an event's sign-up sheet. Existing
// responses and the version counter are preserved across structural
// edits, then the whole form is re-sanitized and rebalanced so shrunken
// capacities immediately demote over-capacity responses.
func (s *SignupService) PutForm(ctx context.Context, eventID, ownerID string, req *model.UpsertFormRequest) (*model.SignupForm, error) {
	existing, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.OwnerID != "" && existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	now := time.Now().UTC()
	form := model.SignupForm{
		Enabled:   true,
		Title:     req.Title,
		OwnerID:   ownerID,
		Sections:  req.Sections,
		Settings:  model.DefaultSettings(),
		Questions: req.Questions,
		CreatedOn: now,
		UpdatedOn: now,
	}
	if req.Enabled != nil {
		form.Enabled = *req.Enabled
	}
	if req.Settings != nil {
		form.Settings = req.Settings.Resolve()
	}
	if existing != nil {
		form.Version = existing.Version
		form.Responses = existing.Responses
		form.RemindersSent = existing.RemindersSent
		form.CreatedOn = existing.CreatedOn
	}

	ensureIDs(&form)
	sanitized := rebalanceAt(Sanitize(form), now)

	if existing == nil {
		if err := s.repo.Create(ctx, eventID, &sanitized); err != nil {
			return nil, err
		}
		return &sanitized, nil
	}
	return s.repo.Save(ctx, eventID, &sanitized)
}

// Reserve runs the full reservation pipeline:
// load -> sanitize -> apply -> rebalance -> sanitize -> versioned save.
// On a version conflict the pipeline restarts against the fresh snapshot.
func (s *SignupService) Reserve(ctx context.Context, eventID string, ident Identity, req *model.ReserveRequest) (*ReserveOutcome, error) {
	var responseID, manageToken string

	saved, err := s.withRetry(ctx, eventID, func(form model.SignupForm, now time.Time) (model.SignupForm, error) {
		response, token, err := applyReserve(&form, req, ident, now)
		if err != nil {
			return form, err
		}
		responseID = response.ID
		manageToken = token

		return rebalanceAt(form, now), nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &ReserveOutcome{
		Form:        saved,
		Response:    saved.FindResponse(responseID),
		ManageToken: manageToken,
	}
	s.notify(eventID, outcome)
	return outcome, nil
}

// Cancel marks one response cancelled and rebalances, promoting any
// eligible waitlisted responses.
func (s *SignupService) Cancel(ctx context.Context, eventID, signupID string, auth CancelAuth) (*model.SignupForm, error) {
	return s.withRetry(ctx, eventID, func(form model.SignupForm, now time.Time) (model.SignupForm, error) {
		if err := applyCancel(&form, signupID, auth, now); err != nil {
			return form, err
		}
		return rebalanceAt(form, now), nil
	})
}

// withRetry loads the form, sanitizes it, applies fn, re-sanitizes and
// saves under the loaded version. A conflicting concurrent save restarts
// the whole sequence, bounded at saveRetries attempts; exhausting them
// surfaces ErrVersionConflict. The saved form is returned.
func (s *SignupService) withRetry(ctx context.Context, eventID string, fn func(form model.SignupForm, now time.Time) (model.SignupForm, error)) (*model.SignupForm, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		stored, err := s.repo.GetByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, ErrFormNotFound
		}

		now := time.Now().UTC()
		form := Sanitize(*stored)

		form, err = fn(form, now)
		if err != nil {
			return nil, err
		}

		form = Sanitize(form)
		form.UpdatedOn = now

		saved, err := s.repo.Save(ctx, eventID, &form)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		slog.Warn("signup save conflict, retrying",
			slog.String("event_id", eventID),
			slog.Int("attempt", attempt+1),
		)
	}
	return nil, ErrVersionConflict
}

func (s *SignupService) notify(eventID string, outcome *ReserveOutcome) {
	if s.notifier == nil || outcome == nil || outcome.Response == nil {
		return
	}
	form := outcome.Form
	response := *outcome.Response

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.SignupConfirmed(ctx, eventID, form, &response)
	}()
}

// ensureIDs assigns IDs to sections, slots and questions that arrive
// without one, so selections always have a stable target.
func ensureIDs(form *model.SignupForm) {
	for i := range form.Sections {
		if form.Sections[i].ID == "" {
			form.Sections[i].ID = uuid.New().String()
		}
		for j := range form.Sections[i].Slots {
			if form.Sections[i].Slots[j].ID == "" {
				form.Sections[i].Slots[j].ID = uuid.New().String()
			}
		}
	}
	for i := range form.Questions {
		if form.Questions[i].ID == "" {
			form.Questions[i].ID = uuid.New().String()
		}
	}
}
