package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/perevoscic/envitefy-sub005/internal/database"
	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// FormRepository handles sign-up form data access
type FormRepository struct {
	db database.Database
}

// NewFormRepository creates a new form repository
func NewFormRepository(db database.Database) *FormRepository {
	return &FormRepository{db: db}
}

// StoredForm pairs a form with the event it belongs to.
type StoredForm struct {
	EventID string
	Form    model.SignupForm
}

// GetByEvent retrieves the sign-up form for an event, or nil when the
// event has none.
func (r *FormRepository) GetByEvent(ctx context.Context, eventID string) (*model.SignupForm, error) {
	query := `SELECT meta::id(id) AS event_id, version, form FROM type::thing("signup_form", $event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	row, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	stored, err := parseStoredForm(row)
	if err != nil {
		return nil, err
	}
	return &stored.Form, nil
}

// Create stores a brand new form for an event at version 1.
func (r *FormRepository) Create(ctx context.Context, eventID string, form *model.SignupForm) error {
	form.Version = 1
	doc, err := encodeForm(form)
	if err != nil {
		return err
	}

	query := `
		CREATE type::thing("signup_form", $event_id) CONTENT {
			version: 1,
			form: $form
		}
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"form":     doc,
	}
	return r.db.Execute(ctx, query, vars)
}

// Save persists the form conditional on form.Version still being the
// stored version. On success the version is incremented and the saved
// form returned; a lost race returns database.ErrConflict.
func (r *FormRepository) Save(ctx context.Context, eventID string, form *model.SignupForm) (*model.SignupForm, error) {
	expected := form.Version
	next := expected + 1

	saved := *form
	saved.Version = next
	doc, err := encodeForm(&saved)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE type::thing("signup_form", $event_id)
		SET version = $next, form = $form
		WHERE version = $expected
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"form":     doc,
		"next":     next,
		"expected": expected,
	}

	rows, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.ErrConflict
	}
	return &saved, nil
}

// ListAll returns every stored form. The reminder job uses this to find
// forms with upcoming slots; the fleet of forms per deployment is small
// enough that filtering happens in the job.
func (r *FormRepository) ListAll(ctx context.Context) ([]StoredForm, error) {
	query := `SELECT meta::id(id) AS event_id, version, form FROM signup_form`

	rows, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	out := make([]StoredForm, 0, len(rows))
	for _, row := range rows {
		stored, err := parseStoredForm(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *stored)
	}
	return out, nil
}

// RecordReminders appends reminder-ledger entries to a stored form
// without touching the rest of the aggregate. Best effort: the job
// re-reads and conditionally saves like any other writer.
func (r *FormRepository) RecordReminders(ctx context.Context, eventID string, form *model.SignupForm, sent []model.SentReminder) (*model.SignupForm, error) {
	updated := *form
	updated.RemindersSent = append(append([]model.SentReminder{}, form.RemindersSent...), sent...)
	return r.Save(ctx, eventID, &updated)
}

// encodeForm serializes the aggregate for storage. The form travels as a
// JSON string so driver-side type coercion can never mangle it.
func encodeForm(form *model.SignupForm) (string, error) {
	data, err := json.Marshal(form)
	if err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	return string(data), nil
}

func parseStoredForm(row interface{}) (*StoredForm, error) {
	m, err := asMap(row)
	if err != nil {
		return nil, err
	}

	raw := asString(m["form"])
	if raw == "" {
		return nil, fmt.Errorf("stored form document missing form payload")
	}

	var form model.SignupForm
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}

	// The stored version column is authoritative.
	form.Version = asInt(m["version"])

	return &StoredForm{
		EventID: asString(m["event_id"]),
		Form:    form,
	}, nil
}
