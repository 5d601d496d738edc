package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/perevoscic/envitefy-sub005/internal/model"
	"github.com/perevoscic/envitefy-sub005/internal/repository"
)

type mockReminderRepo struct {
	mu     sync.Mutex
	stored []repository.StoredForm
	fail   error
}

func (m *mockReminderRepo) ListAll(ctx context.Context) ([]repository.StoredForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]repository.StoredForm, len(m.stored))
	copy(out, m.stored)
	return out, nil
}

func (m *mockReminderRepo) RecordReminders(ctx context.Context, eventID string, form *model.SignupForm, sent []model.SentReminder) (*model.SignupForm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.stored {
		if m.stored[i].EventID == eventID {
			m.stored[i].Form.RemindersSent = append(m.stored[i].Form.RemindersSent, sent...)
			updated := m.stored[i].Form
			return &updated, nil
		}
	}
	return nil, errors.New("not found")
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *recordingSender) SendReminder(ctx context.Context, form *model.SignupForm, response *model.Response, slotLabel, startTime string, hoursBefore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, response.ID)
	return nil
}

func reminderForm(start time.Time) model.SignupForm {
	return model.SignupForm{
		Enabled: true,
		Title:   "Potluck",
		Sections: []model.Section{
			{ID: "sec", Title: "Dishes", Slots: []model.Slot{
				{ID: "slot", Label: "Main course", StartTime: start.Format(time.RFC3339)},
			}},
		},
		Settings: model.SignupSettings{
			MaxGuestsPerSignup:       1,
			AutoRemindersHoursBefore: []int{2, 24},
		},
		Responses: []model.Response{
			{
				ID:     "r1",
				Name:   "Casey",
				Email:  "casey@example.com",
				Status: model.StatusConfirmed,
				Slots:  []model.SlotSelection{{SectionID: "sec", SlotID: "slot", Quantity: 1}},
			},
			{
				ID:     "waitlisted",
				Name:   "Waits",
				Email:  "waits@example.com",
				Status: model.StatusWaitlisted,
				Slots:  []model.SlotSelection{{SectionID: "sec", SlotID: "slot", Quantity: 1}},
			},
			{
				ID:     "no-email",
				Name:   "Phone Only",
				Phone:  "555-0100",
				Status: model.StatusConfirmed,
				Slots:  []model.SlotSelection{{SectionID: "sec", SlotID: "slot", Quantity: 1}},
			},
		},
	}
}

func TestRunOnceSendsDueReminders(t *testing.T) {
	t.Parallel()

	// Slot starts in one hour: the 2h offset is due, the 24h offset too.
	// Only one ledger entry per offset is written.
	start := time.Now().UTC().Add(time.Hour)
	repo := &mockReminderRepo{stored: []repository.StoredForm{{EventID: "event:1", Form: reminderForm(start)}}}
	sender := &recordingSender{}
	p := NewReminderProcessor(repo, sender, "* * * * *")

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Confirmed response with email gets both offsets; waitlisted and
	// email-less responses are skipped.
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d (%v)", len(sender.sent), sender.sent)
	}
	for _, id := range sender.sent {
		if id != "r1" {
			t.Errorf("unexpected recipient %s", id)
		}
	}
	if len(repo.stored[0].Form.RemindersSent) != 2 {
		t.Errorf("expected 2 ledger entries, got %d", len(repo.stored[0].Form.RemindersSent))
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	t.Parallel()

	start := time.Now().UTC().Add(time.Hour)
	repo := &mockReminderRepo{stored: []repository.StoredForm{{EventID: "event:1", Form: reminderForm(start)}}}
	sender := &recordingSender{}
	p := NewReminderProcessor(repo, sender, "* * * * *")

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Errorf("second scan must not resend, got %d sends", len(sender.sent))
	}
}

func TestRunOnceSkipsNotYetDue(t *testing.T) {
	t.Parallel()

	// Slot starts in 48 hours: neither the 2h nor the 24h offset is due.
	start := time.Now().UTC().Add(48 * time.Hour)
	repo := &mockReminderRepo{stored: []repository.StoredForm{{EventID: "event:1", Form: reminderForm(start)}}}
	sender := &recordingSender{}
	p := NewReminderProcessor(repo, sender, "* * * * *")

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no sends, got %v", sender.sent)
	}
}

func TestRunOnceSkipsPastAndUnparsableSlots(t *testing.T) {
	t.Parallel()

	form := reminderForm(time.Now().UTC().Add(-time.Hour))
	form.Sections[0].Slots = append(form.Sections[0].Slots, model.Slot{
		ID: "vague", Label: "Sometime", StartTime: "next tuesday",
	})
	repo := &mockReminderRepo{stored: []repository.StoredForm{{EventID: "event:1", Form: form}}}
	sender := &recordingSender{}
	p := NewReminderProcessor(repo, sender, "* * * * *")

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("past or unparsable slots must not trigger sends, got %v", sender.sent)
	}
}

func TestRunOnceSendFailureLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	start := time.Now().UTC().Add(time.Hour)
	repo := &mockReminderRepo{stored: []repository.StoredForm{{EventID: "event:1", Form: reminderForm(start)}}}
	sender := &recordingSender{fail: true}
	p := NewReminderProcessor(repo, sender, "* * * * *")

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("scan itself should not fail: %v", err)
	}
	if len(repo.stored[0].Form.RemindersSent) != 0 {
		t.Error("failed sends must not be recorded, so they retry next scan")
	}
}

func TestRunOnceListError(t *testing.T) {
	t.Parallel()

	repo := &mockReminderRepo{fail: errors.New("db down")}
	p := NewReminderProcessor(repo, &recordingSender{}, "* * * * *")

	if err := p.RunOnce(context.Background()); err == nil {
		t.Error("expected error when listing fails")
	}
}
