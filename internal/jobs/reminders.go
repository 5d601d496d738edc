package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/perevoscic/envitefy-sub005/internal/model"
	"github.com/perevoscic/envitefy-sub005/internal/repository"
)

// ReminderRepository is the slice of the form repository the reminder
// job needs.
type ReminderRepository interface {
	ListAll(ctx context.Context) ([]repository.StoredForm, error)
	RecordReminders(ctx context.Context, eventID string, form *model.SignupForm, sent []model.SentReminder) (*model.SignupForm, error)
}

// ReminderSender delivers one upcoming-slot reminder.
type ReminderSender interface {
	SendReminder(ctx context.Context, form *model.SignupForm, response *model.Response, slotLabel, startTime string, hoursBefore int) error
}

// ReminderProcessor scans stored forms on a cron schedule and mails
// reminders for upcoming slots, according to each form's
// auto_reminders_hours_before setting. Deliveries are recorded in the
// form's reminders_sent ledger so a (response, slot, offset) triple is
// never mailed twice.
type ReminderProcessor struct {
	repo     ReminderRepository
	sender   ReminderSender
	schedule string

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewReminderProcessor creates a reminder processor. schedule is a
// standard five-field cron expression.
func NewReminderProcessor(repo ReminderRepository, sender ReminderSender, schedule string) *ReminderProcessor {
	return &ReminderProcessor{
		repo:     repo,
		sender:   sender,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start begins the scheduled scans.
func (p *ReminderProcessor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}

	_, err := p.cron.AddFunc(p.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := p.RunOnce(ctx); err != nil {
			slog.Error("reminder scan failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", p.schedule, err)
	}

	p.cron.Start()
	p.running = true
	slog.Info("reminder processor started", slog.String("schedule", p.schedule))
	return nil
}

// Stop halts the schedule and waits for an in-flight scan to finish.
func (p *ReminderProcessor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
	slog.Info("reminder processor stopped")
}

// RunOnce scans every stored form once. Exported for tests and manual
// triggering.
func (p *ReminderProcessor) RunOnce(ctx context.Context) error {
	forms, err := p.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list forms: %w", err)
	}

	now := time.Now().UTC()
	for i := range forms {
		p.processForm(ctx, &forms[i], now)
	}
	return nil
}

func (p *ReminderProcessor) processForm(ctx context.Context, stored *repository.StoredForm, now time.Time) {
	form := &stored.Form
	if !form.Enabled || len(form.Settings.AutoRemindersHoursBefore) == 0 {
		return
	}

	sent := make([]model.SentReminder, 0)
	already := sentIndex(form.RemindersSent)

	for ri := range form.Responses {
		response := &form.Responses[ri]
		if response.Status != model.StatusConfirmed || response.Email == "" {
			continue
		}

		for _, sel := range response.Slots {
			slot := form.FindSlot(sel.SectionID, sel.SlotID)
			if slot == nil || slot.StartTime == "" {
				continue
			}
			start, err := time.Parse(time.RFC3339, slot.StartTime)
			if err != nil || !start.After(now) {
				continue
			}

			for _, hours := range form.Settings.AutoRemindersHoursBefore {
				key := reminderKey(response.ID, sel.SectionID, sel.SlotID, hours)
				if already[key] {
					continue
				}
				if now.Before(start.Add(-time.Duration(hours) * time.Hour)) {
					continue
				}

				if err := p.sender.SendReminder(ctx, form, response, slot.Label, slot.StartTime, hours); err != nil {
					slog.Error("reminder send failed",
						slog.String("event_id", stored.EventID),
						slog.String("response_id", response.ID),
						slog.String("error", err.Error()),
					)
					continue
				}

				already[key] = true
				sent = append(sent, model.SentReminder{
					ResponseID:  response.ID,
					SectionID:   sel.SectionID,
					SlotID:      sel.SlotID,
					HoursBefore: hours,
					SentOn:      now,
				})
			}
		}
	}

	if len(sent) == 0 {
		return
	}
	if _, err := p.repo.RecordReminders(ctx, stored.EventID, form, sent); err != nil {
		// Lost to a concurrent writer; the next scan re-reads and skips
		// anything whose ledger entry did land.
		slog.Warn("reminder ledger save failed",
			slog.String("event_id", stored.EventID),
			slog.String("error", err.Error()),
		)
	}
}

func sentIndex(sent []model.SentReminder) map[string]bool {
	out := make(map[string]bool, len(sent))
	for _, s := range sent {
		out[reminderKey(s.ResponseID, s.SectionID, s.SlotID, s.HoursBefore)] = true
	}
	return out
}

func reminderKey(responseID, sectionID, slotID string, hours int) string {
	return fmt.Sprintf("%s|%s|%s|%d", responseID, sectionID, slotID, hours)
}
