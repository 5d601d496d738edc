package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/perevoscic/envitefy-sub005/internal/model"
)

// EmailNotifier sends sign-up confirmations and reminders through
// SendGrid. It implements Notifier; failures are logged and dropped so a
// mail outage can never fail a reservation.
type EmailNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailNotifier creates a SendGrid-backed notifier.
func NewEmailNotifier(apiKey, fromEmail, fromName string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SignupConfirmed emails the person who just reserved. Responses without
// an email channel are skipped.
func (n *EmailNotifier) SignupConfirmed(ctx context.Context, eventID string, form *model.SignupForm, response *model.Response) {
	if response.Email == "" {
		return
	}

	title := form.Title
	if title == "" {
		title = "the sign-up sheet"
	}

	var subject, lede string
	switch response.Status {
	case model.StatusWaitlisted:
		subject = fmt.Sprintf("You're on the waitlist for %s", title)
		lede = "Your spot is currently waitlisted. We'll confirm it automatically if capacity opens up."
	default:
		subject = fmt.Sprintf("You're signed up for %s", title)
		lede = "Your spot is confirmed."
	}

	body := fmt.Sprintf("Hi %s,\n\n%s\n\nYour selections:\n%s\n",
		response.Name, lede, describeSelections(form, response))

	if err := n.send(ctx, response.Email, response.Name, subject, body); err != nil {
		slog.Error("confirmation email failed",
			slog.String("event_id", eventID),
			slog.String("response_id", response.ID),
			slog.String("error", err.Error()),
		)
	}
}

// SendReminder emails one upcoming-slot reminder.
func (n *EmailNotifier) SendReminder(ctx context.Context, form *model.SignupForm, response *model.Response, slotLabel, startTime string, hoursBefore int) error {
	if response.Email == "" {
		return nil
	}

	title := form.Title
	if title == "" {
		title = "your sign-up"
	}

	subject := fmt.Sprintf("Reminder: %s is coming up", title)
	body := fmt.Sprintf("Hi %s,\n\nThis is a reminder that %q starts at %s (about %d hours from now).\n",
		response.Name, slotLabel, startTime, hoursBefore)

	return n.send(ctx, response.Email, response.Name, subject, body)
}

func (n *EmailNotifier) send(ctx context.Context, to, toName, subject, plainText string) error {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}

func describeSelections(form *model.SignupForm, response *model.Response) string {
	var b strings.Builder
	for _, sel := range response.Slots {
		slot := form.FindSlot(sel.SectionID, sel.SlotID)
		if slot == nil {
			continue
		}
		fmt.Fprintf(&b, "  - %s", slot.Label)
		if sel.Quantity > 1 {
			fmt.Fprintf(&b, " x%d", sel.Quantity)
		}
		if slot.StartTime != "" {
			fmt.Fprintf(&b, " (%s)", slot.StartTime)
		}
		b.WriteString("\n")
	}
	return b.String()
}
