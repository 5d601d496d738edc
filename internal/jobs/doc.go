// Package jobs contains background processors that run alongside the
// HTTP server.
//
// ReminderProcessor scans stored sign-up forms on a cron schedule and
// mails reminders for confirmed responses with upcoming slots. Delivery
// is deduplicated through the reminders_sent ledger stored on each
// form, so restarts and overlapping scans never double-send.
package jobs
