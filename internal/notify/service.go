package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"worldstats/domain/world"
	"worldstats/internal"
	"worldstats/ports"
)

// Settings controls addressing, cadence and content of the report email
type Settings struct {
	From          string
	To            string
	Interval      time.Duration
	SubjectPrefix string
	DigestTop     int
}

// Outcome describes what Notify did
type Outcome string

const (
	OutcomeSent            Outcome = "sent"
	OutcomeIntervalPending Outcome = "interval_pending"
)

// Report is what gets announced: the ranked list and the file holding the full table
type Report struct {
	Summaries   []world.Summary
	Attachment  string
	GeneratedAt time.Time
}

// Service sends the report email at most once per interval
type Service struct {
	mailer   ports.Mailer
	state    ports.SendStateStore
	settings Settings
	logger   *internal.Logger
	now      func() time.Time
}

// NewService creates a notification service
func NewService(mailer ports.Mailer, state ports.SendStateStore, settings Settings, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.Discard
	}
	return &Service{
		mailer:   mailer,
		state:    state,
		settings: settings,
		logger:   logger.With("notify"),
		now:      time.Now,
	}
}

// ShouldSend reports whether the interval has elapsed since the last recorded send.
// No record, or an unreadable one, means yes.
func (s *Service) ShouldSend() bool {
	last, ok := s.state.LastSent()
	if !ok {
		return true
	}
	return s.now().Sub(last) >= s.settings.Interval
}

// Notify sends the report unless the interval has not elapsed; force skips that check.
// The send time is recorded only after the mailer accepted the message.
func (s *Service) Notify(ctx context.Context, report Report, force bool) (Outcome, error) {
	if !force && !s.ShouldSend() {
		s.logger.Info("email interval (%s) not reached, no email will be sent", s.settings.Interval)
		return OutcomeIntervalPending, nil
	}

	msg := s.Compose(report)
	s.logger.Info("sending analytics email to %s", msg.To)
	if err := s.mailer.Send(ctx, msg); err != nil {
		return "", err
	}
	if err := s.state.MarkSent(s.now()); err != nil {
		// the email went out; a stale marker only means the next run may send again
		s.logger.Warn("failed to record send time: %v", err)
	}
	s.logger.Info("email sent successfully")
	return OutcomeSent, nil
}

// Compose builds the message for a report without sending it
func (s *Service) Compose(report Report) ports.Message {
	generatedAt := report.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = s.now()
	}
	today := generatedAt.Format("2006-01-02")
	digest := NewDigest(report.Summaries, report.Attachment, generatedAt, s.settings.DigestTop)
	hours := int(s.settings.Interval / time.Hour)

	text := fmt.Sprintf("World Analytics Report - %s\n\n%s\n\nFull analytics data is attached as CSV file.\n\nThis email is sent automatically every %d hours.\n",
		today, digest.Text(), hours)
	html := renderMarkdown(fmt.Sprintf("# World Analytics Report - %s\n\n%s\nFull analytics data is attached as CSV file.\n\n_This email is sent automatically every %d hours._\n",
		today, digest.Markdown(), hours))

	msg := ports.Message{
		From:     s.settings.From,
		To:       s.settings.To,
		Subject:  subject(s.settings.SubjectPrefix, today),
		TextBody: text,
		HTMLBody: html,
	}

	if report.Attachment != "" {
		if _, err := os.Stat(report.Attachment); err == nil {
			msg.Attachments = append(msg.Attachments, ports.Attachment{Path: report.Attachment})
		} else {
			s.logger.Warn("could not attach analytics file: %v", err)
		}
	}
	return msg
}

func subject(prefix, day string) string {
	if prefix == "" {
		return "Daily Analytics - " + day
	}
	return prefix + " Daily Analytics - " + day
}
