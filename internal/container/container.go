package container

import (
	"fmt"
	"os"

	"worldstats/adapters/mail"
	"worldstats/adapters/report"
	"worldstats/adapters/snapshot"
	"worldstats/app"
	"worldstats/internal"
	"worldstats/internal/aggregate"
	"worldstats/internal/config"
	"worldstats/internal/errors"
	"worldstats/internal/notify"
	"worldstats/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Source  ports.RecordSource
	Writers []ports.ReportWriter
	Mailer  ports.Mailer
	State   ports.SendStateStore

	// Services
	Normalizer  *aggregate.Normalizer
	Aggregation *app.AggregationService
	Notifier    *notify.Service
	Production  *app.ProductionService
}

// New wires the container from configuration. Missing email credentials do not fail
// construction; the mailer then rejects every send with CONFIGURATION_MISSING.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level), os.Stderr),
	}

	c.initAggregation()
	c.initNotification()

	c.Production = app.NewProductionService(c.Aggregation, c.Notifier, c.Logger)
	c.Logger.Debug("container initialized (data dir %s, %d report writers)", cfg.Data.Dir, len(c.Writers))
	return c, nil
}

// initAggregation wires the snapshot source, normalizer and report writers
func (c *Container) initAggregation() {
	c.Source = snapshot.NewReader(c.Config.Data.Dir, c.Config.Data.Pattern, c.Logger)
	c.Normalizer = aggregate.NewDefaultNormalizer()

	c.Writers = []ports.ReportWriter{report.NewCSVWriter(c.Config.Report.CSVFile)}
	if c.Config.Report.XLSXFile != "" {
		c.Writers = append(c.Writers, report.NewExcelWriter(c.Config.Report.XLSXFile))
	}

	c.Aggregation = app.NewAggregationService(c.Source, c.Normalizer, c.Writers, c.Logger)
}

// initNotification wires the mailer, send-state store and notification service
func (c *Container) initNotification() {
	email := c.Config.Email
	c.State = notify.NewFileStateStore(email.LastSentFile)

	if missing := email.MissingEmailFields(); len(missing) > 0 {
		c.Mailer = mail.UnconfiguredMailer{Err: errors.ConfigurationMissing(missing)}
	} else {
		mailer, err := mail.NewSMTPMailer(mail.SMTPSettings{
			Host:     email.SMTPServer,
			Port:     email.SMTPPort,
			Username: email.Username,
			Password: email.Password,
		})
		if err != nil {
			c.Mailer = mail.UnconfiguredMailer{Err: err}
		} else {
			c.Mailer = mailer
		}
	}

	c.Notifier = notify.NewService(c.Mailer, c.State, notify.Settings{
		From:          email.From,
		To:            email.To,
		Interval:      email.Interval,
		SubjectPrefix: email.SubjectPrefix,
		DigestTop:     email.DigestTop,
	}, c.Logger)
}

// AggregationRequest builds a run request from the configured policy
func (c *Container) AggregationRequest() app.AggregationRequest {
	return app.AggregationRequest{
		Policy: c.Config.Policy,
		TopN:   c.Config.Report.TopN,
	}
}
