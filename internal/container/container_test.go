package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"worldstats/adapters/mail"
	"worldstats/adapters/report"
	"worldstats/domain/world"
	"worldstats/internal/config"
	"worldstats/internal/errors"
	"worldstats/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Data:   config.DataConfig{Dir: dir, Pattern: "*.json"},
		Policy: world.DefaultPolicy(),
		Report: config.ReportConfig{CSVFile: filepath.Join(dir, "out.csv"), TopN: 5},
		Email: config.EmailConfig{
			SMTPServer:   "smtp.example.com",
			SMTPPort:     587,
			LastSentFile: filepath.Join(dir, ".last_email_sent"),
			Interval:     24 * time.Hour,
		},
		Logging: config.LoggingConfig{Level: "ERROR"},
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_WiresWriters(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(cfg)
	require.NoError(t, err)
	require.Len(t, c.Writers, 1)
	assert.IsType(t, &report.CSVWriter{}, c.Writers[0])

	cfg.Report.XLSXFile = filepath.Join(t.TempDir(), "out.xlsx")
	c, err = New(cfg)
	require.NoError(t, err)
	require.Len(t, c.Writers, 2)
	assert.IsType(t, &report.ExcelWriter{}, c.Writers[1])

	req := c.AggregationRequest()
	assert.Equal(t, cfg.Policy, req.Policy)
	assert.Equal(t, 5, req.TopN)
}

func TestNew_MissingEmailCredentials(t *testing.T) {
	c, err := New(testConfig(t))
	require.NoError(t, err, "missing credentials must not block aggregation")

	require.IsType(t, mail.UnconfiguredMailer{}, c.Mailer)
	sendErr := c.Mailer.Send(context.Background(), ports.Message{})
	assert.Equal(t, errors.CodeConfigurationMissing, errors.GetCode(sendErr))
}

func TestNew_ConfiguredEmail(t *testing.T) {
	cfg := testConfig(t)
	cfg.Email.Username = "user"
	cfg.Email.Password = "secret"
	cfg.Email.To = "ops@example.com"
	cfg.Email.From = "reports@example.com"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mail.SMTPMailer{}, c.Mailer)
	assert.True(t, c.Notifier.ShouldSend())
}
