package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinaparikova/calendar-asistant/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
time_zone: Europe/Prague
intro_text_daily: "Dobré ráno!"
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
  - name: Family
    ics_url: https://example.com/family.ics
smtp:
  from: bot@example.com
  to:
    - one@example.com
    - two@example.com
  username: bot
  password: file-secret
slack:
  enabled: true
  webhook_url: https://hooks.slack.com/services/T/B/X
`

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Prague", cfg.Timezone)
	assert.Len(t, cfg.Calendars, 2)
	assert.Equal(t, "Work", cfg.Calendars[0].Name)
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, []string(cfg.SMTP.To))
	assert.Equal(t, "Dobré ráno!", cfg.Intro("daily"))
	assert.Empty(t, cfg.Intro("weekly"))

	// Defaults filled in by Normalize.
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Server)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.StartTLS())
}

func TestLoad_ScalarRecipient(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
smtp:
  from: bot@example.com
  to: single@example.com
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"single@example.com"}, []string(cfg.SMTP.To))
}

func TestLoad_DefaultTimezone(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
`))
	require.NoError(t, err)
	assert.Equal(t, "Europe/Prague", cfg.Timezone)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unparseable_yaml", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "calendars: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("unknown_timezone", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
time_zone: Mars/Olympus_Mons
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
`))
		assert.Error(t, err)
	})

	t.Run("no_calendars_with_url", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
calendars:
  - name: NoURL
`))
		assert.Error(t, err)
	})

	t.Run("empty_path", func(t *testing.T) {
		_, err := config.Load("")
		assert.Error(t, err)
	})
}

func TestLoad_Schedule(t *testing.T) {
	t.Run("valid_cron_specs_accepted", func(t *testing.T) {
		cfg, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
schedule:
  daily: "0 7 * * *"
  weekly: "0 18 * * 0"
`))
		require.NoError(t, err)
		assert.Equal(t, "0 7 * * *", cfg.Schedule.Daily)
		assert.Equal(t, "0 18 * * 0", cfg.Schedule.Weekly)
	})

	t.Run("invalid_cron_spec_fails_load", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
schedule:
  daily: "not-a-cron"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schedule.daily")
	})

	t.Run("empty_specs_are_fine", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
`))
		assert.NoError(t, err)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CALSUMMARY_SMTP_PASSWORD", "env-secret")
	t.Setenv("CALSUMMARY_SLACK_TOKEN", "xoxb-env")

	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.SMTP.Password, "env value wins over YAML")
	assert.Equal(t, "xoxb-env", cfg.SlackBot.Token)
	// Untouched when env is unset.
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", cfg.Slack.WebhookURL)
}

func TestUseTLSExplicitFalse(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
calendars:
  - name: Work
    ics_url: https://example.com/work.ics
smtp:
  from: bot@example.com
  to: a@example.com
  use_tls: false
`))
	require.NoError(t, err)
	assert.False(t, cfg.SMTP.StartTLS())
}
