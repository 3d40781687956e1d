package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// CalendarConfig describes a single subscribed ICS feed.
type CalendarConfig struct {
	// Name is the human-friendly label shown in the report and used in logs.
	Name string `yaml:"name"`
	// URL is the ICS subscription endpoint. Entries without a URL are
	// skipped at run time with a log line, not rejected at load time.
	URL string `yaml:"ics_url"`
}

// SMTPConfig holds mail delivery settings.
type SMTPConfig struct {
	From string `yaml:"from"`
	// To accepts either a single address or a list in YAML.
	To       RecipientList `yaml:"to"`
	Server   string        `yaml:"server"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	UseTLS   *bool         `yaml:"use_tls"`
}

// StartTLS reports whether STARTTLS should be used; defaults to true.
func (s SMTPConfig) StartTLS() bool {
	return s.UseTLS == nil || *s.UseTLS
}

// RecipientList unmarshals from either a YAML scalar or a sequence.
type RecipientList []string

func (r *RecipientList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*r = RecipientList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*r = RecipientList(ss)
		return nil
	default:
		return fmt.Errorf("smtp.to: unsupported YAML node kind %d", value.Kind)
	}
}

// SlackWebhookConfig holds incoming-webhook delivery settings.
type SlackWebhookConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// SlackBotConfig holds bot-token delivery settings.
type SlackBotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// ScheduleConfig holds cron expressions for the serve command.
type ScheduleConfig struct {
	Daily  string `yaml:"daily"`
	Weekly string `yaml:"weekly"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA name of the canonical display zone.
	Timezone string `yaml:"time_zone"`

	IntroTextDaily  string `yaml:"intro_text_daily"`
	IntroTextWeekly string `yaml:"intro_text_weekly"`

	// DryRun writes the rendered report to a file instead of delivering.
	DryRun bool `yaml:"dry_run"`

	Calendars []CalendarConfig `yaml:"calendars"`

	SMTP     SMTPConfig         `yaml:"smtp"`
	Slack    SlackWebhookConfig `yaml:"slack"`
	SlackBot SlackBotConfig     `yaml:"slack_bot"`

	Schedule ScheduleConfig `yaml:"schedule"`
}

// secrets are credentials that may be supplied via environment variables
// instead of the config file. Env values win over YAML values.
type secrets struct {
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	SlackWebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`
	SlackToken      string `envconfig:"SLACK_TOKEN"`
}

const envPrefix = "calsummary"

// Normalize fills in missing values with the defaults the original
// deployment relied on.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Europe/Prague"
	}
	if c.SMTP.Server == "" {
		c.SMTP.Server = "smtp.gmail.com"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
}

// Validate checks the invariants a run cannot start without.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown time_zone %q: %w", c.Timezone, err)
	}
	withURL := 0
	for _, cal := range c.Calendars {
		if cal.URL != "" {
			withURL++
		}
	}
	if withURL == 0 {
		return errors.New("no calendars with an ics_url configured")
	}
	if err := validateCronSpec("schedule.daily", c.Schedule.Daily); err != nil {
		return err
	}
	if err := validateCronSpec("schedule.weekly", c.Schedule.Weekly); err != nil {
		return err
	}
	return nil
}

// validateCronSpec rejects malformed cron expressions at load time instead
// of when the serve daemon registers its jobs.
func validateCronSpec(field, spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%s %q: %w", field, spec, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		panic(err)
	}
	return loc
}

// Intro returns the configured intro text for the given mode, empty when
// unset.
func (c *Config) Intro(mode string) string {
	if mode == "daily" {
		return c.IntroTextDaily
	}
	return c.IntroTextWeekly
}

// Load reads, normalizes and validates configuration from the given YAML
// path. A missing or unreadable file is a fatal error; there is no
// first-run auto-creation.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var sec secrets
	if err := envconfig.Process(envPrefix, &sec); err != nil {
		return fmt.Errorf("read env overrides: %w", err)
	}
	if sec.SMTPPassword != "" {
		c.SMTP.Password = sec.SMTPPassword
	}
	if sec.SlackWebhookURL != "" {
		c.Slack.WebhookURL = sec.SlackWebhookURL
	}
	if sec.SlackToken != "" {
		c.SlackBot.Token = sec.SlackToken
	}
	return nil
}
