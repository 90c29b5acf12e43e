// Package settingsstore resolves runtime-overridable settings.
// Priority: database > environment > default.
package settingsstore

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/reader/internal/entities"
)

// Sources a resolved value can come from.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// SettingsRepository is satisfied by *database.Database.
type SettingsRepository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

type SettingsStore struct {
	db SettingsRepository
}

func New(db SettingsRepository) *SettingsStore {
	return &SettingsStore{db: db}
}

// field ties a database key to its environment variable and default.
type field struct {
	key string
	env string
	def string
}

func (s *SettingsStore) resolve(f field) (value, source string) {
	if setting, err := s.db.GetSetting(f.key); err == nil && setting.Value != "" {
		return setting.Value, SourceDatabase
	}
	if v := os.Getenv(f.env); v != "" {
		return v, SourceEnvironment
	}
	return f.def, SourceDefault
}

func (s *SettingsStore) value(f field) string {
	v, _ := s.resolve(f)
	return v
}

func (s *SettingsStore) clear(fields ...field) error {
	for _, f := range fields {
		if err := s.db.DeleteSetting(f.key); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var ErrInvalidSchedule = errors.New("invalid cron schedule")

// ValidateCronSchedule validates a five-field cron schedule string.
func ValidateCronSchedule(schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return errors.Wrapf(ErrInvalidSchedule, "%q: %v", schedule, err)
	}
	return nil
}

// GetCronDescription returns a human-readable description of a cron schedule.
func GetCronDescription(schedule string) string {
	switch schedule {
	case "*/10 * * * *":
		return "Every 10 minutes"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 3 * * *":
		return "Daily at 03:00"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when a schedule fires next.
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
