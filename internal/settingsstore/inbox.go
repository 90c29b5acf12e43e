package settingsstore

import "github.com/mrlokans/reader/internal/entities"

var (
	inboxDir      = field{entities.SettingKeyInboxDir, "INBOX_DIR", ""}
	inboxSchedule = field{entities.SettingKeyInboxSchedule, "INBOX_SCHEDULE", "*/10 * * * *"}
)

// InboxConfig is the effective inbox scanning configuration. An empty Dir
// disables scanning.
type InboxConfig struct {
	Dir      string `json:"dir"`
	Schedule string `json:"schedule"`
}

func (s *SettingsStore) GetInboxConfig() InboxConfig {
	return InboxConfig{
		Dir:      s.value(inboxDir),
		Schedule: s.value(inboxSchedule),
	}
}

func (s *SettingsStore) SetInboxDir(dir string) error {
	return s.db.SetSetting(inboxDir.key, dir)
}

func (s *SettingsStore) SetInboxSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return err
	}
	return s.db.SetSetting(inboxSchedule.key, schedule)
}

func (s *SettingsStore) ClearInboxSettings() error {
	return s.clear(inboxDir, inboxSchedule)
}
