package settingsstore

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entities"
)

var (
	exportEnabled  = field{entities.SettingKeyExportEnabled, "EXPORT_ENABLED", "false"}
	exportDir      = field{entities.SettingKeyExportDir, "EXPORT_DIR", "./export"}
	exportSchedule = field{entities.SettingKeyExportSchedule, "EXPORT_SCHEDULE", "0 3 * * *"}
	exportFormat   = field{entities.SettingKeyExportFormat, "EXPORT_FORMAT", config.ExportFormatAll}
)

// ExportConfig is the effective scheduled export configuration.
type ExportConfig struct {
	Enabled  bool   `json:"enabled"`
	Dir      string `json:"dir"`
	Schedule string `json:"schedule"`
	Format   string `json:"format"`
}

// ExportConfigInfo includes where each value came from.
type ExportConfigInfo struct {
	ExportConfig
	EnabledSource  string `json:"enabled_source"`
	DirSource      string `json:"dir_source"`
	ScheduleSource string `json:"schedule_source"`
	FormatSource   string `json:"format_source"`
	Description    string `json:"schedule_description"`
}

// ExportConfigUpdate is a partial update; nil fields are left alone.
type ExportConfigUpdate struct {
	Enabled  *bool   `json:"enabled"`
	Dir      *string `json:"dir"`
	Schedule *string `json:"schedule"`
	Format   *string `json:"format"`
}

// ExportStatus is the outcome of the last export run.
type ExportStatus struct {
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Status    string     `json:"status,omitempty"` // "success", "failed", ""
	Message   string     `json:"message,omitempty"`
}

var (
	// ErrInvalidExportFormat is returned for formats other than markdown, yaml or all.
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrEmptyExportDir      = errors.New("export directory cannot be empty")
)

func ValidateExportFormat(format string) error {
	switch format {
	case config.ExportFormatMarkdown, config.ExportFormatYAML, config.ExportFormatAll:
		return nil
	}
	return errors.Wrapf(ErrInvalidExportFormat, "%q", format)
}

func (s *SettingsStore) GetExportConfig() ExportConfig {
	return ExportConfig{
		Enabled:  parseBool(s.value(exportEnabled)),
		Dir:      s.value(exportDir),
		Schedule: s.value(exportSchedule),
		Format:   s.value(exportFormat),
	}
}

func (s *SettingsStore) GetExportConfigInfo() ExportConfigInfo {
	info := ExportConfigInfo{}
	var enabled string
	enabled, info.EnabledSource = s.resolve(exportEnabled)
	info.Enabled = parseBool(enabled)
	info.Dir, info.DirSource = s.resolve(exportDir)
	info.Schedule, info.ScheduleSource = s.resolve(exportSchedule)
	info.Format, info.FormatSource = s.resolve(exportFormat)
	info.Description = GetCronDescription(info.Schedule)
	return info
}

// UpdateExportConfig validates and stores the given overrides.
func (s *SettingsStore) UpdateExportConfig(u ExportConfigUpdate) error {
	if u.Schedule != nil {
		if err := ValidateCronSchedule(*u.Schedule); err != nil {
			return err
		}
	}
	if u.Format != nil {
		if err := ValidateExportFormat(*u.Format); err != nil {
			return err
		}
	}
	if u.Dir != nil && *u.Dir == "" {
		return ErrEmptyExportDir
	}

	if u.Enabled != nil {
		if err := s.db.SetSetting(exportEnabled.key, strconv.FormatBool(*u.Enabled)); err != nil {
			return err
		}
	}
	if u.Dir != nil {
		if err := s.db.SetSetting(exportDir.key, *u.Dir); err != nil {
			return err
		}
	}
	if u.Schedule != nil {
		if err := s.db.SetSetting(exportSchedule.key, *u.Schedule); err != nil {
			return err
		}
	}
	if u.Format != nil {
		if err := s.db.SetSetting(exportFormat.key, *u.Format); err != nil {
			return err
		}
	}
	return nil
}

// ClearExportSettings removes database overrides, reverting to env/default.
func (s *SettingsStore) ClearExportSettings() error {
	return s.clear(exportEnabled, exportDir, exportSchedule, exportFormat)
}

func (s *SettingsStore) GetExportStatus() ExportStatus {
	status := ExportStatus{}
	if setting, err := s.db.GetSetting(entities.SettingKeyExportLastAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastRunAt = &ts
		}
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyExportLastStatus); err == nil {
		status.Status = setting.Value
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyExportLastMessage); err == nil {
		status.Message = setting.Value
	}
	return status
}

func (s *SettingsStore) SetExportStatus(status, message string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.db.SetSetting(entities.SettingKeyExportLastAt, now); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyExportLastStatus, status); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyExportLastMessage, message)
}
