// Package settings persists the workspace preference flags.
package settings

import (
	"encoding/json"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/storage"
)

// StorageKey is where settings are persisted.
const StorageKey = "proppilot_settings"

// Settings are the user's display and notification preferences.
type Settings struct {
	Theme              string `json:"theme" yaml:"theme"`
	Language           string `json:"language" yaml:"language"`
	Timezone           string `json:"timezone" yaml:"timezone"`
	AutoSave           bool   `json:"autoSave" yaml:"autoSave"`
	EmailNotifications bool   `json:"emailNotifications" yaml:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications" yaml:"pushNotifications"`
	TwoFactorAuth      bool   `json:"twoFactorAuth" yaml:"twoFactorAuth"`
	DataExport         bool   `json:"dataExport" yaml:"dataExport"`
	Analytics          bool   `json:"analytics" yaml:"analytics"`
}

// Themes, Languages and Timezones list the accepted values.
var (
	Themes    = []string{"light", "dark", "system"}
	Languages = []string{"en", "es", "fr", "de"}
	Timezones = []string{
		"America/New_York",
		"America/Chicago",
		"America/Denver",
		"America/Los_Angeles",
		"Europe/London",
		"Europe/Paris",
		"Asia/Tokyo",
	}
)

// Defaults returns the settings a fresh install starts with.
func Defaults() Settings {
	return Settings{
		Theme:              "system",
		Language:           "en",
		Timezone:           "America/New_York",
		AutoSave:           true,
		EmailNotifications: true,
		PushNotifications:  true,
		TwoFactorAuth:      false,
		DataExport:         false,
		Analytics:          true,
	}
}

// Validate checks every enumerated field.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Theme, validation.Required, validation.In(toAny(Themes)...)),
		validation.Field(&s.Language, validation.Required, validation.In(toAny(Languages)...)),
		validation.Field(&s.Timezone, validation.Required, validation.In(toAny(Timezones)...)),
	)
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func (s *Settings) flags() map[string]*bool {
	return map[string]*bool{
		"autoSave":           &s.AutoSave,
		"emailNotifications": &s.EmailNotifications,
		"pushNotifications":  &s.PushNotifications,
		"twoFactorAuth":      &s.TwoFactorAuth,
		"dataExport":         &s.DataExport,
		"analytics":          &s.Analytics,
	}
}

// Flags lists the toggleable flag names in sorted order.
func Flags() []string {
	var s Settings
	names := make([]string, 0, 6)
	for name := range s.flags() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store edits settings in memory and persists them on Save.
type Store struct {
	backend storage.Store
	logger  *zap.Logger
	current Settings
	changed bool
}

// Load reads persisted settings, falling back to Defaults when none are
// stored or the stored value no longer decodes.
func Load(backend storage.Store, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{backend: backend, logger: logger.Named("settings"), current: Defaults()}
	raw, ok, err := backend.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", StorageKey, err)
	}
	if !ok {
		return s, nil
	}
	loaded := Defaults()
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("ignoring stored settings", zap.Error(err))
		return s, nil
	}
	if err := loaded.Validate(); err != nil {
		s.logger.Warn("ignoring stored settings", zap.Error(err))
		return s, nil
	}
	s.current = loaded
	return s, nil
}

// Current returns the in-memory settings, saved or not.
func (s *Store) Current() Settings { return s.current }

// HasChanges reports whether there are unsaved edits.
func (s *Store) HasChanges() bool { return s.changed }

// Update applies fn to the in-memory settings and marks them changed.
func (s *Store) Update(fn func(*Settings)) {
	fn(&s.current)
	s.changed = true
}

// Toggle flips the named boolean flag.
func (s *Store) Toggle(flag string) error {
	ptr, ok := s.current.flags()[flag]
	if !ok {
		return fmt.Errorf("unknown settings flag %q", flag)
	}
	*ptr = !*ptr
	s.changed = true
	return nil
}

// Save validates and persists the in-memory settings.
func (s *Store) Save() error {
	if err := s.current.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	if err := s.backend.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", StorageKey, err)
	}
	s.changed = false
	s.logger.Debug("settings saved")
	return nil
}
