package config

import "time"

// Config is the root configuration for Antigravity.
type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Gateway   GatewayConfig   `json:"gateway"`
	Cache     CacheConfig     `json:"cache"`
	Retention RetentionConfig `json:"retention"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Events    EventsConfig    `json:"events"`
	Locale    string          `json:"locale"` // BCP 47 tag used for alphabetical sorting
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string `json:"backend"` // "file" or "badger" (default: file)
	Dir     string `json:"dir"`     // data directory (default: $ANTIGRAVITY_PATH/store)
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Origin string `json:"origin"` // upstream origin proxied by the offline cache
}

// CacheConfig configures the offline asset cache.
type CacheConfig struct {
	Generation string   `json:"generation"` // cache version name; bumping it discards old entries
	Dir        string   `json:"dir"`        // cache directory (default: $ANTIGRAVITY_PATH/cache)
	Shell      []string `json:"shell"`      // app shell paths preloaded on activation
	External   []string `json:"external"`   // absolute URLs preloaded on activation
}

// RetentionConfig controls how long deleted tasks are kept.
type RetentionConfig struct {
	TrashDays  int      `json:"trash_days"`  // days before trashed tasks are purged
	UndoWindow Duration `json:"undo_window"` // how long a delete can be undone
}

// SchedulerConfig holds the cron expressions for background sweeps.
type SchedulerConfig struct {
	PurgeCron    string `json:"purge_cron"`    // trash purge schedule
	ReminderCron string `json:"reminder_cron"` // reminder check schedule
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
