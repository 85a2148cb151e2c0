package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"bigben_scheduler/internal/domain/clock"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration is returned for any missing or invalid setting. It is fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Chime is one labelled trigger time, e.g. 1限 at 08:50.
type Chime struct {
	Label string          `yaml:"label"`
	At    clock.TimeOfDay `yaml:"time"`
}

// DefaultChimes is the period table used when neither CHIME_TIMES nor CHIME_TABLE_PATH is set.
var DefaultChimes = []Chime{
	{Label: "1限", At: clock.MustParse("08:50")},
	{Label: "2限", At: clock.MustParse("10:40")},
	{Label: "3限", At: clock.MustParse("13:10")},
	{Label: "4限", At: clock.MustParse("15:05")},
	{Label: "5限", At: clock.MustParse("17:00")},
	{Label: "6限", At: clock.MustParse("18:55")},
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	NotionToken          string
	NotionDatabaseID     string // Calendar database receiving the work segments
	NotionParentPageID   string // Parent page of the daily summary pages
	NotionTitleProperty  string
	NotionDateProperty   string
	CSVPath              string
	TimetableDatabaseURL string // Optional Postgres timetable source; replaces CSVPath when set
	BellSoundFile        string
	AudioPlayer          string
	PublishHour          int
	PollInterval         time.Duration
	ChimeCooldown        time.Duration
	ChimeTablePath       string
	Chimes               []Chime
	TelegramToken        string // Optional
	TelegramChatID       int64
	LogLevel             string
	Environment          string
	LogFile              string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return fromEnv(afero.NewOsFs(), true)
}

// LoadForPlanning is Load without the Notion keys, for commands that never publish.
func LoadForPlanning() (*AppConfig, error) {
	_ = godotenv.Load()
	return fromEnv(afero.NewOsFs(), false)
}

func fromEnv(fs afero.Fs, requireNotion bool) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.NotionToken = os.Getenv("NOTION_TOKEN")
	cfg.NotionDatabaseID = os.Getenv("DATABASE_ID")
	cfg.NotionParentPageID = os.Getenv("PARENT_PAGE_ID")
	if requireNotion {
		if cfg.NotionToken == "" {
			return nil, fmt.Errorf("%w: NOTION_TOKEN is not set", ErrConfiguration)
		}
		if cfg.NotionDatabaseID == "" {
			return nil, fmt.Errorf("%w: DATABASE_ID is not set", ErrConfiguration)
		}
		if cfg.NotionParentPageID == "" {
			return nil, fmt.Errorf("%w: PARENT_PAGE_ID is not set", ErrConfiguration)
		}
	}

	cfg.TimetableDatabaseURL = os.Getenv("TIMETABLE_DATABASE_URL")
	cfg.CSVPath = os.Getenv("CSV_PATH")
	if cfg.CSVPath == "" && cfg.TimetableDatabaseURL == "" {
		return nil, fmt.Errorf("%w: CSV_PATH is not set", ErrConfiguration)
	}

	cfg.NotionTitleProperty = envOrDefault("NOTION_TITLE_PROPERTY", "Name")
	cfg.NotionDateProperty = envOrDefault("NOTION_DATE_PROPERTY", "日付")
	cfg.BellSoundFile = envOrDefault("BELL_SOUND_FILE", "school_bell.mp3")
	cfg.AudioPlayer = envOrDefault("AUDIO_PLAYER", "gst-launch-1.0")

	cfg.PublishHour = 19
	if v := os.Getenv("PUBLISH_HOUR"); v != "" {
		cfg.PublishHour, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid PUBLISH_HOUR: %v", ErrConfiguration, err)
		}
	}
	// Hour 0 would overlap with the midnight reset of the daily gate.
	if cfg.PublishHour < 1 || cfg.PublishHour > 23 {
		return nil, fmt.Errorf("%w: PUBLISH_HOUR must be between 1 and 23, got %d", ErrConfiguration, cfg.PublishHour)
	}

	if cfg.PollInterval, err = durationOrDefault("POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ChimeCooldown, err = durationOrDefault("CHIME_COOLDOWN", 60*time.Second); err != nil {
		return nil, err
	}

	cfg.ChimeTablePath = os.Getenv("CHIME_TABLE_PATH")
	switch {
	case cfg.ChimeTablePath != "":
		cfg.Chimes, err = LoadChimeTable(fs, cfg.ChimeTablePath)
	case os.Getenv("CHIME_TIMES") != "":
		cfg.Chimes, err = ParseChimeTimes(os.Getenv("CHIME_TIMES"))
	default:
		cfg.Chimes = append([]Chime(nil), DefaultChimes...)
	}
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("%w: TELEGRAM_CHAT_ID is not set", ErrConfiguration)
		}
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid TELEGRAM_CHAT_ID: %v", ErrConfiguration, err)
		}
	}

	cfg.LogLevel = strings.ToLower(envOrDefault("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOrDefault("ENVIRONMENT", "development"))
	cfg.LogFile = envOrDefault("LOG_FILE", "bigben_log.txt")

	return cfg, nil
}

// Validate checks the files the configuration points at. The bell sound is not checked:
// a missing sound is a playback failure, not a startup failure.
func (c *AppConfig) Validate(fs afero.Fs) error {
	if c.TimetableDatabaseURL == "" {
		info, err := fs.Stat(c.CSVPath)
		if err != nil {
			return fmt.Errorf("%w: CSV_PATH %q: %v", ErrConfiguration, c.CSVPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: CSV_PATH %q is a directory", ErrConfiguration, c.CSVPath)
		}
	}
	return nil
}

// TelegramEnabled reports whether the optional Telegram bot is configured.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// ParseChimeTimes parses "1限=08:50,2限=10:40". A bare "08:50" gets its time as label.
func ParseChimeTimes(value string) ([]Chime, error) {
	var chimes []Chime
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		label, at, found := strings.Cut(item, "=")
		if !found {
			at, label = label, ""
		}
		t, err := clock.ParseTimeOfDay(at)
		if err != nil {
			return nil, fmt.Errorf("%w: CHIME_TIMES: %v", ErrConfiguration, err)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = t.String()
		}
		chimes = append(chimes, Chime{Label: label, At: t})
	}
	return normalizeChimes(chimes)
}

type chimeTable struct {
	Chimes []Chime `yaml:"chimes"`
}

// LoadChimeTable reads a YAML file of the form:
//
//	chimes:
//	  - label: 1限
//	    time: "08:50"
func LoadChimeTable(fs afero.Fs, path string) ([]Chime, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: CHIME_TABLE_PATH: %v", ErrConfiguration, err)
	}
	var table chimeTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: CHIME_TABLE_PATH %s: %v", ErrConfiguration, path, err)
	}
	for i := range table.Chimes {
		if table.Chimes[i].Label == "" {
			table.Chimes[i].Label = table.Chimes[i].At.String()
		}
	}
	return normalizeChimes(table.Chimes)
}

// normalizeChimes orders chimes by time and rejects duplicate times.
func normalizeChimes(chimes []Chime) ([]Chime, error) {
	if len(chimes) == 0 {
		return nil, fmt.Errorf("%w: chime table is empty", ErrConfiguration)
	}
	sort.SliceStable(chimes, func(i, j int) bool {
		return chimes[i].At.Minutes() < chimes[j].At.Minutes()
	})
	for i := 1; i < len(chimes); i++ {
		if chimes[i].At == chimes[i-1].At {
			return nil, fmt.Errorf("%w: duplicate chime time %s", ErrConfiguration, chimes[i].At)
		}
	}
	return chimes, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrConfiguration, key, v)
	}
	return d, nil
}
