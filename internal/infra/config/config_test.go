package config

import (
	"errors"
	"testing"
	"time"

	"bigben_scheduler/internal/domain/clock"

	"github.com/spf13/afero"
)

var configKeys = []string{
	"NOTION_TOKEN", "DATABASE_ID", "PARENT_PAGE_ID", "CSV_PATH", "TIMETABLE_DATABASE_URL",
	"NOTION_TITLE_PROPERTY", "NOTION_DATE_PROPERTY", "BELL_SOUND_FILE", "AUDIO_PLAYER",
	"PUBLISH_HOUR", "POLL_INTERVAL", "CHIME_COOLDOWN", "CHIME_TABLE_PATH", "CHIME_TIMES",
	"TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL", "ENVIRONMENT", "LOG_FILE",
}

// setupEnv clears every key the loader reads and sets the required ones.
func setupEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Setenv("NOTION_TOKEN", "secret_token")
	t.Setenv("DATABASE_ID", "db-123")
	t.Setenv("PARENT_PAGE_ID", "page-456")
	t.Setenv("CSV_PATH", "/data/schedule.csv")
}

func TestLoadDefaults(t *testing.T) {
	setupEnv(t)

	cfg, err := fromEnv(afero.NewMemMapFs(), true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}

	if cfg.PublishHour != 19 {
		t.Errorf("PublishHour = %d, want 19", cfg.PublishHour)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.ChimeCooldown != 60*time.Second {
		t.Errorf("ChimeCooldown = %v, want 60s", cfg.ChimeCooldown)
	}
	if cfg.BellSoundFile != "school_bell.mp3" {
		t.Errorf("BellSoundFile = %q, want school_bell.mp3", cfg.BellSoundFile)
	}
	if cfg.NotionTitleProperty != "Name" || cfg.NotionDateProperty != "日付" {
		t.Errorf("Notion properties = %q/%q, want Name/日付", cfg.NotionTitleProperty, cfg.NotionDateProperty)
	}
	if len(cfg.Chimes) != len(DefaultChimes) {
		t.Fatalf("Chimes = %d entries, want %d", len(cfg.Chimes), len(DefaultChimes))
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" || cfg.LogFile != "bigben_log.txt" {
		t.Errorf("unexpected logging defaults: %q %q %q", cfg.LogLevel, cfg.Environment, cfg.LogFile)
	}
	if cfg.TelegramEnabled() {
		t.Error("Telegram should be disabled without TELEGRAM_TOKEN")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"NOTION_TOKEN", "DATABASE_ID", "PARENT_PAGE_ID", "CSV_PATH"} {
		t.Run(key, func(t *testing.T) {
			setupEnv(t)
			t.Setenv(key, "")

			_, err := fromEnv(afero.NewMemMapFs(), true)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestLoadForPlanningSkipsNotionKeys(t *testing.T) {
	setupEnv(t)
	for _, key := range []string{"NOTION_TOKEN", "DATABASE_ID", "PARENT_PAGE_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := fromEnv(afero.NewMemMapFs(), false)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error without Notion keys: %v", err)
	}
	if cfg.CSVPath != "/data/schedule.csv" || len(cfg.Chimes) != len(DefaultChimes) {
		t.Errorf("unexpected config: %+v", cfg)
	}

	t.Setenv("CSV_PATH", "")
	if _, err := fromEnv(afero.NewMemMapFs(), false); !errors.Is(err, ErrConfiguration) {
		t.Errorf("timetable source is still required, got %v", err)
	}
}

func TestLoadPostgresSourceReplacesCSV(t *testing.T) {
	setupEnv(t)
	t.Setenv("CSV_PATH", "")
	t.Setenv("TIMETABLE_DATABASE_URL", "postgres://localhost/bigben?sslmode=disable")

	cfg, err := fromEnv(afero.NewMemMapFs(), true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}
	if err := cfg.Validate(afero.NewMemMapFs()); err != nil {
		t.Errorf("Validate: CSV should not be checked with a database source, got %v", err)
	}
}

func TestLoadPublishHourBounds(t *testing.T) {
	for _, v := range []string{"0", "24", "-1", "seven"} {
		setupEnv(t)
		t.Setenv("PUBLISH_HOUR", v)
		if _, err := fromEnv(afero.NewMemMapFs(), true); !errors.Is(err, ErrConfiguration) {
			t.Errorf("PUBLISH_HOUR=%s: expected ErrConfiguration, got %v", v, err)
		}
	}

	setupEnv(t)
	t.Setenv("PUBLISH_HOUR", "21")
	cfg, err := fromEnv(afero.NewMemMapFs(), true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}
	if cfg.PublishHour != 21 {
		t.Errorf("PublishHour = %d, want 21", cfg.PublishHour)
	}
}

func TestLoadTelegramRequiresChatID(t *testing.T) {
	setupEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	if _, err := fromEnv(afero.NewMemMapFs(), true); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration without TELEGRAM_CHAT_ID, got %v", err)
	}

	t.Setenv("TELEGRAM_CHAT_ID", "987654")
	cfg, err := fromEnv(afero.NewMemMapFs(), true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}
	if !cfg.TelegramEnabled() || cfg.TelegramChatID != 987654 {
		t.Errorf("Telegram config = %v/%d, want enabled/987654", cfg.TelegramEnabled(), cfg.TelegramChatID)
	}
}

func TestParseChimeTimes(t *testing.T) {
	chimes, err := ParseChimeTimes("3限=13:10, 1限=08:50,18:55")
	if err != nil {
		t.Fatalf("ParseChimeTimes: unexpected error: %v", err)
	}
	want := []Chime{
		{Label: "1限", At: clock.MustParse("08:50")},
		{Label: "3限", At: clock.MustParse("13:10")},
		{Label: "18:55", At: clock.MustParse("18:55")},
	}
	if len(chimes) != len(want) {
		t.Fatalf("got %d chimes, want %d", len(chimes), len(want))
	}
	for i := range want {
		if chimes[i] != want[i] {
			t.Errorf("chime %d = %+v, want %+v", i, chimes[i], want[i])
		}
	}

	if _, err := ParseChimeTimes("1限=08:50,2限=08:50"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("duplicate times: expected ErrConfiguration, got %v", err)
	}
	if _, err := ParseChimeTimes("1限=8.50"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("malformed time: expected ErrConfiguration, got %v", err)
	}
}

func TestLoadChimeTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	yamlDoc := "chimes:\n  - label: 2限\n    time: \"10:40\"\n  - label: 1限\n    time: \"08:50\"\n  - time: \"12:00\"\n"
	if err := afero.WriteFile(fs, "/etc/bigben/chimes.yaml", []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	setupEnv(t)
	t.Setenv("CHIME_TABLE_PATH", "/etc/bigben/chimes.yaml")
	cfg, err := fromEnv(fs, true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}
	if len(cfg.Chimes) != 3 {
		t.Fatalf("got %d chimes, want 3", len(cfg.Chimes))
	}
	if cfg.Chimes[0].Label != "1限" || cfg.Chimes[2].Label != "12:00" {
		t.Errorf("unexpected chime order/labels: %+v", cfg.Chimes)
	}

	if _, err := LoadChimeTable(fs, "/missing.yaml"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing file: expected ErrConfiguration, got %v", err)
	}
}

func TestValidateCSVPath(t *testing.T) {
	setupEnv(t)
	cfg, err := fromEnv(afero.NewMemMapFs(), true)
	if err != nil {
		t.Fatalf("fromEnv: unexpected error: %v", err)
	}

	fs := afero.NewMemMapFs()
	if err := cfg.Validate(fs); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing CSV: expected ErrConfiguration, got %v", err)
	}

	if err := afero.WriteFile(fs, cfg.CSVPath, []byte("曜日,開始時刻,終了時刻,科目\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := cfg.Validate(fs); err != nil {
		t.Errorf("Validate: unexpected error: %v", err)
	}
}
