package main

import (
	"database/sql"
	"fmt"
	"time"

	"bigben_scheduler/internal/app"
	domainTelegram "bigben_scheduler/internal/domain/telegram"
	"bigben_scheduler/internal/domain/timetable"
	"bigben_scheduler/internal/infra/audio"
	"bigben_scheduler/internal/infra/config"
	idb "bigben_scheduler/internal/infra/database"
	"bigben_scheduler/internal/infra/logger"
	"bigben_scheduler/internal/infra/notion"
	"bigben_scheduler/internal/infra/telegram"
	itimetable "bigben_scheduler/internal/infra/timetable"

	"github.com/spf13/afero"
	"gopkg.in/telebot.v3"
)

// deps holds everything the commands share.
type deps struct {
	cfg            *config.AppConfig
	db             *sql.DB // nil for the CSV source
	timetableRepo  timetable.Repository
	triggers       *app.TriggerSet
	player         *audio.CommandPlayer
	bot            *telebot.Bot        // nil when Telegram is disabled
	publishService *app.PublishService // nil for commands that never publish
}

// loadConfig picks the loader: commands that never publish do not need the Notion keys.
func loadConfig(publishing bool) (*config.AppConfig, error) {
	if publishing {
		return config.Load()
	}
	return config.LoadForPlanning()
}

// setup loads configuration and builds the adapters. Configuration errors are returned before
// any loop starts. The Notion client, the Telegram bot and the publish service are only built
// when publishing is set.
func setup(publishing bool) (*deps, error) {
	cfg, err := loadConfig(publishing)
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	fs := afero.NewOsFs()
	if err := cfg.Validate(fs); err != nil {
		return nil, err
	}

	logger.Init(cfg)
	log := logger.Component("main")
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	d := &deps{cfg: cfg}

	if cfg.TimetableDatabaseURL != "" {
		d.db, err = idb.NewPostgresConnection(cfg.TimetableDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to timetable database: %w", err)
		}
		d.timetableRepo = idb.NewPostgresTimetableRepository(d.db)
		log.Info("Postgres timetable repository initialized.")
	} else {
		d.timetableRepo = itimetable.NewCSVRepository(fs, cfg.CSVPath)
		log.WithField("path", cfg.CSVPath).Info("CSV timetable repository initialized.")
	}

	times := make([]app.TriggerTime, 0, len(cfg.Chimes))
	for _, c := range cfg.Chimes {
		times = append(times, app.TriggerTime{Label: c.Label, At: c.At})
	}
	if d.triggers, err = app.NewTriggerSet(times); err != nil {
		d.Close()
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	d.player = audio.NewCommandPlayer(fs, cfg.AudioPlayer)

	if !publishing {
		return d, nil
	}

	calendarClient := notion.NewNotionAdapter(cfg.NotionToken, cfg.NotionDatabaseID, cfg.NotionParentPageID, notion.Properties{
		Title: cfg.NotionTitleProperty,
		Date:  cfg.NotionDateProperty,
	})

	var telegramClient domainTelegram.Client
	if cfg.TelegramEnabled() {
		d.bot, err = newBot(cfg.TelegramToken)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("could not create Telegram bot: %w", err)
		}
		telegramClient = telegram.NewTelebotAdapter(d.bot)
	}

	d.publishService = app.NewPublishService(d.timetableRepo, calendarClient, telegramClient, cfg.TelegramChatID, logger.Component("publish"))
	return d, nil
}

func newBot(token string) (*telebot.Bot, error) {
	botLogger := logger.Component("telebot")
	pref := telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := botLogger.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID).WithField("text", c.Text())
			}
			entry.Error("Telegram handler failed")
		},
	}
	return telebot.NewBot(pref)
}

// Close releases the database connection and flushes the log file.
func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
	_ = logger.Close()
}
