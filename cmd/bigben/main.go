package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bigben_scheduler/internal/app"
	"bigben_scheduler/internal/infra/logger"
	"bigben_scheduler/internal/infra/scheduler"
	"bigben_scheduler/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bigben",
	Short: "Class chime and timetable publisher",
	Long: `bigben rings the bell at the start of every period and, once a day, publishes
tomorrow's timetable to Notion as 45-minute work blocks split by a 10-minute break.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the chime and publish loop (default)",
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := setup(true)
	if err != nil {
		return err
	}
	defer d.Close()
	log := logger.Component("main")

	gate := app.NewDailyRunGate(d.cfg.PublishHour)
	board := app.NewStatusBoard(d.cfg.PublishHour)

	bot := d.bot
	if bot != nil {
		statusService := app.NewStatusService(board, d.timetableRepo, d.triggers, d.cfg.TelegramChatID)
		telegram.RegisterBotCommands(bot, d.cfg.TelegramChatID, logger.Component("telegram"))
		telegram.RegisterStatusHandlers(ctx, bot, statusService, time.Now, logger.Component("telegram"))
		log.Info("Telegram command handlers registered.")
	}

	chimeService := app.NewChimeService(d.triggers, d.player, d.cfg.BellSoundFile, d.cfg.ChimeCooldown, nil, logger.Component("chime"))
	dailyScheduler := scheduler.NewDailyScheduler(chimeService, d.publishService, gate, board, d.cfg.PollInterval, logger.Component("scheduler"))
	if err := dailyScheduler.Start(); err != nil {
		return err
	}

	if bot != nil {
		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	}

	log.WithFields(logrus.Fields{
		"chimes":       len(d.triggers.Times()),
		"publish_hour": d.cfg.PublishHour,
	}).Info("Application setup complete. Scheduler is running.")

	<-ctx.Done() // Block until a signal is received

	log.Info("Shutting down application...")
	if bot != nil {
		bot.Stop()
	}
	dailyScheduler.Stop()
	log.Info("Application shut down gracefully.")
	return nil
}
