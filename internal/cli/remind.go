package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/wordnet/internal/notify"
	"github.com/example/wordnet/internal/scheduler"
)

var remindOnceFlag bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send due-word reminders on a schedule",
	Long: `Check the review queue every REMINDER_INTERVAL and send a reminder
when words are due inside the notification window. Reminders go to Telegram
when TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are set, otherwise to the log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			var notifier scheduler.Notifier = notify.Log{}
			if a.cfg.TelegramEnabled() {
				tg, err := notify.NewTelegram(a.cfg.TelegramToken, a.cfg.TelegramChatID)
				if err != nil {
					return err
				}
				notifier = tg
			}

			s := scheduler.New(a.engine, notifier, scheduler.Config{
				Interval:  a.cfg.ReminderInterval,
				StartHour: a.cfg.NotificationStartHour,
				EndHour:   a.cfg.NotificationEndHour,
			})
			if remindOnceFlag {
				_, err := s.CheckAndNotify(ctx)
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			if err := s.Start(ctx); err != nil {
				return err
			}
			log.Printf("Reminders started every %s. Press Ctrl+C to stop.", a.cfg.ReminderInterval)

			select {
			case sig := <-sigChan:
				log.Printf("Received signal: %v", sig)
			case <-ctx.Done():
			}
			cancel()
			s.Stop()
			log.Println("Reminders stopped")
			return nil
		})
	},
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnceFlag, "once", false, "Check once and exit")
	RootCmd.AddCommand(remindCmd)
}
