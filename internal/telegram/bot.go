// Package telegram is the chat transport: it parses user commands into
// reminder operations and delivers scheduled notices as direct messages.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/notexe/remind-bot/internal/reminder"
)

const (
	// clientTimeout bounds every Bot API call so a hung connection can
	// never block a delivery indefinitely.
	clientTimeout = 30 * time.Second

	// longPollWindow is the GetUpdates wait in seconds; it must stay
	// under clientTimeout or the poll request times out mid-wait.
	longPollWindow = 25
)

const helpText = `I can remind you about things, once or on a schedule.

/remind YYYY-MM-DD HH:MM text — set a one-off reminder
/repeatremind daily|weekly YYYY-MM-DD HH:MM text — set a repeating reminder
/reminders — list your reminders
/notifyme 30m|2h|1d N — also notify that long before reminder number N
/delremind N — delete reminder number N

Times are 24-hour, in the bot's configured timezone.`

// Bot wraps the Telegram API connection. It is both the command surface
// (long-polling update loop) and the scheduler's Notifier.
type Bot struct {
	api *tgbotapi.BotAPI
	svc *reminder.Service
}

// New authenticates against the Bot API and registers the command menu.
func New(token string, svc *reminder.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{
		Timeout: clientTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Printf("[telegram] authorized on account %s", api.Self.UserName)

	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Show help"},
		tgbotapi.BotCommand{Command: "remind", Description: "Set a reminder"},
		tgbotapi.BotCommand{Command: "repeatremind", Description: "Set a repeating reminder"},
		tgbotapi.BotCommand{Command: "reminders", Description: "List your reminders"},
		tgbotapi.BotCommand{Command: "notifyme", Description: "Add a notification before a reminder"},
		tgbotapi.BotCommand{Command: "delremind", Description: "Delete a reminder"},
	)
	if _, err := api.Request(commands); err != nil {
		log.Printf("[telegram] failed to set bot commands: %v", err)
	}

	return &Bot{api: api, svc: svc}, nil
}

// Notify implements scheduler.Notifier. owner is the chat ID the
// reminder was created from.
func (b *Bot) Notify(_ context.Context, owner, message string) error {
	chatID, err := strconv.ParseInt(owner, 10, 64)
	if err != nil {
		return fmt.Errorf("bad owner id %q: %w", owner, err)
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// HandleUpdates runs the long-polling loop until ctx is cancelled. Each
// command is handled synchronously; the store serializes them against
// the scheduler's ticks.
func (b *Bot) HandleUpdates(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = longPollWindow

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("[telegram] shutting down...")
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	owner := strconv.FormatInt(chatID, 10)
	args := strings.Fields(msg.CommandArguments())

	log.Printf("[telegram] chat=%d command=%s", chatID, msg.Command())

	switch msg.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "remind":
		b.handleRemind(chatID, owner, args)
	case "repeatremind":
		b.handleRepeatRemind(chatID, owner, args)
	case "reminders":
		b.handleList(chatID, owner)
	case "notifyme":
		b.handleNotifyMe(chatID, owner, args)
	case "delremind":
		b.handleDelete(chatID, owner, args)
	}
}

func (b *Bot) handleRemind(chatID int64, owner string, args []string) {
	if len(args) < 3 {
		b.reply(chatID, "Invalid date format! Use YYYY-MM-DD HH:MM (24hr). Example: /remind 2025-08-05 14:30 Walk the dog")
		return
	}

	text := strings.Join(args[2:], " ")
	r, err := b.svc.Create(owner, args[0], args[1], text, reminder.RepeatNone)
	if err != nil {
		if errors.Is(err, reminder.ErrInvalidFormat) {
			b.reply(chatID, "Invalid date format! Use YYYY-MM-DD HH:MM (24hr). Example: 2025-08-05 14:30")
			return
		}
		b.storeError(chatID, err)
		return
	}

	b.reply(chatID, fmt.Sprintf("Reminder set for %s: %s", b.svc.Converter().FormatLocal(r.DueAt), r.Text))
}

func (b *Bot) handleRepeatRemind(chatID int64, owner string, args []string) {
	if len(args) < 4 || !ValidInterval(args[0]) {
		b.reply(chatID, "Invalid format! Use: /repeatremind daily|weekly YYYY-MM-DD HH:MM task")
		return
	}

	text := strings.Join(args[3:], " ")
	r, err := b.svc.Create(owner, args[1], args[2], text, args[0])
	if err != nil {
		if errors.Is(err, reminder.ErrInvalidFormat) {
			b.reply(chatID, "Invalid format! Use: /repeatremind daily|weekly YYYY-MM-DD HH:MM task")
			return
		}
		b.storeError(chatID, err)
		return
	}

	b.reply(chatID, fmt.Sprintf("Repeating reminder set for %s (%s): %s",
		b.svc.Converter().FormatLocal(r.DueAt), r.Recurrence, r.Text))
}

func (b *Bot) handleList(chatID int64, owner string) {
	rs, err := b.svc.List(owner)
	if err != nil {
		b.storeError(chatID, err)
		return
	}
	if len(rs) == 0 {
		b.reply(chatID, "You have no reminders.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your reminders:\n")
	for i, r := range rs {
		rep := r.Recurrence
		if rep == reminder.RepeatNone {
			rep = "None"
		}
		nb := "None"
		if len(r.NotifyOffsets) > 0 {
			parts := make([]string, len(r.NotifyOffsets))
			for j, m := range r.NotifyOffsets {
				parts[j] = fmt.Sprintf("%dmin", m)
			}
			nb = strings.Join(parts, ", ")
		}
		fmt.Fprintf(&sb, "%d. %s: %s | Repeat: %s | Notify before: %s\n",
			i+1, b.svc.Converter().FormatLocal(r.DueAt), r.Text, rep, nb)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleNotifyMe(chatID int64, owner string, args []string) {
	if len(args) != 2 {
		b.reply(chatID, "Usage: /notifyme 30m|2h|1d N — N is the reminder number from /reminders")
		return
	}

	index, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(chatID, "Invalid reminder number.")
		return
	}

	_, err = b.svc.AddNotifyOffset(owner, index, args[0])
	switch {
	case errors.Is(err, reminder.ErrInvalidIndex):
		b.reply(chatID, "Invalid reminder number.")
	case errors.Is(err, reminder.ErrInvalidFormat):
		b.reply(chatID, "Invalid time format! Use numbers followed by m (minutes), h (hours), or d (days), e.g., 10m, 2h, 1d")
	case err != nil:
		b.storeError(chatID, err)
	default:
		b.reply(chatID, fmt.Sprintf("Will remind you %s before for reminder #%d", args[0], index))
	}
}

func (b *Bot) handleDelete(chatID int64, owner string, args []string) {
	if len(args) != 1 {
		b.reply(chatID, "Usage: /delremind N — N is the reminder number from /reminders")
		return
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(chatID, "Invalid reminder number.")
		return
	}

	err = b.svc.Delete(owner, index)
	switch {
	case errors.Is(err, reminder.ErrInvalidIndex):
		b.reply(chatID, "Invalid reminder number.")
	case err != nil:
		b.storeError(chatID, err)
	default:
		b.reply(chatID, fmt.Sprintf("Reminder #%d deleted.", index))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("[telegram] failed to reply to chat %d: %v", chatID, err)
	}
}

// storeError answers a command whose store round-trip failed. The
// previous durable state remains authoritative.
func (b *Bot) storeError(chatID int64, err error) {
	log.Printf("[telegram] store operation failed: %v", err)
	b.reply(chatID, "Something went wrong, please try again.")
}

// ValidInterval reports whether s is a repeat interval users may type.
func ValidInterval(s string) bool {
	return s == reminder.RepeatDaily || s == reminder.RepeatWeekly
}
