package bot

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// Handler connects Commands to a Telegram bot.
type Handler struct {
	bot      *tgbot.Bot
	commands *Commands
	log      logrus.FieldLogger
}

// NewHandler creates the Telegram bot and registers the command handler.
func NewHandler(token string, boards Boards, logger logrus.FieldLogger, opts ...tgbot.Option) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		commands: NewCommands(boards, logger),
		log:      log,
	}

	opts = append(opts, tgbot.WithDefaultHandler(h.defaultHandler))
	b, err := tgbot.New(token, opts...)
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	// Every command starts with "/"; Commands does the routing
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/", tgbot.MatchTypePrefix, h.commandHandler)

	log.Info("Telegram bot handler initialized")
	return h, nil
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) commandHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	log := h.log.WithField("chat_id", update.Message.Chat.ID)
	if update.Message.From != nil {
		log = log.WithField("user_id", update.Message.From.ID)
	}
	log.WithField("text", update.Message.Text).Debug("Received command")

	h.reply(ctx, b, update.Message.Chat.ID, h.commands.Dispatch(ctx, update.Message.Text), log)
}

// defaultHandler answers anything that is not a command with the help text.
func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, helpText, h.log.WithField("chat_id", update.Message.Chat.ID))
}

func (h *Handler) reply(ctx context.Context, b *tgbot.Bot, chatID int64, text string, log logrus.FieldLogger) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.WithError(err).Error("Failed to send reply")
	}
}
