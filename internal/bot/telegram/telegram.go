// Package telegram — адаптер транспорта поверх Bot API.
// Преобразует апдейты в обобщённые события бота и реализует исходящий
// интерфейс Messenger.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/TLB-TutorBot/internal/bot"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент Telegram Bot API
type Client struct {
	api    *tgbotapi.BotAPI
	logger Logger
}

// New создает клиент и проверяет токен запросом getMe
func New(token string, logger Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to init bot api: %w", err)
	}

	logger.Info("Telegram: authorized as @%s", api.Self.UserName)
	return &Client{api: api, logger: logger}, nil
}

// SendText отправляет пользователю текстовое сообщение
func (c *Client) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: failed to send message to chat=%d: %w", chatID, err)
	}
	return nil
}

// SendChoices отправляет сообщение с инлайн-клавиатурой, по одной кнопке
// в строке
func (c *Client) SendChoices(chatID int64, text string, choices []bot.Choice) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Value),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: failed to send choices to chat=%d: %w", chatID, err)
	}
	return nil
}

// AnswerCallback подтверждает получение нажатия кнопки, убирая «часики»
// в клиенте
func (c *Client) AnswerCallback(callbackID string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("telegram: failed to answer callback: %w", err)
	}
	return nil
}

// Run читает апдейты long polling-ом и передает их обработчику до отмены
// контекста
func (c *Client) Run(ctx context.Context, pollTimeout int, handler func(ctx context.Context, upd *bot.Update)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	updates := c.api.GetUpdatesChan(cfg)
	c.logger.Info("Telegram: polling started, timeout=%ds", pollTimeout)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			c.logger.Info("Telegram: polling stopped")
			return
		case raw, ok := <-updates:
			if !ok {
				c.logger.Warn("Telegram: updates channel closed")
				return
			}
			upd := convert(raw)
			if upd == nil {
				continue
			}
			handler(ctx, upd)
		}
	}
}

// convert приводит апдейт к обобщённому событию.
// Неподдерживаемые виды апдейтов отбрасываются.
func convert(raw tgbotapi.Update) *bot.Update {
	if cb := raw.CallbackQuery; cb != nil && cb.From != nil {
		chatID := cb.From.ID
		if cb.Message != nil && cb.Message.Chat != nil {
			chatID = cb.Message.Chat.ID
		}
		return &bot.Update{
			UserID:       cb.From.ID,
			ChatID:       chatID,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}
	}

	if msg := raw.Message; msg != nil && msg.From != nil && msg.Chat != nil {
		upd := &bot.Update{
			UserID: msg.From.ID,
			ChatID: msg.Chat.ID,
			Text:   msg.Text,
		}
		if msg.IsCommand() {
			upd.Command = msg.Command()
		}
		// Поделённый контакт проходит как текст: шаг телефона принимает его номер
		if upd.Text == "" && msg.Contact != nil {
			upd.Text = msg.Contact.PhoneNumber
		}
		return upd
	}

	return nil
}
