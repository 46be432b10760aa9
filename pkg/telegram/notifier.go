// Package telegram delivers ledger notifications to chat users and admins.
// It is an external collaborator: the ledger never blocks on it and never
// fails because of it.
package telegram

import (
	"fmt"
	"log"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

type Notifier struct {
	bot        *gotgbot.Bot
	adminChats []int64
}

func New(token string, adminChats []int64) (*Notifier, error) {
	bot, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Notifier{bot: bot, adminChats: adminChats}, nil
}

// NotifyUser sends a Markdown message to a single chat. Account ids double
// as chat ids.
func (n *Notifier) NotifyUser(chatID int64, text string) error {
	_, err := n.bot.SendMessage(chatID, text, &gotgbot.SendMessageOpts{
		ParseMode: "Markdown",
	})
	return err
}

// NotifyAdmins fans a message out to every configured admin chat. A dead
// admin chat is logged and skipped so the rest still get the alert.
func (n *Notifier) NotifyAdmins(text string) {
	for _, chatID := range n.adminChats {
		if err := n.NotifyUser(chatID, text); err != nil {
			log.Printf("[telegram] admin chat %d: %v", chatID, err)
		}
	}
}
