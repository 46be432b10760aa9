package service

import (
	"fmt"

	"rossx/internal/domain"
	"rossx/internal/models"
	"rossx/internal/ws"
)

// TelegramNotifier is the chat delivery surface the dispatcher fans out to.
type TelegramNotifier interface {
	NotifyUser(chatID int64, text string) error
	NotifyAdmins(text string)
}

// TelegramSink renders ledger events as chat messages for the affected user
// and mirrors admin-relevant ones to the admin chats.
type TelegramSink struct {
	notifier TelegramNotifier
}

func NewTelegramSink(n TelegramNotifier) *TelegramSink {
	return &TelegramSink{notifier: n}
}

func rupees(paise interface{}) string {
	f, ok := paise.(float64) // JSON numbers decode as float64
	if !ok {
		return "?"
	}
	return fmt.Sprintf("₹%.2f", f/100)
}

func (s *TelegramSink) Deliver(ev *models.Event) error {
	p := decodePayload(ev)
	switch ev.Type {
	case domain.EventDepositSubmitted:
		s.notifier.NotifyAdmins(fmt.Sprintf(
			"🔔 *New Deposit Request*\n\n👤 User: %d\n💰 Amount: %s\n🔢 UTR: %v",
			ev.AccountID, rupees(p["amount_paise"]), p["utr_number"]))
		return nil
	case domain.EventDepositApproved:
		return s.notifier.NotifyUser(ev.AccountID, fmt.Sprintf(
			"✅ *Deposit Approved!*\n\n💰 %s added to your wallet\n💳 New balance: %s",
			rupees(p["amount_paise"]), rupees(p["balance_paise"])))
	case domain.EventDepositRejected:
		return s.notifier.NotifyUser(ev.AccountID, fmt.Sprintf(
			"❌ *Deposit Rejected*\n\n💰 Amount: %s\nContact support if you believe this is a mistake.",
			rupees(p["amount_paise"])))
	case domain.EventInvestmentCreated:
		s.notifier.NotifyAdmins(fmt.Sprintf(
			"📈 *New Investment*\n\n👤 User: %d\n💰 Principal: %s\n📋 Plan: %v",
			ev.AccountID, rupees(p["principal_paise"]), p["plan_id"]))
		return s.notifier.NotifyUser(ev.AccountID, fmt.Sprintf(
			"🎉 *Investment Created!*\n\n💰 Principal: %s\n🚀 Returns: %s",
			rupees(p["principal_paise"]), rupees(p["expected_return_paise"])))
	case domain.EventPermissionGranted:
		return s.notifier.NotifyUser(ev.AccountID,
			"🎉 *Withdrawal Unlocked!*\n\n3 of your referrals are now investing. "+
				"You earned 1 withdrawal permission and a new cycle has started.")
	case domain.EventWithdrawalPaid:
		return s.notifier.NotifyUser(ev.AccountID, fmt.Sprintf(
			"💸 *Withdrawal Paid*\n\n💰 %s credited to your wallet.",
			rupees(p["payout_paise"])))
	}
	return nil
}

// HubSink mirrors every event to the admin websocket feed.
type HubSink struct {
	hub *ws.Hub
}

func NewHubSink(hub *ws.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Deliver(ev *models.Event) error {
	s.hub.BroadcastAll(map[string]interface{}{
		"type":       ev.Type,
		"account_id": ev.AccountID,
		"payload":    decodePayload(ev),
		"created_at": ev.CreatedAt,
	})
	return nil
}
