package notificator

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

// Notificator renders and delivers purchase notifications. Emails are handed
// back to the caller as outbox rows so they can be enqueued atomically with
// the settlement; out-of-band alerts (Telegram) are sent best-effort.
type Notificator struct {
	logger *logger.Logger

	adminEmails []string

	TelegramNotificator *TelegramNotificator
	telegramAdminChatID string
}

func NewNotificator(logger *logger.Logger, adminEmails []string, telNotif *TelegramNotificator, telegramAdminChatID string) *Notificator {
	return &Notificator{
		logger:              logger,
		adminEmails:         adminEmails,
		TelegramNotificator: telNotif,
		telegramAdminChatID: telegramAdminChatID,
	}
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// PurchaseEmails renders the buyer confirmation email plus one notification
// email per internal address. The buyer email is skipped when the wallet has
// no address; internal copies are skipped when the buyer is an internal
// address themselves.
func (n *Notificator) PurchaseEmails(wallet *models.Wallet, products []*models.Product, totalWei int64) []*models.OutboxEmail {
	if wallet.Email == "" {
		return nil
	}

	now := time.Now().Unix()
	emails := []*models.OutboxEmail{
		{
			ID:        uuid.NewString(),
			Recipient: wallet.Email,
			Subject:   "Your Latinum Order Confirmation",
			Body:      confirmationBody(wallet, products, totalWei),
			CreatedAt: now,
		},
	}

	if !isAdmin(wallet.Email, n.adminEmails) {
		body := adminBody(wallet.Email, products, totalWei)
		for _, admin := range n.adminEmails {
			emails = append(emails, &models.OutboxEmail{
				ID:        uuid.NewString(),
				Recipient: admin,
				Subject:   "Latinum Order by " + wallet.Email,
				Body:      body,
				CreatedAt: now,
			})
		}
	}

	return emails
}

// AnnounceSettlement pings the Telegram admin chat about a settled purchase.
// Failures are recovered and logged, never propagated.
func (n *Notificator) AnnounceSettlement(wallet *models.Wallet, products []*models.Product, totalWei int64, txHash string) {
	if n.TelegramNotificator == nil || n.telegramAdminChatID == "" {
		return
	}

	buyer := wallet.Email
	if buyer == "" {
		buyer = wallet.Name
	}
	if buyer == "" {
		buyer = wallet.UUID
	}
	message := fmt.Sprintf("%s bought %d product(s) for %d wei.", buyer, len(products), totalWei)
	if txHash != "" {
		message += " Tx: " + txHash
	}
	n.safeCall(func() { n.TelegramNotificator.SendNotification(n.telegramAdminChatID, message) }, "telegramNotification")
}

func confirmationBody(wallet *models.Wallet, products []*models.Product, totalWei int64) string {
	name := wallet.Name
	if name == "" {
		name = "there"
	}

	var lines strings.Builder
	for _, p := range products {
		lines.WriteString(fmt.Sprintf("&bull; %s &ndash; %s<br><img src='%s' width='150' style='margin:10px 0;'><br>", p.Name, euros(p.Price), p.Image))
	}

	return fmt.Sprintf(
		"Hi %s,<br><br>Thanks for your purchase!<br><br><b>Order Summary:</b><br>%s<br><b>Total:</b> %s<br><br>We hope to see you again soon!",
		name, lines.String(), euros(totalWei))
}

func adminBody(buyerEmail string, products []*models.Product, totalWei int64) string {
	var lines strings.Builder
	for _, p := range products {
		lines.WriteString(fmt.Sprintf("&bull; %s &ndash; %s<br>", p.Name, euros(p.Price)))
	}
	return fmt.Sprintf("%s placed an order.<br><br>%s<br><b>Total:</b> %s", buyerEmail, lines.String(), euros(totalWei))
}

// euros renders a wei amount as a displayed EUR price (prices are stored as
// cents scaled to wei by construction).
func euros(wei int64) string {
	return fmt.Sprintf("€%.2f", float64(wei)/100)
}

func isAdmin(email string, admins []string) bool {
	for _, a := range admins {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}
