package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/latinum-ai/mercator/internal/config"
	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
	"github.com/latinum-ai/mercator/pkg/validation"
)

// Checkout runs the purchase settlement flow: request validation, wallet and
// product resolution, payment verification against the facilitator and, on a
// confirmed payment, atomic recording of the orders plus the wallet debit.
// Every outcome is reported as a PurchaseResult; errors never escape the flow.
type Checkout struct {
	logger *logger.Logger
	config *config.Config

	repo        models.Repository
	facilitator models.FacilitatorService
	notificator models.NotificationService
}

// NewCheckout creates a new Checkout instance
func NewCheckout(
	repo models.Repository,
	facilitator models.FacilitatorService,
	notificator models.NotificationService,
	logger *logger.Logger,
	config *config.Config,
) models.CheckoutService {
	return &Checkout{
		repo:        repo,
		facilitator: facilitator,
		notificator: notificator,
		logger:      logger,
		config:      config,
	}
}

// BuyProducts attempts to purchase the given products against the signed
// payment transaction. It returns one of three outcomes: payment required
// (with the exact amount and recipient), success (with the transaction
// reference), or a terminal failure with a human-readable reason.
func (c *Checkout) BuyProducts(ctx context.Context, productIDs []int64, signedTxHex string) (result *models.PurchaseResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Purchase flow panicked ", "panic ", r, " stack ", string(debug.Stack()))
			result = failure(fmt.Sprintf("Error: %v", r))
		}
	}()

	if len(productIDs) == 0 {
		return failure("Invalid input. Expected product IDs.")
	}

	wallet, err := c.repo.GetWallet(c.config.WalletUUID)
	if err != nil {
		if errors.Is(err, models.ErrWalletNotFound) {
			return failure("Wallet not found.")
		}
		c.logger.Error("Failed to get wallet ", "error ", err)
		return failure("Error: " + err.Error())
	}

	products, err := c.repo.GetProductsByIDs(productIDs)
	if err != nil {
		c.logger.Error("Failed to get products ", "error ", err)
		return failure("Error: " + err.Error())
	}
	if len(products) == 0 {
		return failure("No products found.")
	}
	if missing := missingIDs(productIDs, products); len(missing) > 0 {
		return failure("Unknown product IDs: " + joinIDs(missing) + ".")
	}

	var totalWei int64
	for _, p := range products {
		totalWei += p.Price
	}

	// A transaction that is missing or not even hex can never verify, so skip
	// the facilitator round trip and ask for payment directly.
	if validation.ValidateSignedTxHex(signedTxHex) != nil {
		return c.paymentRequired(totalWei)
	}

	verdict, err := c.facilitator.VerifyPayment(ctx, signedTxHex, c.config.SellerWallet, totalWei)
	if err != nil {
		c.logger.Error("Failed to verify payment ", "error ", err)
		return failure("Error: " + err.Error())
	}
	if !verdict.Allowed {
		return c.paymentRequired(totalWei)
	}

	now := time.Now().Unix()
	orders := make([]*models.Order, 0, len(products))
	for _, p := range products {
		orders = append(orders, &models.Order{
			WalletUUID: wallet.UUID,
			ProductID:  p.ID,
			Title:      p.Name,
			Image:      p.Image,
			Price:      p.Price,
			Paid:       true,
			CreatedAt:  now,
		})
	}
	emails := c.notificator.PurchaseEmails(wallet, products, totalWei)

	if err := c.repo.SettlePurchase(wallet.UUID, orders, totalWei, emails); err != nil {
		c.logger.Error("Failed to settle purchase ", "error ", err, " wallet ", wallet.UUID)
		return failure("Error: " + err.Error())
	}
	c.logger.Info("Purchase settled ", "wallet ", wallet.UUID, " products ", len(products), " total_wei ", totalWei, " tx_hash ", verdict.TxHash)

	c.notificator.AnnounceSettlement(wallet, products, totalWei, verdict.TxHash)

	explorerURL := c.config.ExplorerLink(verdict.TxHash)
	message := fmt.Sprintf("Bought %d product(s) for %d wei.", len(products), totalWei)
	if explorerURL != "" {
		message += "\n\nView transaction:\n" + explorerURL
	}

	return &models.PurchaseResult{
		Success:      true,
		Message:      message,
		ProductCount: len(products),
		AmountWei:    totalWei,
		TxHash:       verdict.TxHash,
		ExplorerURL:  explorerURL,
	}
}

// paymentRequired builds the retry-with-payment result. This is a normal
// outcome, not an error.
func (c *Checkout) paymentRequired(totalWei int64) *models.PurchaseResult {
	return &models.PurchaseResult{
		Success: false,
		Status:  http.StatusPaymentRequired,
		Message: fmt.Sprintf(
			"Payment required: %d wei to %s. Please provide a signed transaction. If you don't have a wallet, try Latinum MCP Wallet at https://latinum.ai",
			totalWei, c.config.SellerWallet),
		PaymentRequired: true,
		SellerWallet:    c.config.SellerWallet,
		AmountWei:       totalWei,
	}
}

func failure(message string) *models.PurchaseResult {
	return &models.PurchaseResult{Success: false, Message: message}
}

// missingIDs returns the requested ids that did not resolve to a product,
// deduplicated and sorted.
func missingIDs(requested []int64, products []*models.Product) []int64 {
	found := make(map[int64]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	seen := make(map[int64]bool, len(requested))
	var missing []int64
	for _, id := range requested {
		if !found[id] && !seen[id] {
			seen[id] = true
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
