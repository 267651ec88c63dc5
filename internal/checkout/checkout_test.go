package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latinum-ai/mercator/internal/config"
	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

const (
	testWalletUUID   = "0b2c3f62-15a1-4a43-9f8e-demo"
	testSellerWallet = "0xbF751076C35516DdBcAF99994ef5fCF6dfDe42E5"
	testSignedTx     = "0xdeadbeef"
)

type fakeRepo struct {
	mu sync.Mutex

	wallet   *models.Wallet
	products map[int64]*models.Product

	walletErr   error
	productsErr error
	settleErr   error

	walletCalls  int
	productCalls int
	settleCalls  int

	settledOrders []*models.Order
	settledEmails []*models.OutboxEmail
	settledTotal  int64
}

func newFakeRepo(credit int64, products ...*models.Product) *fakeRepo {
	r := &fakeRepo{
		wallet:   &models.Wallet{UUID: testWalletUUID, Credit: credit, Name: "Dennj", Email: "buyer@example.com"},
		products: make(map[int64]*models.Product),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepo) GetWallet(uuid string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walletCalls++
	if r.walletErr != nil {
		return nil, r.walletErr
	}
	if r.wallet == nil || r.wallet.UUID != uuid {
		return nil, models.ErrWalletNotFound
	}
	w := *r.wallet
	return &w, nil
}

func (r *fakeRepo) GetProductsByIDs(ids []int64) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productCalls++
	if r.productsErr != nil {
		return nil, r.productsErr
	}
	var out []*models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) SearchProducts(query string, limit int) ([]*models.Product, error) {
	return nil, nil
}

func (r *fakeRepo) SettlePurchase(walletUUID string, orders []*models.Order, totalWei int64, emails []*models.OutboxEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCalls++
	if r.settleErr != nil {
		return r.settleErr
	}
	// Conditional debit, like the real store.
	if r.wallet == nil || r.wallet.UUID != walletUUID {
		return models.ErrWalletNotFound
	}
	if r.wallet.Credit < totalWei {
		return models.ErrInsufficientCredit
	}
	r.wallet.Credit -= totalWei
	r.settledOrders = append(r.settledOrders, orders...)
	r.settledEmails = append(r.settledEmails, emails...)
	r.settledTotal += totalWei
	return nil
}

func (r *fakeRepo) PendingOutboxEmails(limit int) ([]*models.OutboxEmail, error) { return nil, nil }
func (r *fakeRepo) MarkOutboxEmailSent(id string, sentAt int64) error           { return nil }
func (r *fakeRepo) MarkOutboxEmailFailed(id string) error                       { return nil }
func (r *fakeRepo) Close() error                                                { return nil }

type fakeFacilitator struct {
	mu sync.Mutex

	verdict *models.PaymentVerdict
	err     error

	calls        int
	lastTx       string
	lastRecipient string
	lastAmount   int64
}

func (f *fakeFacilitator) VerifyPayment(ctx context.Context, signedTxHex, expectedRecipient string, expectedAmountWei int64) (*models.PaymentVerdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastTx = signedTxHex
	f.lastRecipient = expectedRecipient
	f.lastAmount = expectedAmountWei
	if f.err != nil {
		return nil, f.err
	}
	return f.verdict, nil
}

type fakeNotificator struct {
	emails        []*models.OutboxEmail
	announceCalls int
	panicOnAnnounce bool
}

func (n *fakeNotificator) PurchaseEmails(wallet *models.Wallet, products []*models.Product, totalWei int64) []*models.OutboxEmail {
	return n.emails
}

func (n *fakeNotificator) AnnounceSettlement(wallet *models.Wallet, products []*models.Product, totalWei int64, txHash string) {
	n.announceCalls++
	if n.panicOnAnnounce {
		panic("telegram is down")
	}
}

func testConfig() *config.Config {
	return &config.Config{
		SellerWallet:  testSellerWallet,
		WalletUUID:    testWalletUUID,
		ExplorerTxURL: "https://sepolia.basescan.org/tx/%s",
	}
}

func newTestCheckout(repo *fakeRepo, fac *fakeFacilitator, notif *fakeNotificator) models.CheckoutService {
	return NewCheckout(repo, fac, notif, logger.NewNop(), testConfig())
}

func twoProducts() (*models.Product, *models.Product) {
	return &models.Product{ID: 1, Name: "Espresso Cup", Price: 1200, Image: "https://img.example.com/cup.png"},
		&models.Product{ID: 2, Name: "Sticker Pack", Price: 800, Image: "https://img.example.com/stickers.png"}
}

func TestBuyProductsEmptyInput(t *testing.T) {
	repo := newFakeRepo(5000)
	fac := &fakeFacilitator{}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), nil, testSignedTx)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Invalid input")
	// Neither the store nor the facilitator may be contacted.
	assert.Equal(t, 0, repo.walletCalls)
	assert.Equal(t, 0, repo.productCalls)
	assert.Equal(t, 0, fac.calls)
}

func TestBuyProductsWalletNotFound(t *testing.T) {
	p1, p2 := twoProducts()
	repo := newFakeRepo(5000, p1, p2)
	repo.wallet = nil
	c := newTestCheckout(repo, &fakeFacilitator{}, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	assert.False(t, res.Success)
	assert.Equal(t, "Wallet not found.", res.Message)
}

func TestBuyProductsWalletStoreError(t *testing.T) {
	repo := newFakeRepo(5000)
	repo.walletErr = errors.New("connection refused")
	c := newTestCheckout(repo, &fakeFacilitator{}, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Error: connection refused")
	assert.False(t, res.PaymentRequired)
}

func TestBuyProductsNoProductsFound(t *testing.T) {
	repo := newFakeRepo(5000)
	c := newTestCheckout(repo, &fakeFacilitator{}, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{99}, testSignedTx)

	assert.False(t, res.Success)
	assert.Equal(t, "No products found.", res.Message)
}

func TestBuyProductsUnknownIDsRejected(t *testing.T) {
	p1, p2 := twoProducts()
	repo := newFakeRepo(5000, p1, p2)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true}}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1, 7, 2, 9, 7}, testSignedTx)

	assert.False(t, res.Success)
	assert.Equal(t, "Unknown product IDs: 7, 9.", res.Message)
	assert.Equal(t, 0, fac.calls)
	assert.Equal(t, 0, repo.settleCalls)
}

func TestBuyProductsPaymentRequired(t *testing.T) {
	p1, p2 := twoProducts()
	repo := newFakeRepo(5000, p1, p2)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: false}}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1, 2}, testSignedTx)

	assert.False(t, res.Success)
	assert.True(t, res.PaymentRequired)
	assert.Equal(t, 402, res.Status)
	assert.Equal(t, int64(2000), res.AmountWei)
	assert.Equal(t, testSellerWallet, res.SellerWallet)
	assert.Contains(t, res.Message, "Payment required: 2000 wei")

	// No settlement side effects.
	assert.Equal(t, 0, repo.settleCalls)
	assert.Equal(t, int64(5000), repo.wallet.Credit)
	assert.Empty(t, repo.settledOrders)

	// The facilitator saw the exact expected amount and recipient.
	assert.Equal(t, int64(2000), fac.lastAmount)
	assert.Equal(t, testSellerWallet, fac.lastRecipient)
	assert.Equal(t, testSignedTx, fac.lastTx)
}

func TestBuyProductsMalformedTxSkipsFacilitator(t *testing.T) {
	p1, p2 := twoProducts()
	repo := newFakeRepo(5000, p1, p2)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true}}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	for _, tx := range []string{"", "not-hex", "0xabc"} {
		res := c.BuyProducts(context.Background(), []int64{1, 2}, tx)

		assert.False(t, res.Success, "tx=%q", tx)
		assert.True(t, res.PaymentRequired, "tx=%q", tx)
		assert.Equal(t, int64(2000), res.AmountWei, "tx=%q", tx)
	}
	assert.Equal(t, 0, fac.calls)
}

func TestBuyProductsSuccess(t *testing.T) {
	p1, p2 := twoProducts()
	repo := newFakeRepo(5000, p1, p2)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true, TxHash: "0xabc"}}
	notif := &fakeNotificator{emails: []*models.OutboxEmail{{ID: "e1", Recipient: "buyer@example.com"}}}
	c := newTestCheckout(repo, fac, notif)

	res := c.BuyProducts(context.Background(), []int64{1, 2}, testSignedTx)

	require.True(t, res.Success)
	assert.Equal(t, 2, res.ProductCount)
	assert.Equal(t, int64(2000), res.AmountWei)
	assert.Equal(t, "0xabc", res.TxHash)
	assert.Equal(t, "https://sepolia.basescan.org/tx/0xabc", res.ExplorerURL)
	assert.Contains(t, res.Message, "Bought 2 product(s) for 2000 wei.")
	assert.Contains(t, res.Message, res.ExplorerURL)

	// Credit debited by exactly the total.
	assert.Equal(t, int64(3000), repo.wallet.Credit)

	// One paid order per resolved product.
	require.Len(t, repo.settledOrders, 2)
	for _, order := range repo.settledOrders {
		assert.True(t, order.Paid)
		assert.Equal(t, testWalletUUID, order.WalletUUID)
	}
	assert.Equal(t, int64(1200), repo.settledOrders[0].Price)
	assert.Equal(t, "Espresso Cup", repo.settledOrders[0].Title)
	assert.Equal(t, int64(800), repo.settledOrders[1].Price)

	// Notification emails enqueued with the settlement, announce fired.
	require.Len(t, repo.settledEmails, 1)
	assert.Equal(t, "buyer@example.com", repo.settledEmails[0].Recipient)
	assert.Equal(t, 1, notif.announceCalls)
}

func TestBuyProductsSuccessWithoutTxHash(t *testing.T) {
	p1, _ := twoProducts()
	repo := newFakeRepo(5000, p1)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true}}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	require.True(t, res.Success)
	assert.Empty(t, res.TxHash)
	assert.Empty(t, res.ExplorerURL)
	assert.NotContains(t, res.Message, "View transaction")
}

func TestBuyProductsFacilitatorError(t *testing.T) {
	p1, _ := twoProducts()
	repo := newFakeRepo(5000, p1)
	fac := &fakeFacilitator{err: errors.New("facilitator unreachable")}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	assert.False(t, res.Success)
	assert.False(t, res.PaymentRequired)
	assert.Contains(t, res.Message, "Error: facilitator unreachable")
	assert.Equal(t, 0, repo.settleCalls)
}

func TestBuyProductsSettlementError(t *testing.T) {
	p1, _ := twoProducts()
	repo := newFakeRepo(5000, p1)
	repo.settleErr = errors.New("deadlock detected")
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true, TxHash: "0xabc"}}
	notif := &fakeNotificator{}
	c := newTestCheckout(repo, fac, notif)

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Error: deadlock detected")
	assert.Equal(t, 0, notif.announceCalls)
}

func TestBuyProductsAnnouncePanicDoesNotFailSettlement(t *testing.T) {
	p1, _ := twoProducts()
	repo := newFakeRepo(5000, p1)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true, TxHash: "0xabc"}}
	notif := &fakeNotificator{panicOnAnnounce: true}
	c := newTestCheckout(repo, fac, notif)

	res := c.BuyProducts(context.Background(), []int64{1}, testSignedTx)

	// The settlement is already recorded; the panic is converted into a
	// failure result instead of escaping to the caller.
	assert.Equal(t, int64(3800), repo.wallet.Credit)
	require.Len(t, repo.settledOrders, 1)
	assert.NotNil(t, res)
}

func TestBuyProductsConcurrentNoLostUpdates(t *testing.T) {
	p1, _ := twoProducts()
	const buyers = 10

	repo := newFakeRepo(int64(buyers)*p1.Price, p1)
	fac := &fakeFacilitator{verdict: &models.PaymentVerdict{Allowed: true, TxHash: "0xabc"}}
	c := newTestCheckout(repo, fac, &fakeNotificator{})

	var wg sync.WaitGroup
	results := make([]*models.PurchaseResult, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.BuyProducts(context.Background(), []int64{1}, testSignedTx)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.True(t, res.Success, fmt.Sprintf("buyer %d", i))
	}
	assert.Equal(t, int64(0), repo.wallet.Credit)
	assert.Len(t, repo.settledOrders, buyers)
	assert.Equal(t, int64(buyers)*p1.Price, repo.settledTotal)
}
