package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

const (
	// DefaultSearchLimit caps how many products a single search returns.
	DefaultSearchLimit = 20
	// maxImageBytes caps how much image data is fetched per product.
	maxImageBytes = 5 << 20
)

// Offer is a catalog product prepared for presentation: the stored product
// plus its image fetched and base64-encoded. ImageData is empty when the
// image could not be fetched; the offer is still returned.
type Offer struct {
	Product   *models.Product
	ImageData string
	ImageMIME string
}

// Catalog serves product search over the read-only product table and fetches
// product images for inline display.
type Catalog struct {
	logger *logger.Logger

	repo   models.Repository
	client *http.Client
}

// NewCatalog creates a new Catalog instance with a bounded image-fetch timeout.
func NewCatalog(repo models.Repository, timeout time.Duration, logger *logger.Logger) *Catalog {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Catalog{
		logger: logger,
		repo:   repo,
		client: &http.Client{Timeout: timeout},
	}
}

// Search finds products whose name matches the query and attaches their
// images. An image fetch failure degrades that offer to text-only, it never
// fails the search.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]*Offer, error) {
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}

	products, err := c.repo.SearchProducts(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	offers := make([]*Offer, 0, len(products))
	for _, product := range products {
		offer := &Offer{Product: product}
		if product.Image != "" {
			data, mime, err := c.FetchImage(ctx, product.Image)
			if err != nil {
				c.logger.Error("Failed to fetch product image ", "error ", err, " product ", product.Name)
			} else {
				offer.ImageData = data
				offer.ImageMIME = mime
			}
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

// FetchImage downloads an image and returns it base64-encoded together with
// its MIME type.
func (c *Catalog) FetchImage(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status code %d fetching image", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty image body")
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}

	return base64.StdEncoding.EncodeToString(data), mime, nil
}
