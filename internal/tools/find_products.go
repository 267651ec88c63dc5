package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/latinum-ai/mercator/internal/catalog"
)

const FindProductsToolName = "find_products"

// FindProductsRequest represents the tool input.
type FindProductsRequest struct {
	Query string `json:"query" jsonschema:"title=Query,description=Free-text product name search. Empty returns the whole catalog."`
	Limit int    `json:"limit,omitempty" jsonschema:"title=Limit,description=Maximum number of products to return."`
}

// ProductOffer is one product in the search result, priced in wei with the
// seller wallet to pay and the image inlined when available.
type ProductOffer struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	AmountWei    int64  `json:"amount_wei"`
	SellerWallet string `json:"seller_wallet"`
	ImageData    string `json:"image_data,omitempty"`
	ImageMIME    string `json:"image_mime,omitempty"`
}

// FindProductsResult represents the tool output.
type FindProductsResult struct {
	Products []*ProductOffer `json:"products"`
}

// FindProductsTool searches the product catalog.
type FindProductsTool struct {
	catalog      *catalog.Catalog
	sellerWallet string
}

var _ Tool = (*FindProductsTool)(nil)

func NewFindProductsTool(catalog *catalog.Catalog, sellerWallet string) *FindProductsTool {
	return &FindProductsTool{catalog: catalog, sellerWallet: sellerWallet}
}

func (t *FindProductsTool) Name() string {
	return FindProductsToolName
}

func (t *FindProductsTool) Description() string {
	return "Searches the product catalog by name. Each result carries the price in wei and the seller wallet to pay."
}

func (t *FindProductsTool) Parameters() *jsonschema.Schema {
	return inputSchema(&FindProductsRequest{})
}

func (t *FindProductsTool) Call(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req FindProductsRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}

	offers, err := t.catalog.Search(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}

	result := &FindProductsResult{Products: make([]*ProductOffer, 0, len(offers))}
	for _, offer := range offers {
		result.Products = append(result.Products, &ProductOffer{
			ProductID:    offer.Product.ID,
			Name:         offer.Product.Name,
			Price:        fmt.Sprintf("€%.2f", float64(offer.Product.Price)/100),
			AmountWei:    offer.Product.Price,
			SellerWallet: t.sellerWallet,
			ImageData:    offer.ImageData,
			ImageMIME:    offer.ImageMIME,
		})
	}
	return result, nil
}
