package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/service/checkout"
)

type itemResponse struct {
	domain.Item
	UnitPrice float64 `json:"unitPrice"`
	Price     string  `json:"price"`
}

type pageResponse struct {
	Results  []itemResponse `json:"results"`
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	HasNext  bool           `json:"hasNext"`
}

type cartLineResponse struct {
	Starship  itemResponse `json:"starship"`
	Quantity  int          `json:"quantity"`
	LineTotal float64      `json:"lineTotal"`
	LinePrice string       `json:"linePrice"`
}

type cartResponse struct {
	Items       []cartLineResponse `json:"items"`
	ItemCount   int                `json:"itemCount"`
	Subtotal    float64            `json:"subtotal"`
	SubtotalFmt string             `json:"subtotalFormatted"`
	MaxQuantity int                `json:"maxQuantity"`
}

type summaryResponse struct {
	Items     []cartLineResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  float64            `json:"subtotal"`
	TaxRate   float64            `json:"taxRate"`
	Tax       float64            `json:"tax"`
	Total     float64            `json:"total"`
	Currency  string             `json:"currency"`
	TotalFmt  string             `json:"totalFormatted"`
}

type orderResponse struct {
	ID            string          `json:"id"`
	PaymentMethod string          `json:"paymentMethod"`
	PlacedAt      string          `json:"placedAt"`
	Summary       summaryResponse `json:"summary"`
}

func toItemResponse(it domain.Item) itemResponse {
	return itemResponse{
		Item:      it,
		UnitPrice: pricing.NormalizedUnitPrice(it.CostInCredits),
		Price:     pricing.FormatPrice(it.CostInCredits),
	}
}

func toPageResponse(p *catalog.Page) pageResponse {
	out := pageResponse{
		Results:  make([]itemResponse, 0, len(p.Results)),
		Count:    p.Count,
		Next:     p.Next,
		Previous: p.Previous,
		HasNext:  p.HasNext(),
	}
	for _, it := range p.Results {
		out.Results = append(out.Results, toItemResponse(it))
	}
	return out
}

func toLineResponses(lines []domain.CartLine) []cartLineResponse {
	out := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		total := pricing.LineTotal(l.Item.CostInCredits, l.Quantity)
		out = append(out, cartLineResponse{
			Starship:  toItemResponse(l.Item),
			Quantity:  l.Quantity,
			LineTotal: total,
			LinePrice: pricing.FormatAmount(total),
		})
	}
	return out
}

func toCartResponse(state cart.State, maxQuantity int) cartResponse {
	subtotal := state.TotalPrice()
	return cartResponse{
		Items:       toLineResponses(state.Lines()),
		ItemCount:   state.TotalItemCount(),
		Subtotal:    subtotal,
		SubtotalFmt: pricing.FormatAmount(subtotal),
		MaxQuantity: maxQuantity,
	}
}

func toSummaryResponse(s checkout.Summary) summaryResponse {
	return summaryResponse{
		Items:     toLineResponses(s.Items),
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal,
		TaxRate:   s.TaxRate,
		Tax:       s.Tax,
		Total:     s.Total,
		Currency:  s.Currency,
		TotalFmt:  pricing.FormatAmount(s.Total),
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// writeCatalogError maps catalog failures: timeouts to 504, other classified
// failures to 502.
func writeCatalogError(c *gin.Context, err error) {
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		status := http.StatusBadGateway
		if fe.Kind == catalog.KindTimeout {
			status = http.StatusGatewayTimeout
		}
		writeError(c, status, fe.Message())
		return
	}
	writeError(c, http.StatusBadGateway, "catalog unavailable")
}
