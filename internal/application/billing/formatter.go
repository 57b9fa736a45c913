package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	domainbilling "github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

// Moneda de liquidación fija del sistema.
const SettlementCurrency = "EUR"

// PayloadParty bloque de contraparte del payload saliente.
type PayloadParty struct {
	Name        string `json:"name"`
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	Zip         string `json:"zip,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	VATNumber   string `json:"vat_number,omitempty"`
}

// PayloadLine línea del payload: importe sin impuesto, porcentaje y categoría.
type PayloadLine struct {
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxCategory   string          `json:"tax_category"`
	Country       string          `json:"country"`
}

// PayloadTaxSubtotal banda de impuesto re-expresada para la red.
type PayloadTaxSubtotal struct {
	Percentage    decimal.Decimal `json:"percentage"`
	Category      string          `json:"category"`
	Country       string          `json:"country"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
}

// PayloadPaymentMeans medio de pago (transferencia al IBAN del emisor).
type PayloadPaymentMeans struct {
	IBAN string `json:"iban"`
}

// DocumentPayload payload de envío a la red de intercambio.
type DocumentPayload struct {
	DocumentType string               `json:"document_type"` // invoice | creditnote
	Number       string               `json:"number"`
	IssueDate    time.Time            `json:"issue_date"`
	Currency     string               `json:"currency"`
	Buyer        PayloadParty         `json:"buyer"`
	Lines        []PayloadLine        `json:"lines"`
	TaxSubtotals []PayloadTaxSubtotal `json:"tax_subtotals"`
	PaymentMeans *PayloadPaymentMeans `json:"payment_means,omitempty"`
	Note         string               `json:"note,omitempty"`
	Routing      []RoutingIdentifier  `json:"routing"`
	Total        decimal.Decimal      `json:"total"`
}

// Formatter compone el payload saliente a partir del documento, sus líneas y
// las dos partes. Recalcula siempre el total desde sus propias bandas de
// impuesto: nunca confía en un total que venga del caller, así el envío es
// internamente consistente aunque el total upstream haya derivado.
type Formatter struct {
	resolver *RoutingResolver
}

// NewFormatter construye el formatter.
func NewFormatter(resolver *RoutingResolver) *Formatter {
	return &Formatter{resolver: resolver}
}

// Build arma el payload. El país fiscal de líneas y bandas es el del emisor.
func (f *Formatter) Build(
	ctx context.Context,
	doc *entity.BillingDocument,
	items []*entity.LineItem,
	party *entity.Party,
	issuer *entity.IssuerProfile,
) (*DocumentPayload, error) {
	totals, err := domainbilling.Aggregate(items)
	if err != nil {
		return nil, err
	}
	routing, err := f.resolver.Resolve(ctx, party)
	if err != nil {
		return nil, err
	}

	taxCountry := issuer.CountryCode
	payload := &DocumentPayload{
		DocumentType: doc.Kind,
		Number:       doc.Number,
		IssueDate:    doc.IssueDate,
		Currency:     SettlementCurrency,
		Buyer: PayloadParty{
			Name:        party.Name,
			Street:      party.Street,
			City:        party.City,
			Zip:         party.Zip,
			CountryCode: party.CountryCode,
			VATNumber:   party.VATNumber,
		},
		Note:    doc.Notes,
		Routing: routing,
		Total:   totals.Total, // recalculado aquí, no tomado del documento
	}
	for _, item := range items {
		rate, err := domainbilling.ParseVATRate(item.VATRateLabel)
		if err != nil {
			return nil, err
		}
		payload.Lines = append(payload.Lines, PayloadLine{
			Description:   item.Title,
			Amount:        item.Amount,
			TaxPercentage: rate.Percentage,
			TaxCategory:   rate.Category,
			Country:       taxCountry,
		})
	}
	for _, g := range totals.Groups {
		rate, _ := domainbilling.ParseVATRate(g.RateLabel)
		payload.TaxSubtotals = append(payload.TaxSubtotals, PayloadTaxSubtotal{
			Percentage:    rate.Percentage,
			Category:      g.Category,
			Country:       taxCountry,
			TaxableAmount: g.Subtotal,
			TaxAmount:     g.TaxAmount,
		})
	}
	if issuer.IBAN != "" {
		payload.PaymentMeans = &PayloadPaymentMeans{IBAN: issuer.IBAN}
	}
	return payload, nil
}
