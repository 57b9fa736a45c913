package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

func formatterFixture() (*billing.Formatter, *fakeDirectory) {
	dir := &fakeDirectory{}
	resolver := billing.NewRoutingResolver(dir, "")
	return billing.NewFormatter(resolver), dir
}

func invoiceDoc() *entity.BillingDocument {
	return &entity.BillingDocument{
		ID:        "doc-1",
		Kind:      entity.KindInvoice,
		Number:    "INV-0007",
		IssueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Notes:     "entrega abril",
		// Total deliberadamente desfasado: el formatter debe ignorarlo
		Total: decimal.NewFromInt(999),
	}
}

func invoiceItems() []*entity.LineItem {
	return []*entity.LineItem{
		{Title: "consultoría", Amount: decimal.NewFromInt(100), VATRateLabel: "21%"},
		{Title: "libros", Amount: decimal.NewFromInt(50), VATRateLabel: "0%"},
	}
}

func testIssuer() *entity.IssuerProfile {
	return &entity.IssuerProfile{
		Name:        "Facturia BV",
		CountryCode: "BE",
		VATNumber:   "BE0999999999",
		IBAN:        "BE68539007547034",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Build — el payload es autosuficiente: totales recalculados, líneas tipadas,
// bandas re-expresadas y ruteo resuelto en el momento.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_TotalRecalculadoNoElDelDocumento(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)

	assert.Equal(t, "171.00", payload.Total.StringFixed(2),
		"el total del payload se recalcula de las bandas, no se copia del documento")
}

func TestBuild_CamposBasicos(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)

	assert.Equal(t, "invoice", payload.DocumentType)
	assert.Equal(t, "INV-0007", payload.Number)
	assert.Equal(t, "EUR", payload.Currency, "la moneda de liquidación es fija")
	assert.Equal(t, "entrega abril", payload.Note)
	assert.Equal(t, "Acme BV", payload.Buyer.Name)
}

func TestBuild_LineasConCategoriaYPorcentaje(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)

	require.Len(t, payload.Lines, 2)
	assert.Equal(t, "standard", payload.Lines[0].TaxCategory)
	assert.True(t, payload.Lines[0].TaxPercentage.Equal(decimal.NewFromInt(21)))
	assert.Equal(t, "BE", payload.Lines[0].Country, "el país fiscal es el del emisor")
	assert.Equal(t, "zero", payload.Lines[1].TaxCategory)
	assert.True(t, payload.Lines[1].TaxPercentage.IsZero())
}

func TestBuild_BandasDeImpuesto(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)

	require.Len(t, payload.TaxSubtotals, 2)
	assert.Equal(t, "100.00", payload.TaxSubtotals[0].TaxableAmount.StringFixed(2))
	assert.Equal(t, "21.00", payload.TaxSubtotals[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "50.00", payload.TaxSubtotals[1].TaxableAmount.StringFixed(2))
	assert.Equal(t, "0.00", payload.TaxSubtotals[1].TaxAmount.StringFixed(2))
}

func TestBuild_MedioDePagoSoloConIBAN(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)
	require.NotNil(t, payload.PaymentMeans)
	assert.Equal(t, "BE68539007547034", payload.PaymentMeans.IBAN)

	issuer := testIssuer()
	issuer.IBAN = ""
	payload, err = formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), issuer)
	require.NoError(t, err)
	assert.Nil(t, payload.PaymentMeans, "sin IBAN no se emite bloque de pago")
}

func TestBuild_RuteoResuelto(t *testing.T) {
	formatter, _ := formatterFixture()

	payload, err := formatter.Build(context.Background(), invoiceDoc(), invoiceItems(), businessParty(), testIssuer())
	require.NoError(t, err)
	require.Len(t, payload.Routing, 1)
	assert.Equal(t, "BE:VAT", payload.Routing[0].Scheme)
}

func TestBuild_EtiquetaIlegibleAbortaElPayload(t *testing.T) {
	formatter, _ := formatterFixture()
	items := []*entity.LineItem{
		{Title: "x", Amount: decimal.NewFromInt(10), VATRateLabel: "reducido"},
	}
	_, err := formatter.Build(context.Background(), invoiceDoc(), items, businessParty(), testIssuer())
	require.Error(t, err, "una tasa ilegible no debe llegar a la red")
}
