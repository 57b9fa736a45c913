package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

func item(title, label string, amount float64) *entity.LineItem {
	return &entity.LineItem{
		Title:        title,
		Amount:       decimal.NewFromFloat(amount),
		VATRateLabel: label,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregate — bandas por etiqueta cruda, redondeo por banda, totales
// reconciliados sobre las bandas ya redondeadas.
// ──────────────────────────────────────────────────────────────────────────────

// Dos líneas, dos bandas: 100 al 21% y 50 al 0% deben producir exactamente
// 21.00 de impuesto y 171.00 de total.
func TestAggregate_DosBandas(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("consultoría", "21%", 100),
		item("libros", "0%", 50),
	})
	require.NoError(t, err)

	require.Len(t, totals.Groups, 2)
	assert.Equal(t, "21%", totals.Groups[0].RateLabel)
	assert.Equal(t, billing.CategoryStandard, totals.Groups[0].Category)
	assert.Equal(t, "100.00", totals.Groups[0].Subtotal.StringFixed(2))
	assert.Equal(t, "21.00", totals.Groups[0].TaxAmount.StringFixed(2))

	assert.Equal(t, "0%", totals.Groups[1].RateLabel)
	assert.Equal(t, billing.CategoryZero, totals.Groups[1].Category)
	assert.Equal(t, "50.00", totals.Groups[1].Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.Groups[1].TaxAmount.StringFixed(2))

	assert.Equal(t, "150.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "21.00", totals.TaxTotal.StringFixed(2))
	assert.Equal(t, "171.00", totals.Total.StringFixed(2))
}

// Las etiquetas se agrupan por igualdad de string: "21%" y "21" son la misma
// tasa efectiva pero bandas distintas a propósito.
func TestAggregate_EtiquetasDistintasBandasDistintas(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("a", "21%", 10),
		item("b", "21", 10),
	})
	require.NoError(t, err)
	assert.Len(t, totals.Groups, 2,
		"\"21%%\" y \"21\" deben agruparse por separado aunque la tasa coincida")
}

// Varias líneas de la misma banda se suman antes de calcular el impuesto.
func TestAggregate_MismaBandaSeAcumula(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("a", "21%", 10.10),
		item("b", "21%", 20.20),
		item("c", "21%", 30.30),
	})
	require.NoError(t, err)
	require.Len(t, totals.Groups, 1)
	assert.Equal(t, "60.60", totals.Groups[0].Subtotal.StringFixed(2))
	// 60.60 * 21% = 12.726 → 12.73 redondeado en la banda
	assert.Equal(t, "12.73", totals.Groups[0].TaxAmount.StringFixed(2))
}

// El redondeo ocurre por banda: el impuesto de cada banda ya está redondeado
// antes de sumarse al total (no se redondea una suma cruda al final).
func TestAggregate_RedondeoPorBanda(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("a", "21%", 0.10), // 0.021 → 0.02
		item("b", "6%", 0.10),  // 0.006 → 0.01
	})
	require.NoError(t, err)
	assert.Equal(t, "0.02", totals.Groups[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "0.01", totals.Groups[1].TaxAmount.StringFixed(2))
	assert.Equal(t, "0.03", totals.TaxTotal.StringFixed(2))
}

// Invariante: la suma de subtotales de las bandas es el subtotal del documento.
func TestAggregate_SubtotalesReconcilian(t *testing.T) {
	items := []*entity.LineItem{
		item("a", "21%", 33.33),
		item("b", "6%", 66.67),
		item("c", "exempt", 12.50),
	}
	totals, err := billing.Aggregate(items)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, g := range totals.Groups {
		sum = sum.Add(g.Subtotal)
	}
	assert.True(t, sum.Equal(totals.Subtotal),
		"Σ subtotales de banda debe igualar el subtotal del documento")
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxTotal)),
		"total = subtotal + impuestos sobre bandas redondeadas")
}

// Las bandas exentas y cero nunca generan impuesto.
func TestAggregate_ExemptYZeroSinImpuesto(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("a", "exempt", 100),
		item("b", "zero", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", totals.TaxTotal.StringFixed(2))
	assert.Equal(t, "300.00", totals.Total.StringFixed(2))
}

// El orden de las bandas es el orden de primera aparición en las líneas.
func TestAggregate_OrdenDePrimeraAparicion(t *testing.T) {
	totals, err := billing.Aggregate([]*entity.LineItem{
		item("a", "6%", 1),
		item("b", "21%", 1),
		item("c", "6%", 1),
	})
	require.NoError(t, err)
	require.Len(t, totals.Groups, 2)
	assert.Equal(t, "6%", totals.Groups[0].RateLabel)
	assert.Equal(t, "21%", totals.Groups[1].RateLabel)
}

// ── errores ───────────────────────────────────────────────────────────────────

func TestAggregate_ImporteNegativoEsError(t *testing.T) {
	_, err := billing.Aggregate([]*entity.LineItem{
		item("abono", "21%", -10),
	})
	require.Error(t, err, "un importe negativo debe rechazarse en la agregación")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAggregate_EtiquetaIlegibleEsError(t *testing.T) {
	_, err := billing.Aggregate([]*entity.LineItem{
		item("x", "reducido", 10),
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAggregate_SinLineas(t *testing.T) {
	totals, err := billing.Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, totals.Groups)
	assert.True(t, totals.Total.IsZero())
}
