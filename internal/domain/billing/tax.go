package billing

import (
	"github.com/shopspring/decimal"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

// TaxGroup banda de impuesto derivada: una por etiqueta de tasa distinta
// presente en las líneas. Nunca se persiste; se recalcula siempre.
type TaxGroup struct {
	RateLabel string
	Category  string
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
}

// Totals resultado de la agregación: bandas más totales reconciliados.
// Invariantes: Σ Groups[i].Subtotal == Σ item.Amount y
// Total == Σ Subtotal + Σ TaxAmount sobre las bandas ya redondeadas.
type Totals struct {
	Groups   []TaxGroup
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// Aggregate agrupa las líneas por etiqueta de tasa (igualdad de string: "21%"
// y "21" son bandas distintas a propósito) y calcula subtotal, impuesto y total.
//
// El redondeo a 2 decimales se aplica por banda en el momento de calcularla,
// no al final. Esa disciplina es la única que hace coincidir estos totales con
// los recalculados para el envío a la red; debe usarse en todo recálculo,
// incluido el preview interactivo.
func Aggregate(items []*entity.LineItem) (*Totals, error) {
	type bucket struct {
		rate    VATRate
		amounts decimal.Decimal
	}
	order := make([]string, 0, len(items))
	buckets := make(map[string]*bucket, len(items))

	for _, item := range items {
		if item.Amount.IsNegative() {
			return nil, domain.NewError(domain.KindValidation,
				"importe negativo en la línea \""+item.Title+"\"", nil)
		}
		b, ok := buckets[item.VATRateLabel]
		if !ok {
			rate, err := ParseVATRate(item.VATRateLabel)
			if err != nil {
				return nil, err
			}
			b = &bucket{rate: rate}
			buckets[item.VATRateLabel] = b
			order = append(order, item.VATRateLabel)
		}
		b.amounts = b.amounts.Add(item.Amount)
	}

	totals := &Totals{Groups: make([]TaxGroup, 0, len(order))}
	hundred := decimal.NewFromInt(100)
	for _, label := range order {
		b := buckets[label]
		subtotal := b.amounts.Round(2)
		tax := decimal.Zero
		if b.rate.Category == CategoryStandard {
			tax = subtotal.Mul(b.rate.Percentage).Div(hundred).Round(2)
		}
		totals.Groups = append(totals.Groups, TaxGroup{
			RateLabel: label,
			Category:  b.rate.Category,
			Subtotal:  subtotal,
			TaxAmount: tax,
		})
		totals.Subtotal = totals.Subtotal.Add(subtotal)
		totals.TaxTotal = totals.TaxTotal.Add(tax)
	}
	totals.Total = totals.Subtotal.Add(totals.TaxTotal)
	return totals, nil
}
