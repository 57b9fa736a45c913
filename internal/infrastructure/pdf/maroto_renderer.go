// Package pdf implementa la representación gráfica del documento de
// facturación (factura o nota de crédito).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIF-IVA  │  Tipo + Número + Fechas         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / IBAN / Email                            │
//	│  RECEPTOR: Nombre + NIF-IVA + dirección                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Importe          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BANDAS DE IVA + TOTALES: Base / IVA / TOTAL                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: instrucciones de pago + condiciones generales       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/facturia/facturia-api/internal/application/billing"
	domainbilling "github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Formato de importes según convención belga/neerlandesa (1.234,56).
var amountPrinter = message.NewPrinter(language.Dutch)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ appbilling.DocumentRenderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa billing.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(_ context.Context, data *appbilling.RenderData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitle(data.Document)+" "+data.Document.Number, true).
		WithAuthor(data.Issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Document, data.Issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(data.Issuer))
	m.AddRows(recipientRow(data.Party))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(data.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(data.Totals) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(data.Document, data.Issuer) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func documentTitle(doc *entity.BillingDocument) string {
	if doc.Kind == entity.KindCreditNote {
		return "NOTA DE CRÉDITO"
	}
	return "FACTURA"
}

// headerRow: nombre del emisor + NIF-IVA (izq) y tipo + número + fechas (der).
func headerRow(doc *entity.BillingDocument, issuer *entity.IssuerProfile) core.Row {
	dateLine := "Fecha: " + doc.IssueDate.Format("02/01/2006")
	if doc.DueDate != nil {
		dateLine += "   Vence: " + doc.DueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("IVA: "+nonEmpty(issuer.VATNumber, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(documentTitle(doc), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(dateLine, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// issuerRow: datos de contacto del emisor.
func issuerRow(issuer *entity.IssuerProfile) core.Row {
	address := nonEmpty(issuer.Street, "—")
	if issuer.City != "" {
		address += ", " + issuer.Zip + " " + issuer.City
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   IBAN: %s   |   Email: %s",
				address,
				nonEmpty(issuer.IBAN, "—"),
				nonEmpty(issuer.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// recipientRow: datos del destinatario.
func recipientRow(party *entity.Party) core.Row {
	address := nonEmpty(party.Street, "—")
	if party.City != "" {
		address += ", " + party.Zip + " " + party.City
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(party.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("IVA: %s   |   %s   |   %s",
				nonEmpty(party.VATNumber, "—"),
				address,
				nonEmpty(party.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA", 1, align.Center),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por línea del documento.
func tableItemRows(items []*entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				item.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				item.Title,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatAmount(item.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				item.VATRateLabel,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatAmount(item.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: una fila por banda de IVA y el bloque de totales.
func totalsRows(totals *domainbilling.Totals) []core.Row {
	rows := make([]core.Row, 0, len(totals.Groups)+1)
	for _, g := range totals.Groups {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(
				fmt.Sprintf("Base IVA %s:", g.RateLabel),
				props.Text{Size: 8, Align: align.Right, Right: 2, Color: colorGray},
			)),
			col.New(3).Add(text.New(
				formatAmount(g.Subtotal)+"  (+"+formatAmount(g.TaxAmount)+")",
				props.Text{Size: 8, Align: align.Right, Right: 1, Color: colorGray},
			)),
		))
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	rows = append(rows, row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Base imponible:"),
			label("IVA:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value("€ "+formatAmount(totals.Subtotal)),
			value("€ "+formatAmount(totals.TaxTotal)),
			grandValue("€ "+formatAmount(totals.Total)),
		),
		col.New(3),
	))
	return rows
}

// footerRows: instrucciones de pago + condiciones generales.
func footerRows(doc *entity.BillingDocument, issuer *entity.IssuerProfile) []core.Row {
	rows := []core.Row{}

	if issuer.IBAN != "" && doc.Kind == entity.KindInvoice {
		payText := fmt.Sprintf("Pago por transferencia al IBAN %s indicando la referencia %s.",
			issuer.IBAN, doc.Number)
		if doc.DueDate != nil {
			payText += " Vencimiento: " + doc.DueDate.Format("02/01/2006") + "."
		}
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(payText, props.Text{Size: 8, Top: 2}),
		)))
	}
	if doc.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(doc.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}
	if issuer.TermsURL != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Condiciones generales: "+issuer.TermsURL,
				props.Text{Size: 6.5, Color: colorGray, Top: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatAmount formatea un importe con separadores de miles y dos decimales
// (convención neerlandesa: 1.234,56).
func formatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return amountPrinter.Sprintf("%.2f", f)
}
