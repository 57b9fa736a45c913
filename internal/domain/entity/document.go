package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de facturación.
const (
	KindInvoice    = "invoice"
	KindCreditNote = "creditnote"
)

// Estados del ciclo de vida de un documento.
const (
	StatusDraft   = "draft"   // Editable; único estado en el que se permite borrar
	StatusPending = "pending" // Enviado (red o email); a la espera de pago
	StatusPaid    = "paid"    // Pagado; estado terminal
	StatusOverdue = "overdue" // Pendiente con fecha de vencimiento superada (barrido automático)
)

// BillingDocument representa la cabecera de una factura o nota crédito.
// Mutable solo en draft; fuera de draft el único campo que cambia es Status.
type BillingDocument struct {
	ID        string
	UserID    string
	PartyID   string
	Kind      string // invoice | creditnote
	Number    string
	IssueDate time.Time
	DueDate   *time.Time // solo facturas; nil en notas crédito
	Status    string
	Notes     string
	Subtotal  decimal.Decimal
	TaxTotal  decimal.Decimal
	Total     decimal.Decimal
	Version   int // token de concurrencia optimista (CAS en updates)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft indica si el documento sigue siendo editable.
func (d *BillingDocument) IsDraft() bool { return d.Status == StatusDraft }

// LineItem línea de un documento. Pertenece a exactamente un BillingDocument
// y se recrea completa en cada edición (sin versionado parcial).
type LineItem struct {
	ID           string
	DocumentID   string
	Position     int
	Title        string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal // Quantity × UnitPrice
	VATRateLabel string          // "21%", "0%", "Exempt", ...
}
