package dto

import (
	"github.com/shopspring/decimal"
)

// ErrorResponse respuesta de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LineItemRequest línea de un documento en creación/edición.
type LineItemRequest struct {
	Title        string          `json:"title"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	VATRateLabel string          `json:"vat_rate"`
}

// CreateDocumentRequest body para POST /api/documents.
// Number opcional: si va vacío lo asigna el generador de numeración.
type CreateDocumentRequest struct {
	PartyID   string            `json:"party_id"`
	Kind      string            `json:"kind"` // invoice | creditnote
	IssueDate string            `json:"issue_date,omitempty"`
	DueDate   string            `json:"due_date,omitempty"` // solo facturas
	Notes     string            `json:"notes,omitempty"`
	Number    string            `json:"number,omitempty"`
	Items     []LineItemRequest `json:"items"`
}

// UpdateDocumentRequest body para PUT /api/documents/:id (solo draft).
// Las líneas se recrean completas. Version es el token CAS leído en el GET.
type UpdateDocumentRequest struct {
	PartyID string            `json:"party_id"`
	DueDate string            `json:"due_date,omitempty"`
	Notes   string            `json:"notes,omitempty"`
	Number  string            `json:"number,omitempty"`
	Items   []LineItemRequest `json:"items"`
	Version int               `json:"version"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
	VATRateLabel string          `json:"vat_rate"`
}

// DocumentResponse documento con detalle.
type DocumentResponse struct {
	ID        string             `json:"id"`
	PartyID   string             `json:"party_id"`
	PartyName string             `json:"party_name,omitempty"`
	Kind      string             `json:"kind"`
	Number    string             `json:"number"`
	IssueDate string             `json:"issue_date"`
	DueDate   string             `json:"due_date,omitempty"`
	Status    string             `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	TaxTotal  decimal.Decimal    `json:"tax_total"`
	Total     decimal.Decimal    `json:"total"`
	Version   int                `json:"version"`
	Items     []LineItemResponse `json:"items,omitempty"`
}

// TaxGroupResponse banda de impuesto en el preview de totales.
type TaxGroupResponse struct {
	RateLabel string          `json:"rate"`
	Category  string          `json:"category"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax"`
}

// TotalsResponse preview de totales (misma disciplina de redondeo que el envío).
type TotalsResponse struct {
	Groups   []TaxGroupResponse `json:"groups"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	TaxTotal decimal.Decimal    `json:"tax_total"`
	Total    decimal.Decimal    `json:"total"`
}

// SubmissionOutcome resultado del envío, devuelto al caller y no persistido:
// solo el estado del documento y el artefacto almacenado reflejan el desenlace.
// networkSubmitted=false + emailSent=true con NetworkError es éxito parcial,
// distinguible del fallo total (error de retorno).
type SubmissionOutcome struct {
	NetworkSubmitted bool   `json:"network_submitted"`
	EmailSent        bool   `json:"email_sent"`
	NetworkError     string `json:"network_error,omitempty"`
	EmailError       string `json:"email_error,omitempty"`
	ArtifactURL      string `json:"artifact_url,omitempty"`
}

// SendResponse resultado del envío: nuevo estado más el outcome.
type SendResponse struct {
	Status  string             `json:"status"`
	Outcome *SubmissionOutcome `json:"outcome"`
}

// DocumentStatusResponse respuesta ligera para polling de estado.
type DocumentStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Number string `json:"number"`
}

// SweepResponse resultado del barrido de vencidos.
type SweepResponse struct {
	MarkedOverdue int64 `json:"marked_overdue"`
}
