package billing

import (
	"context"

	domainbilling "github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

// RoutingIdentifier par (scheme, id) con el que la red de intercambio
// direcciona a una contraparte registrada. Se resuelve en cada intento de
// envío y nunca se persiste: el registro de la contraparte puede cambiar.
type RoutingIdentifier struct {
	Scheme string `json:"scheme"`
	ID     string `json:"id"`
}

// NetworkDirectory puerto de consulta del directorio de la red.
type NetworkDirectory interface {
	// LookupIdentifiers devuelve los identificadores de ruteo publicados para
	// un registro. Slice vacío sin error significa registro sin identificadores.
	LookupIdentifiers(ctx context.Context, registrationID string) ([]RoutingIdentifier, error)
}

// SubmitResult resultado de la entrega al access point de la red.
type SubmitResult struct {
	OK   bool
	Body string // respuesta cruda del access point (diagnóstico)
}

// NetworkGateway puerto de salida hacia el access point.
// La implementación concreta usa HTTP; para tests se inyecta un fake.
type NetworkGateway interface {
	Submit(ctx context.Context, payload *DocumentPayload) (*SubmitResult, error)
}

// ArtifactStore puerto del almacén de artefactos (PDF renderizado).
// Put es upsert: reintentar un envío no duplica artefactos.
type ArtifactStore interface {
	Put(ctx context.Context, path string, data []byte) error
	// GetURL devuelve la URL pública del artefacto y si existe.
	GetURL(ctx context.Context, path string) (string, bool)
}

// EmailMessage datos para el envío por correo de un documento.
type EmailMessage struct {
	RecipientName  string
	RecipientEmail string
	DocumentNumber string
	IssuerName     string
	ArtifactURL    string // URL pública si el store la expone
	Attachment     []byte // PDF adjunto
	AttachmentName string
	TermsURL       string // opcional
	CCEmail        string // opcional
}

// EmailGateway puerto de salida de correo.
type EmailGateway interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// RenderData datos estructurados que consume el renderer de PDF.
type RenderData struct {
	Document *entity.BillingDocument
	Issuer   *entity.IssuerProfile
	Party    *entity.Party
	Items    []*entity.LineItem
	Totals   *domainbilling.Totals
}

// DocumentRenderer puerto del renderer: datos estructurados → bytes PDF.
// Un fallo del renderer es fatal para el envío.
type DocumentRenderer interface {
	Render(ctx context.Context, data *RenderData) ([]byte, error)
}
