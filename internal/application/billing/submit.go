package billing

import (
	"context"
	"fmt"

	"github.com/facturia/facturia-api/internal/application/dto"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/pkg/logger"
)

// SubmissionOutcome resultado del envío, devuelto al caller y no persistido:
// solo el estado del documento y el artefacto almacenado reflejan el desenlace.
// networkSubmitted=false + emailSent=true con NetworkError es éxito parcial,
// distinguible del fallo total (error de retorno).
type SubmissionOutcome = dto.SubmissionOutcome

// SubmitInput precondiciones del envío: todo debe estar presente antes de
// cualquier llamada externa.
type SubmitInput struct {
	Document *entity.BillingDocument
	Items    []*entity.LineItem
	Party    *entity.Party
	Issuer   *entity.IssuerProfile
	PDF      []byte // artefacto ya renderizado
}

// SubmitOrchestrator decide la vía de envío (red de intercambio o email),
// persiste el artefacto y reconcilia el desenlace:
//
//	elegibilidad → (payload → access point) → artefacto → email
//
// Sin política de reintentos: un fallo de red cae inmediatamente a email.
type SubmitOrchestrator struct {
	formatter *Formatter
	gateway   NetworkGateway
	store     ArtifactStore
	email     EmailGateway
	log       *logger.Logger
}

// NewSubmitOrchestrator construye el orquestador con sus puertos.
func NewSubmitOrchestrator(
	formatter *Formatter,
	gateway NetworkGateway,
	store ArtifactStore,
	email EmailGateway,
	log *logger.Logger,
) *SubmitOrchestrator {
	return &SubmitOrchestrator{formatter: formatter, gateway: gateway, store: store, email: email, log: log}
}

// ArtifactPath ubicación determinística del artefacto: una ruta fija por
// documento, nunca versionada.
func ArtifactPath(doc *entity.BillingDocument) string {
	if doc.Kind == entity.KindCreditNote {
		return doc.ID + "/credit-note.pdf"
	}
	return doc.ID + "/invoice.pdf"
}

// Submit ejecuta el envío. Devuelve error solo ante fallo total: precondición
// incumplida, escritura del artefacto fallida, o email fallido cuando era la
// única vía de entrega. El éxito parcial (red caída, email entregado) se
// reporta en el outcome, no como error.
func (o *SubmitOrchestrator) Submit(ctx context.Context, in SubmitInput) (*SubmissionOutcome, error) {
	// 0. Precondiciones — antes de cualquier llamada externa
	switch {
	case in.Document == nil:
		return nil, domain.NewError(domain.KindValidation, "documento requerido", nil)
	case in.Party == nil:
		return nil, domain.NewError(domain.KindValidation, "contraparte requerida", nil)
	case in.Issuer == nil:
		return nil, domain.NewError(domain.KindValidation, "perfil del emisor requerido", nil)
	case len(in.Items) == 0:
		return nil, domain.NewError(domain.KindValidation, "el documento no tiene líneas", nil)
	case len(in.PDF) == 0:
		return nil, domain.NewError(domain.KindValidation, "artefacto PDF requerido", nil)
	case in.Party.Email == "":
		return nil, domain.NewError(domain.KindValidation, "la contraparte no tiene email", nil)
	}

	outcome := &SubmissionOutcome{}
	log := o.log.With().Str("document_id", in.Document.ID).Str("number", in.Document.Number).Logger()

	// 1. Vía de red — solo si ambas partes están registradas en la red
	if in.Issuer.NetworkRegistrationID != "" && in.Party.NetworkRegistrationID != "" {
		if err := o.submitToNetwork(ctx, in); err != nil {
			// No fatal: cae a email como éxito parcial
			outcome.NetworkError = err.Error()
			log.Warn().Err(err).Msg("envío por red fallido, cayendo a email")
		} else {
			outcome.NetworkSubmitted = true
			log.Info().Msg("documento aceptado por la red de intercambio")
		}
	}

	// 2. Artefacto — upsert en ruta determinística (reintentos no duplican)
	path := ArtifactPath(in.Document)
	if err := o.store.Put(ctx, path, in.PDF); err != nil {
		return nil, domain.NewError(domain.KindStorage, "persistir artefacto "+path, err)
	}
	if url, ok := o.store.GetURL(ctx, path); ok {
		outcome.ArtifactURL = url
	}

	// 3. Email — entrega directa, o confirmación con adjunto si la red ya aceptó
	msg := EmailMessage{
		RecipientName:  in.Party.Name,
		RecipientEmail: in.Party.Email,
		DocumentNumber: in.Document.Number,
		IssuerName:     in.Issuer.Name,
		ArtifactURL:    outcome.ArtifactURL,
		Attachment:     in.PDF,
		AttachmentName: attachmentName(in.Document),
		TermsURL:       in.Issuer.TermsURL,
		CCEmail:        in.Issuer.Email,
	}
	if err := o.email.Send(ctx, msg); err != nil {
		outcome.EmailError = err.Error()
		if !outcome.NetworkSubmitted {
			// Email era la única vía de entrega: fallo total
			return outcome, domain.NewError(domain.KindEmail, "enviar email de "+in.Document.Number, err)
		}
		log.Warn().Err(err).Msg("email de confirmación fallido (documento ya entregado por red)")
	} else {
		outcome.EmailSent = true
	}

	return outcome, nil
}

// submitToNetwork resuelve ruteo, arma el payload y lo entrega al access point.
func (o *SubmitOrchestrator) submitToNetwork(ctx context.Context, in SubmitInput) error {
	payload, err := o.formatter.Build(ctx, in.Document, in.Items, in.Party, in.Issuer)
	if err != nil {
		return err
	}
	if len(payload.Routing) == 0 {
		return fmt.Errorf("sin identificadores de ruteo para %q", in.Party.Name)
	}
	result, err := o.gateway.Submit(ctx, payload)
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("access point rechazó el documento: %s", result.Body)
	}
	return nil
}

func attachmentName(doc *entity.BillingDocument) string {
	if doc.Kind == entity.KindCreditNote {
		return "credit-note-" + doc.Number + ".pdf"
	}
	return "invoice-" + doc.Number + ".pdf"
}
