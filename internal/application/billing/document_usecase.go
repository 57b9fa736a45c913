package billing

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/facturia/facturia-api/internal/application/dto"
	"github.com/facturia/facturia-api/internal/domain"
	domainbilling "github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/internal/domain/repository"
)

// TxRunner ejecuta una función con un DocumentRepository atado a una
// transacción (creación/edición/borrado de documento y líneas: ambos o ninguno).
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(docRepo repository.DocumentRepository) error) error
}

// DocumentUseCase casos de uso del ciclo de vida del documento: borradores,
// numeración, envío (draft → pending), pago y barrido de vencidos.
type DocumentUseCase struct {
	txRunner     TxRunner
	docRepo      repository.DocumentRepository
	partyRepo    repository.PartyRepository
	issuerRepo   repository.IssuerProfileRepository
	renderer     DocumentRenderer
	orchestrator *SubmitOrchestrator
	rnd          *rand.Rand
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner TxRunner,
	docRepo repository.DocumentRepository,
	partyRepo repository.PartyRepository,
	issuerRepo repository.IssuerProfileRepository,
	renderer DocumentRenderer,
	orchestrator *SubmitOrchestrator,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:     txRunner,
		docRepo:      docRepo,
		partyRepo:    partyRepo,
		issuerRepo:   issuerRepo,
		renderer:     renderer,
		orchestrator: orchestrator,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const dateLayout = "2006-01-02"

// CreateDraft crea un documento en draft con sus líneas y número asignado.
func (uc *DocumentUseCase) CreateDraft(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if in.PartyID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != entity.KindInvoice && in.Kind != entity.KindCreditNote {
		return nil, domain.ErrInvalidInput
	}
	party, err := uc.partyRepo.GetByID(in.PartyID)
	if err != nil || party == nil {
		return nil, domain.ErrNotFound
	}
	if party.UserID != userID {
		return nil, domain.ErrForbidden
	}
	issuer, err := uc.issuerRepo.GetByUserID(userID)
	if err != nil || issuer == nil {
		return nil, domain.NewError(domain.KindValidation, "perfil del emisor sin configurar", nil)
	}

	now := time.Now()
	issueDate := now
	if in.IssueDate != "" {
		if issueDate, err = time.Parse(dateLayout, in.IssueDate); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	var dueDate *time.Time
	if in.Kind == entity.KindInvoice && in.DueDate != "" {
		d, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		dueDate = &d
	}

	doc := &entity.BillingDocument{
		ID:        uuid.New().String(),
		UserID:    userID,
		PartyID:   in.PartyID,
		Kind:      in.Kind,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Status:    entity.StatusDraft,
		Notes:     in.Notes,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	items, totals, err := uc.buildLines(doc.ID, in.Items)
	if err != nil {
		return nil, err
	}
	doc.Subtotal, doc.TaxTotal, doc.Total = totals.Subtotal, totals.TaxTotal, totals.Total

	err = uc.txRunner.RunBilling(ctx, func(docRepo repository.DocumentRepository) error {
		number := in.Number
		if number == "" {
			// El número se asigna dentro de la tx para que la serie no deje huecos
			if number, err = uc.nextNumber(docRepo, issuer, userID, in.Kind, issueDate); err != nil {
				return err
			}
		}
		doc.Number = number
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		return docRepo.CreateLineItems(items)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc, party.Name, items), nil
}

// UpdateDraft edita un borrador: cabecera y líneas recreadas completas,
// guardado con CAS sobre version.
func (uc *DocumentUseCase) UpdateDraft(ctx context.Context, userID, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, domain.ErrNotDraft
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	partyName := ""
	if in.PartyID != "" && in.PartyID != doc.PartyID {
		party, err := uc.partyRepo.GetByID(in.PartyID)
		if err != nil || party == nil {
			return nil, domain.ErrNotFound
		}
		if party.UserID != userID {
			return nil, domain.ErrForbidden
		}
		doc.PartyID = in.PartyID
		partyName = party.Name
	}
	if in.Number != "" {
		doc.Number = in.Number // edición explícita, permitida solo en draft
	}
	doc.Notes = in.Notes
	if doc.Kind == entity.KindInvoice && in.DueDate != "" {
		d, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		doc.DueDate = &d
	}

	items, totals, err := uc.buildLines(doc.ID, in.Items)
	if err != nil {
		return nil, err
	}
	doc.Subtotal, doc.TaxTotal, doc.Total = totals.Subtotal, totals.TaxTotal, totals.Total
	doc.Version = in.Version
	doc.UpdatedAt = time.Now()

	err = uc.txRunner.RunBilling(ctx, func(docRepo repository.DocumentRepository) error {
		if err := docRepo.Update(doc); err != nil {
			return err
		}
		return docRepo.ReplaceLineItems(doc.ID, items)
	})
	if err != nil {
		return nil, err
	}
	doc.Version++
	return uc.toResponse(doc, partyName, items), nil
}

// DeleteDraft borra un borrador con sus líneas, atómicamente.
func (uc *DocumentUseCase) DeleteDraft(ctx context.Context, userID, id string) error {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return err
	}
	if !doc.IsDraft() {
		return domain.ErrNotDraft
	}
	return uc.txRunner.RunBilling(ctx, func(docRepo repository.DocumentRepository) error {
		return docRepo.Delete(id)
	})
}

// Get devuelve un documento con sus líneas.
func (uc *DocumentUseCase) Get(ctx context.Context, userID, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.docRepo.GetLineItems(id)
	if err != nil {
		return nil, err
	}
	partyName := ""
	if party, _ := uc.partyRepo.GetByID(doc.PartyID); party != nil {
		partyName = party.Name
	}
	return uc.toResponse(doc, partyName, items), nil
}

// List documentos del usuario (solo cabeceras).
func (uc *DocumentUseCase) List(ctx context.Context, userID string) ([]*dto.DocumentResponse, error) {
	docs, err := uc.docRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, uc.toResponse(doc, "", nil))
	}
	return out, nil
}

// GetStatus respuesta ligera para polling.
func (uc *DocumentUseCase) GetStatus(ctx context.Context, userID, id string) (*dto.DocumentStatusResponse, error) {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentStatusResponse{ID: doc.ID, Status: doc.Status, Number: doc.Number}, nil
}

// PreviewTotals recalcula los totales en vivo con la misma agregación (y el
// mismo redondeo por banda) que usa el envío: no existe una segunda vía de
// cálculo que pueda derivar un centavo.
func (uc *DocumentUseCase) PreviewTotals(in []dto.LineItemRequest) (*dto.TotalsResponse, error) {
	_, totals, err := uc.buildLines("", in)
	if err != nil {
		return nil, err
	}
	resp := &dto.TotalsResponse{
		Subtotal: totals.Subtotal,
		TaxTotal: totals.TaxTotal,
		Total:    totals.Total,
	}
	for _, g := range totals.Groups {
		resp.Groups = append(resp.Groups, dto.TaxGroupResponse{
			RateLabel: g.RateLabel,
			Category:  g.Category,
			Subtotal:  g.Subtotal,
			TaxAmount: g.TaxAmount,
		})
	}
	return resp, nil
}

// Send ejecuta la transición draft → pending: renderiza el artefacto, orquesta
// el envío y solo entonces avanza el estado. Si el almacenamiento del
// artefacto falla, el documento sigue en draft (estado y artefacto no quedan
// inconsistentes).
func (uc *DocumentUseCase) Send(ctx context.Context, userID, id string) (*dto.SendResponse, error) {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return nil, err
	}
	if !domainbilling.CanTransition(doc.Status, entity.StatusPending) {
		return nil, domain.ErrConflict
	}
	party, err := uc.partyRepo.GetByID(doc.PartyID)
	if err != nil || party == nil {
		return nil, domain.ErrNotFound
	}
	issuer, err := uc.issuerRepo.GetByUserID(userID)
	if err != nil || issuer == nil {
		return nil, domain.NewError(domain.KindValidation, "perfil del emisor sin configurar", nil)
	}
	items, err := uc.docRepo.GetLineItems(id)
	if err != nil {
		return nil, err
	}

	totals, err := domainbilling.Aggregate(items)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.Render(ctx, &RenderData{
		Document: doc, Issuer: issuer, Party: party, Items: items, Totals: totals,
	})
	if err != nil {
		// Fatal: sin artefacto no hay envío de ningún tipo ni avance de estado
		return nil, domain.NewError(domain.KindRender, "renderizar documento "+doc.Number, err)
	}

	outcome, err := uc.orchestrator.Submit(ctx, SubmitInput{
		Document: doc, Items: items, Party: party, Issuer: issuer, PDF: pdf,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.docRepo.UpdateStatus(id, entity.StatusDraft, entity.StatusPending); err != nil {
		return nil, err
	}
	return &dto.SendResponse{Status: entity.StatusPending, Outcome: outcome}, nil
}

// MarkPaid transición explícita pending|overdue → paid. Sin efectos laterales.
func (uc *DocumentUseCase) MarkPaid(ctx context.Context, userID, id string) error {
	doc, err := uc.ownedDocument(userID, id)
	if err != nil {
		return err
	}
	if !domainbilling.CanTransition(doc.Status, entity.StatusPaid) {
		return domain.ErrConflict
	}
	return uc.docRepo.UpdateStatus(id, doc.Status, entity.StatusPaid)
}

// SweepOverdue barrido idempotente: todo pending con vencimiento (solo fecha)
// anterior a hoy pasa a overdue en un update en bloque.
func (uc *DocumentUseCase) SweepOverdue(ctx context.Context) (int64, error) {
	return uc.docRepo.MarkOverdue(time.Now())
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *DocumentUseCase) ownedDocument(userID, id string) (*entity.BillingDocument, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil || doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

// buildLines valida las líneas, calcula importes y agrega totales. El parseo
// de la tasa ocurre aquí, en la frontera: aguas abajo viaja el valor tipado.
func (uc *DocumentUseCase) buildLines(documentID string, in []dto.LineItemRequest) ([]*entity.LineItem, *domainbilling.Totals, error) {
	items := make([]*entity.LineItem, 0, len(in))
	for i, line := range in {
		if line.Title == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		if _, err := domainbilling.ParseVATRate(line.VATRateLabel); err != nil {
			return nil, nil, err
		}
		items = append(items, &entity.LineItem{
			ID:           uuid.New().String(),
			DocumentID:   documentID,
			Position:     i + 1,
			Title:        line.Title,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Amount:       line.Quantity.Mul(line.UnitPrice),
			VATRateLabel: line.VATRateLabel,
		})
	}
	totals, err := domainbilling.Aggregate(items)
	if err != nil {
		return nil, nil, err
	}
	return items, totals, nil
}

// nextNumber asigna el siguiente número según la política del emisor.
// Las notas crédito conservan el esquema legacy de sufijo aleatorio.
func (uc *DocumentUseCase) nextNumber(docRepo repository.DocumentRepository, issuer *entity.IssuerProfile, userID, kind string, issueDate time.Time) (string, error) {
	prefix := issuer.Prefix
	if prefix == "" {
		prefix = "INV"
	}
	if kind == entity.KindCreditNote {
		return domainbilling.NextCreditNote(prefix, uc.rnd), nil
	}
	if issuer.NumberingMode == entity.NumberingDateBased {
		existing, err := docRepo.NumbersByPrefix(userID, prefix)
		if err != nil {
			return "", err
		}
		return domainbilling.NextDateBased(prefix, issueDate, existing), nil
	}
	last, err := docRepo.LastIssuedNumber(userID, kind)
	if err != nil {
		return "", err
	}
	return domainbilling.NextIncremental(prefix, last), nil
}

func (uc *DocumentUseCase) toResponse(doc *entity.BillingDocument, partyName string, items []*entity.LineItem) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:        doc.ID,
		PartyID:   doc.PartyID,
		PartyName: partyName,
		Kind:      doc.Kind,
		Number:    doc.Number,
		IssueDate: doc.IssueDate.Format(dateLayout),
		Status:    doc.Status,
		Notes:     doc.Notes,
		Subtotal:  doc.Subtotal,
		TaxTotal:  doc.TaxTotal,
		Total:     doc.Total,
		Version:   doc.Version,
	}
	if doc.DueDate != nil {
		resp.DueDate = doc.DueDate.Format(dateLayout)
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ID:           item.ID,
			Title:        item.Title,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
			VATRateLabel: item.VATRateLabel,
		})
	}
	return resp
}
