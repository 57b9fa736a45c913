package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste la cabecera del documento.
func (r *DocumentRepo) Create(doc *entity.BillingDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO billing_documents (id, user_id, party_id, kind, number, issue_date, due_date, status, notes, subtotal, tax_total, total, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.UserID, doc.PartyID, doc.Kind, doc.Number,
		doc.IssueDate, doc.DueDate, doc.Status, nullIfEmpty(doc.Notes),
		doc.Subtotal, doc.TaxTotal, doc.Total, doc.Version,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de documento duplicado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// CreateLineItems persiste las líneas del documento.
func (r *DocumentRepo) CreateLineItems(items []*entity.LineItem) error {
	query := `
		INSERT INTO line_items (id, document_id, position, title, quantity, unit_price, amount, vat_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.DocumentID, item.Position, item.Title,
			item.Quantity, item.UnitPrice, item.Amount, item.VATRateLabel,
		)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

// Update actualiza la cabecera con compare-and-swap sobre version.
func (r *DocumentRepo) Update(doc *entity.BillingDocument) error {
	query := `
		UPDATE billing_documents
		SET party_id   = $2,
		    number     = $3,
		    due_date   = $4,
		    notes      = $5,
		    subtotal   = $6,
		    tax_total  = $7,
		    total      = $8,
		    version    = version + 1,
		    updated_at = $9
		WHERE id = $1 AND version = $10`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.PartyID, doc.Number, doc.DueDate, nullIfEmpty(doc.Notes),
		doc.Subtotal, doc.TaxTotal, doc.Total, doc.UpdatedAt, doc.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de documento duplicado", domain.ErrDuplicate)
		}
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Otro escritor ganó la carrera (o el documento ya no existe)
		return domain.ErrConflict
	}
	return nil
}

// UpdateStatus cambia el estado solo si el actual coincide con from.
func (r *DocumentRepo) UpdateStatus(id, from, to string) error {
	query := `
		UPDATE billing_documents
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// GetByID obtiene la cabecera de un documento.
func (r *DocumentRepo) GetByID(id string) (*entity.BillingDocument, error) {
	query := `
		SELECT id, user_id, party_id, kind, number, issue_date, due_date,
		       status, COALESCE(notes, ''), subtotal, tax_total, total, version,
		       created_at, updated_at
		FROM billing_documents WHERE id = $1`
	var doc entity.BillingDocument
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&doc.ID, &doc.UserID, &doc.PartyID, &doc.Kind, &doc.Number,
		&doc.IssueDate, &doc.DueDate, &doc.Status, &doc.Notes,
		&doc.Subtotal, &doc.TaxTotal, &doc.Total, &doc.Version,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// ListByUser devuelve las cabeceras del usuario, más recientes primero.
func (r *DocumentRepo) ListByUser(userID string) ([]*entity.BillingDocument, error) {
	query := `
		SELECT id, user_id, party_id, kind, number, issue_date, due_date,
		       status, COALESCE(notes, ''), subtotal, tax_total, total, version,
		       created_at, updated_at
		FROM billing_documents WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingDocument
	for rows.Next() {
		var doc entity.BillingDocument
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.PartyID, &doc.Kind, &doc.Number,
			&doc.IssueDate, &doc.DueDate, &doc.Status, &doc.Notes,
			&doc.Subtotal, &doc.TaxTotal, &doc.Total, &doc.Version,
			&doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &doc)
	}
	return list, rows.Err()
}

// GetLineItems obtiene las líneas de un documento en su orden declarado.
func (r *DocumentRepo) GetLineItems(documentID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, document_id, position, title, quantity, unit_price, amount, vat_rate
		FROM line_items WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.Position, &item.Title,
			&item.Quantity, &item.UnitPrice, &item.Amount, &item.VATRateLabel,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// ReplaceLineItems borra y recrea todas las líneas (edición wholesale).
func (r *DocumentRepo) ReplaceLineItems(documentID string, items []*entity.LineItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM line_items WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	return r.CreateLineItems(items)
}

// Delete elimina cabecera y líneas.
func (r *DocumentRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM line_items WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM billing_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastIssuedNumber número del documento creado más recientemente del emisor
// para un kind. "" si no hay ninguno.
func (r *DocumentRepo) LastIssuedNumber(userID, kind string) (string, error) {
	query := `
		SELECT number FROM billing_documents
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC LIMIT 1`
	var number string
	err := r.q.QueryRow(context.Background(), query, userID, kind).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last issued number: %w", err)
	}
	return number, nil
}

// NumbersByPrefix números existentes del emisor que comienzan con prefix.
func (r *DocumentRepo) NumbersByPrefix(userID, prefix string) ([]string, error) {
	query := `
		SELECT number FROM billing_documents
		WHERE user_id = $1 AND number LIKE $2 || '%'`
	rows, err := r.q.Query(context.Background(), query, userID, prefix)
	if err != nil {
		return nil, fmt.Errorf("numbers by prefix: %w", err)
	}
	defer rows.Close()
	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// MarkOverdue pasa en bloque a overdue todo pending vencido antes de today.
// La comparación es solo fecha, así el barrido es idempotente dentro del día.
func (r *DocumentRepo) MarkOverdue(today time.Time) (int64, error) {
	query := `
		UPDATE billing_documents
		SET status = 'overdue', updated_at = now()
		WHERE status = 'pending' AND due_date IS NOT NULL AND due_date::date < $1::date`
	tag, err := r.q.Exec(context.Background(), query, today)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}
