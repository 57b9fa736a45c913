package repository

import (
	"time"

	"github.com/facturia/facturia-api/internal/domain/entity"
)

// DocumentRepository puerto de persistencia para BillingDocument y sus líneas.
type DocumentRepository interface {
	Create(doc *entity.BillingDocument) error
	CreateLineItems(items []*entity.LineItem) error
	// Update actualiza la cabecera con compare-and-swap sobre version;
	// retorna domain.ErrConflict si otro escritor ganó la carrera.
	Update(doc *entity.BillingDocument) error
	// UpdateStatus cambia el estado solo si el actual coincide con from.
	UpdateStatus(id, from, to string) error
	GetByID(id string) (*entity.BillingDocument, error)
	ListByUser(userID string) ([]*entity.BillingDocument, error)
	GetLineItems(documentID string) ([]*entity.LineItem, error)
	// ReplaceLineItems borra y recrea todas las líneas (edición wholesale).
	ReplaceLineItems(documentID string, items []*entity.LineItem) error
	// Delete elimina cabecera y líneas. El caller garantiza estado draft y
	// ejecuta dentro de una transacción (ambos o ninguno).
	Delete(id string) error
	// LastIssuedNumber número del documento creado más recientemente del
	// emisor para un kind ("" si no hay ninguno).
	LastIssuedNumber(userID, kind string) (string, error)
	// NumbersByPrefix números existentes del emisor que comienzan con prefix.
	NumbersByPrefix(userID, prefix string) ([]string, error)
	// MarkOverdue pasa en bloque a overdue todo pending con vencimiento
	// anterior a today (solo fecha). Devuelve cuántos cambió.
	MarkOverdue(today time.Time) (int64, error)
}
