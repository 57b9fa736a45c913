package billing

import (
	"time"

	"github.com/facturia/facturia-api/internal/domain/entity"
)

// Transiciones permitidas del ciclo de vida. paid es terminal; nada regresa a
// draft ni de overdue a pending.
var transitions = map[string][]string{
	entity.StatusDraft:   {entity.StatusPending},
	entity.StatusPending: {entity.StatusPaid, entity.StatusOverdue},
	entity.StatusOverdue: {entity.StatusPaid},
	entity.StatusPaid:    {},
}

// CanTransition indica si la transición from → to está permitida.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// IsOverdue regla del barrido: un documento pending cuya fecha de vencimiento
// (solo fecha, ignorando la hora) es anterior a hoy pasa a overdue. El barrido
// es idempotente: un documento ya overdue no cumple el predicado.
func IsOverdue(doc *entity.BillingDocument, today time.Time) bool {
	if doc.Status != entity.StatusPending || doc.DueDate == nil {
		return false
	}
	due := dateOnly(*doc.DueDate)
	return due.Before(dateOnly(today))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
