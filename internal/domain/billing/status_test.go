package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/facturia/facturia-api/internal/domain/billing"
	"github.com/facturia/facturia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados — draft → pending → (paid | overdue → paid); paid terminal.
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Matriz(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{entity.StatusDraft, entity.StatusPending, true},
		{entity.StatusPending, entity.StatusPaid, true},
		{entity.StatusPending, entity.StatusOverdue, true},
		{entity.StatusOverdue, entity.StatusPaid, true},

		{entity.StatusDraft, entity.StatusPaid, false},
		{entity.StatusDraft, entity.StatusOverdue, false},
		{entity.StatusPending, entity.StatusDraft, false},
		{entity.StatusOverdue, entity.StatusPending, false},
		{entity.StatusOverdue, entity.StatusDraft, false},
		{entity.StatusPaid, entity.StatusPending, false},
		{entity.StatusPaid, entity.StatusOverdue, false},
		{entity.StatusPaid, entity.StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, billing.CanTransition(tc.from, tc.to),
			"transición %s → %s", tc.from, tc.to)
	}
}

func TestIsTerminal_SoloPaid(t *testing.T) {
	assert.True(t, billing.IsTerminal(entity.StatusPaid))
	assert.False(t, billing.IsTerminal(entity.StatusDraft))
	assert.False(t, billing.IsTerminal(entity.StatusPending))
	assert.False(t, billing.IsTerminal(entity.StatusOverdue))
}

// ──────────────────────────────────────────────────────────────────────────────
// IsOverdue — comparación solo de fecha, idempotente dentro del barrido.
// ──────────────────────────────────────────────────────────────────────────────

func pendingDoc(due time.Time) *entity.BillingDocument {
	return &entity.BillingDocument{Status: entity.StatusPending, DueDate: &due}
}

func TestIsOverdue_VencidoAyer(t *testing.T) {
	today := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
	doc := pendingDoc(today.AddDate(0, 0, -1))
	assert.True(t, billing.IsOverdue(doc, today))
}

func TestIsOverdue_VenceManana(t *testing.T) {
	today := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
	doc := pendingDoc(today.AddDate(0, 0, 1))
	assert.False(t, billing.IsOverdue(doc, today),
		"un documento que vence mañana no está vencido")
}

func TestIsOverdue_VenceHoyNoEstaVencido(t *testing.T) {
	// La comparación es estricta sobre la fecha: vencer hoy no es estar vencido,
	// aunque la hora del vencimiento ya haya pasado.
	today := time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC)
	due := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	assert.False(t, billing.IsOverdue(pendingDoc(due), today))
}

func TestIsOverdue_SoloAplicaAPending(t *testing.T) {
	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, -5)

	for _, status := range []string{entity.StatusDraft, entity.StatusOverdue, entity.StatusPaid} {
		doc := &entity.BillingDocument{Status: status, DueDate: &due}
		assert.False(t, billing.IsOverdue(doc, today),
			"el barrido no toca documentos en estado %s", status)
	}
}

func TestIsOverdue_SinVencimiento(t *testing.T) {
	today := time.Now()
	doc := &entity.BillingDocument{Status: entity.StatusPending}
	assert.False(t, billing.IsOverdue(doc, today))
}

// Idempotencia del barrido: tras marcar overdue, el predicado deja de cumplirse.
func TestIsOverdue_BarridoIdempotente(t *testing.T) {
	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	doc := pendingDoc(today.AddDate(0, 0, -1))

	assert.True(t, billing.IsOverdue(doc, today))
	doc.Status = entity.StatusOverdue
	assert.False(t, billing.IsOverdue(doc, today),
		"un documento ya overdue no vuelve a marcarse")
}
