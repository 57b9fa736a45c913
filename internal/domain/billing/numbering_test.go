package billing_test

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/facturia/facturia-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// NextIncremental — serie secuencial sin huecos con padding de 4 dígitos.
// ──────────────────────────────────────────────────────────────────────────────

func TestNextIncremental_SerieNuevaArrancaEnUno(t *testing.T) {
	assert.Equal(t, "INV-0001", billing.NextIncremental("INV", ""))
}

func TestNextIncremental_Incrementa(t *testing.T) {
	assert.Equal(t, "INV-0002", billing.NextIncremental("INV", "INV-0001"))
	assert.Equal(t, "INV-0100", billing.NextIncremental("INV", "INV-0099"))
}

func TestNextIncremental_PaddingSeConservaMasAllaDeMil(t *testing.T) {
	assert.Equal(t, "INV-10000", billing.NextIncremental("INV", "INV-9999"),
		"después de 9999 el número crece sin truncarse")
}

func TestNextIncremental_SufijoNoNumericoReinicia(t *testing.T) {
	// Un último número ilegible no debe romper la serie: arranca en 1
	assert.Equal(t, "INV-0001", billing.NextIncremental("INV", "INV-legacy"))
}

func TestNextIncremental_PrefijoConGuiones(t *testing.T) {
	// Solo cuenta el sufijo tras el último guion
	assert.Equal(t, "FAC-2026-0043", billing.NextIncremental("FAC-2026", "FAC-2026-0042"))
}

// ──────────────────────────────────────────────────────────────────────────────
// NextDateBased — prefijo + fecha + incremento diario.
// ──────────────────────────────────────────────────────────────────────────────

func TestNextDateBased_PrimerNumeroDelDia(t *testing.T) {
	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	got := billing.NextDateBased("INV", day, nil)
	assert.Equal(t, "INV-20260315/1", got)
}

func TestNextDateBased_IncrementaSobreElMaximoDelDia(t *testing.T) {
	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	existing := []string{"INV-20260315/1", "INV-20260315/3", "INV-20260314/9"}
	got := billing.NextDateBased("INV", day, existing)
	assert.Equal(t, "INV-20260315/4", got,
		"el incremento es max+1 del día, los otros días no cuentan")
}

func TestNextDateBased_IgnoraNumerosDeOtroPrefijo(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	existing := []string{"FAC-20260315/7"}
	assert.Equal(t, "INV-20260315/1", billing.NextDateBased("INV", day, existing))
}

// ──────────────────────────────────────────────────────────────────────────────
// NextCreditNote — esquema legacy: sufijo aleatorio de 4 dígitos.
// ──────────────────────────────────────────────────────────────────────────────

func TestNextCreditNote_Forma(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pattern := regexp.MustCompile(`^CN-\d{4}$`)
	for i := 0; i < 50; i++ {
		number := billing.NextCreditNote("CN", rnd)
		assert.Regexp(t, pattern, number,
			"las notas crédito llevan sufijo aleatorio de 4 dígitos")
	}
}

func TestNextCreditNote_Determinista(t *testing.T) {
	a := billing.NextCreditNote("CN", rand.New(rand.NewSource(7)))
	b := billing.NextCreditNote("CN", rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b, "misma semilla, mismo número")
}
