package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// ParseVATRate — el parseo ocurre una sola vez en la frontera; estos tests
// fijan la precedencia: dígitos primero, centinelas después, error al final.
// ──────────────────────────────────────────────────────────────────────────────

func TestParseVATRate_PorcentajeEstandar(t *testing.T) {
	rate, err := billing.ParseVATRate("21%")
	require.NoError(t, err)
	assert.Equal(t, billing.CategoryStandard, rate.Category)
	assert.True(t, rate.Percentage.Equal(decimal.NewFromInt(21)),
		"la tasa \"21%%\" debe parsear al porcentaje 21")
}

func TestParseVATRate_SinSimboloDePorcentaje(t *testing.T) {
	rate, err := billing.ParseVATRate("6")
	require.NoError(t, err)
	assert.Equal(t, billing.CategoryStandard, rate.Category)
	assert.True(t, rate.Percentage.Equal(decimal.NewFromInt(6)))
}

func TestParseVATRate_CeroNumericoEsZero(t *testing.T) {
	// La precedencia numérica gana: "0%" es zero aunque exista el centinela
	rate, err := billing.ParseVATRate("0%")
	require.NoError(t, err)
	assert.Equal(t, billing.CategoryZero, rate.Category)
	assert.True(t, rate.Percentage.IsZero())
}

func TestParseVATRate_CentinelaExempt(t *testing.T) {
	for _, label := range []string{"exempt", "Exempt", "EXEMPT"} {
		rate, err := billing.ParseVATRate(label)
		require.NoError(t, err, "el centinela %q debe ser válido", label)
		assert.Equal(t, billing.CategoryExempt, rate.Category)
	}
}

func TestParseVATRate_CentinelaZero(t *testing.T) {
	rate, err := billing.ParseVATRate("Zero")
	require.NoError(t, err)
	assert.Equal(t, billing.CategoryZero, rate.Category)
}

func TestParseVATRate_EtiquetaIlegibleEsError(t *testing.T) {
	_, err := billing.ParseVATRate("reducido")
	require.Error(t, err, "una etiqueta sin dígitos ni centinela debe rechazarse")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestParseVATRate_IgnoraEspacios(t *testing.T) {
	rate, err := billing.ParseVATRate("  12% ")
	require.NoError(t, err)
	assert.True(t, rate.Percentage.Equal(decimal.NewFromInt(12)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Classify — misma precedencia que ParseVATRate pero con default seguro:
// una etiqueta ilegible se clasifica standard, nunca rompe el envío.
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_Precedencia(t *testing.T) {
	cases := []struct {
		label    string
		expected string
	}{
		{"0", billing.CategoryZero},          // numérico cero gana a todo
		{"21%", billing.CategoryStandard},    // numérico positivo
		{"exempt", billing.CategoryExempt},   // centinela
		{"zero", billing.CategoryZero},       // centinela
		{"especial", billing.CategoryStandard}, // default seguro
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, billing.Classify(tc.label),
			"clasificación incorrecta para %q", tc.label)
	}
}
