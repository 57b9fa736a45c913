// Package billing contiene el núcleo puro de facturación: parsing de tasas de
// IVA, agregación de impuestos por banda, numeración de documentos y la máquina
// de estados del ciclo de vida.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/facturia/facturia-api/internal/domain"
)

// Categorías fiscales estandarizadas (las exige el esquema de la red de intercambio).
const (
	CategoryStandard = "standard"
	CategoryZero     = "zero"
	CategoryExempt   = "exempt"
)

// VATRate tasa de IVA tipada, parseada una sola vez en la frontera de entrada.
// Downstream (agregación, clasificación, formateo) opera sobre este valor y no
// sobre el string crudo.
type VATRate struct {
	Category   string          // standard | zero | exempt
	Percentage decimal.Decimal // 0 para zero y exempt
}

// Etiquetas centinela reconocidas además de los porcentajes numéricos.
const (
	sentinelExempt = "exempt"
	sentinelZero   = "zero"
)

// ParseVATRate parsea una etiqueta de tasa ("21%", "0", "Exempt", "Zero").
// Una etiqueta sin dígitos que no sea centinela es inválida: se rechaza con
// error de validación, nunca se coacciona a cero.
func ParseVATRate(label string) (VATRate, error) {
	trimmed := strings.TrimSpace(label)
	if digits := digitsOf(trimmed); digits != "" {
		pct, err := decimal.NewFromString(digits)
		if err != nil {
			return VATRate{}, domain.NewError(domain.KindValidation, "tasa de IVA ilegible: "+label, err)
		}
		if pct.IsZero() {
			return VATRate{Category: CategoryZero}, nil
		}
		return VATRate{Category: CategoryStandard, Percentage: pct}, nil
	}
	switch {
	case strings.EqualFold(trimmed, sentinelExempt):
		return VATRate{Category: CategoryExempt}, nil
	case strings.EqualFold(trimmed, sentinelZero):
		return VATRate{Category: CategoryZero}, nil
	}
	return VATRate{}, domain.NewError(domain.KindValidation, "tasa de IVA desconocida: "+label, nil)
}

// Classify clasifica una etiqueta en su categoría fiscal. Precedencia:
// numérica == 0 → zero; numérica > 0 → standard; centinela "exempt" → exempt;
// centinela "zero" → zero; cualquier otra cosa → standard (default seguro).
// Este orden determina la categoría enviada a la red; los validadores del
// receptor rechazan documentos mal categorizados.
func Classify(label string) string {
	rate, err := ParseVATRate(label)
	if err != nil {
		return CategoryStandard
	}
	return rate.Category
}

// digitsOf devuelve solo los dígitos de s (el parseo legacy descarta todo lo demás).
func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
