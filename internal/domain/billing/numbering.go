package billing

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// NextIncremental genera el siguiente número secuencial: prefijo + "-" +
// secuencia con padding de ceros. lastNumber es el número emitido más reciente
// del emisor ("" si no existe: la secuencia arranca en 1, sin huecos).
func NextIncremental(prefix, lastNumber string) string {
	seq := 1
	if suffix := numericSuffix(lastNumber); suffix != "" {
		if n, err := strconv.Atoi(suffix); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// NextDateBased genera prefijo + "-" + YYYYMMDD + "/" + incremento diario.
// existing son los números ya emitidos del emisor; el incremento es el menor
// entero mayor que el máximo existente para el prefijo de esa fecha (inicia en 1).
func NextDateBased(prefix string, day time.Time, existing []string) string {
	datePrefix := fmt.Sprintf("%s-%s/", prefix, day.Format("20060102"))
	max := 0
	for _, number := range existing {
		rest, ok := strings.CutPrefix(number, datePrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", datePrefix, max+1)
}

// NextCreditNote numeración legacy de notas crédito: sufijo aleatorio de 4
// dígitos, no secuencial.
// TODO: unificar con la política de numeración del emisor cuando se decida
// cómo reconciliar las series de facturas y notas crédito.
func NextCreditNote(prefix string, rnd *rand.Rand) string {
	return fmt.Sprintf("%s-%04d", prefix, rnd.Intn(10000))
}

// numericSuffix devuelve el sufijo numérico tras el último '-' ("" si no hay).
func numericSuffix(number string) string {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return ""
	}
	suffix := number[idx+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return suffix
}
