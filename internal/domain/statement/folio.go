package statement

import (
	"fmt"
	"time"
)

// NewFolio folio legible derivado del instante de generación: "FOL-" + últimos 6 dígitos en ms.
// En reintentos por colisión agrega el número de intento.
func NewFolio(now time.Time, attempt int) string {
	base := fmt.Sprintf("FOL-%06d", now.UnixMilli()%1_000_000)
	if attempt <= 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
