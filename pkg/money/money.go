// Package money formatea importes y fechas para pantallas y comprobantes
// con la convención local (Rupiah indonesia, día/mes/año).
package money

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah formatea un importe sin decimales y con separador de miles local.
// Ej: 35000 → "Rp 35.000".
func FormatRupiah(v decimal.Decimal) string {
	f, _ := v.Round(0).Float64()
	return printer.Sprintf("Rp %v", number.Decimal(f, number.MaxFractionDigits(0)))
}

// FormatDate formatea una fecha ISO (YYYY-MM-DD o RFC 3339) como DD/MM/YYYY.
// Si no se puede interpretar devuelve el valor original.
func FormatDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}
