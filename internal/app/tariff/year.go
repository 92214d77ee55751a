package tariff

import (
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// FinancialYearOf возвращает финансовый год для даты расчёта.
// Тарифная книга ведётся по иранскому (солнечному) календарю,
// поэтому год берётся из него (например, 2025-06-01 → 1404).
func FinancialYearOf(t time.Time) int {
	return ptime.New(t).Year()
}
