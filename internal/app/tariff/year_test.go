package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinancialYearOf(t *testing.T) {
	// 1404 год начался 21 марта 2025
	assert.Equal(t, 1404, FinancialYearOf(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1404, FinancialYearOf(time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC)))

	// до Новруза — ещё 1403
	assert.Equal(t, 1403, FinancialYearOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1403, FinancialYearOf(time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 1405, FinancialYearOf(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
}
