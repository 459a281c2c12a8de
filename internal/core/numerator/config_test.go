package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

func TestConfig_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	annual := DefaultConfig(id.New(), entity.DocumentTypeInvoice, "FAC")
	assert.Equal(t, "FAC-2026-0001", annual.Format(now, 1))
	assert.Equal(t, "FAC-2026-0042", annual.Format(now, 42))
	assert.Equal(t, "FAC-2026-12345", annual.Format(now, 12345))

	continuous := annual
	continuous.ResetAnnually = false
	assert.Equal(t, "FAC-0007", continuous.Format(now, 7))
}

func TestConfig_FormatDefaultsPadWidth(t *testing.T) {
	cfg := Config{Prefix: "DEV", ResetAnnually: false}
	assert.Equal(t, "DEV-0001", cfg.Format(time.Now(), 1))
}

func TestConfig_PeriodYear(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	cfg := DefaultConfig(id.New(), entity.DocumentTypeQuote, "DEV")
	assert.Equal(t, 2026, cfg.PeriodYear(now))

	cfg.ResetAnnually = false
	assert.Equal(t, 0, cfg.PeriodYear(now))
}
