package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AzizBrinis/invoice-app-sub003/internal/core/entity"
	"github.com/AzizBrinis/invoice-app-sub003/internal/core/id"
)

type mockDocument struct {
	entity.Document
	ClientID id.ID  `db:"client_id" json:"clientId"`
	Note     string `db:"note" json:"note"`
	Skipped  string `db:"-" json:"skipped"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "created_by", "updated_by",
		"number", "date", "status", "owner_id", "currency", "comment",
		"client_id", "note",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skipped")
}

func TestExtractDBColumns_Cached(t *testing.T) {
	first := ExtractDBColumns[mockDocument]()
	second := ExtractDBColumns[mockDocument]()

	assert.Equal(t, first, second)
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDocument{
		Document: entity.Document{
			BaseDocument: entity.BaseDocument{
				BaseEntity: entity.BaseEntity{
					ID:      id.New(),
					Version: 5,
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
			Number:   "FAC-2026-0001",
			Status:   entity.StatusDraft,
			OwnerID:  id.New(),
			Currency: "TND",
		},
		ClientID: id.New(),
		Note:     "test note",
		Skipped:  "never stored",
	}

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "FAC-2026-0001", m["number"])
	assert.Equal(t, entity.StatusDraft, m["status"])
	assert.Equal(t, doc.OwnerID, m["owner_id"])
	assert.Equal(t, doc.ClientID, m["client_id"])
	assert.Equal(t, "test note", m["note"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "skipped")
}

func TestStructToMap_PointerInput(t *testing.T) {
	doc := &mockDocument{Note: "via pointer"}

	m := StructToMap(doc)
	assert.Equal(t, "via pointer", m["note"])
}
