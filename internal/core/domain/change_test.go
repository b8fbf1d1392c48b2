package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/menucache/internal/core/domain"
)

func TestParseChangeType(t *testing.T) {
	ct, ok := domain.ParseChangeType(" insert ")
	require.True(t, ok)
	assert.Equal(t, domain.ChangeInsert, ct)

	ct, ok = domain.ParseChangeType("DELETE")
	require.True(t, ok)
	assert.Equal(t, "DELETE", ct.String())

	_, ok = domain.ParseChangeType("UPSERT")
	assert.False(t, ok)
}

func TestChangeEvent_Validate(t *testing.T) {
	item := &domain.MenuItem{ID: "1", Name: "Adobo"}

	tests := []struct {
		name    string
		ev      domain.ChangeEvent
		wantErr error
	}{
		{"insert", domain.ChangeEvent{Type: domain.ChangeInsert, New: item}, nil},
		{"update", domain.ChangeEvent{Type: domain.ChangeUpdate, New: item}, nil},
		{"delete", domain.ChangeEvent{Type: domain.ChangeDelete, OldID: "1"}, nil},
		{"insert without item", domain.ChangeEvent{Type: domain.ChangeInsert}, domain.ErrInvalidChangeEvent},
		{"delete without id", domain.ChangeEvent{Type: domain.ChangeDelete}, domain.ErrInvalidChangeEvent},
		{"unknown type", domain.ChangeEvent{New: item}, domain.ErrInvalidChangeEvent},
		{
			"update with bad item",
			domain.ChangeEvent{Type: domain.ChangeUpdate, New: &domain.MenuItem{ID: "1", Price: -2}},
			domain.ErrInvalidPrice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChangeEvent_TargetID(t *testing.T) {
	assert.Equal(t, domain.ItemID("7"), domain.ChangeEvent{New: &domain.MenuItem{ID: "7"}}.TargetID())
	assert.Equal(t, domain.ItemID("9"), domain.ChangeEvent{OldID: "9"}.TargetID())
}
