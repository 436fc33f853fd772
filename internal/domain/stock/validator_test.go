package stock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/stock"
)

func ptr(v int64) *int64 { return &v }

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		min     *int64
		max     *int64
		wantErr bool
	}{
		{"ambos nil", nil, nil, false},
		{"solo mínimo", ptr(5), nil, false},
		{"solo máximo", nil, ptr(50), false},
		{"min menor que max", ptr(2), ptr(50), false},
		{"min igual a max", ptr(10), ptr(10), true},
		{"min mayor que max", ptr(60), ptr(50), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stock.ValidateThresholds(tt.min, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvariant)
				var viol *domain.InvariantViolationError
				require.True(t, errors.As(err, &viol))
				assert.Equal(t, domain.RuleThresholdOrder, viol.Rule)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, stock.ValidateQuantity(0))
	assert.NoError(t, stock.ValidateQuantity(100))

	err := stock.ValidateQuantity(-5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)
	var viol *domain.InvariantViolationError
	require.True(t, errors.As(err, &viol))
	assert.Equal(t, domain.RuleNegativeQty, viol.Rule)
}

func TestSameName_CaseInsensitive(t *testing.T) {
	assert.True(t, stock.SameName("Bodega Central", "bodega central"))
	assert.True(t, stock.SameName("  Bodega Central ", "BODEGA CENTRAL"))
	assert.False(t, stock.SameName("Bodega Central", "Bodega Norte"))
}
