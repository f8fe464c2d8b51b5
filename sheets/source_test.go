package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestToStrings(t *testing.T) {
	got := ToStrings([][]interface{}{
		{"Serial", "Area"},
		{"SN001", 12.5, nil, true},
		{},
	})

	assert.Equal(t, [][]string{
		{"Serial", "Area"},
		{"SN001", "12.5", "", "true"},
		{},
	}, got)
}

func TestToStrings_Empty(t *testing.T) {
	assert.Empty(t, ToStrings(nil))
}

func TestNewGoogleSource_RequiresCredentials(t *testing.T) {
	src, err := NewGoogleSource(context.Background(), Config{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, src)
}
