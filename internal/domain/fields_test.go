package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsString(t *testing.T) {
	f := Fields{"name": "Ring", "price": 12.5}

	s, ok := f.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Ring", s)

	_, ok = f.String("price")
	assert.False(t, ok)

	_, ok = f.String("missing")
	assert.False(t, ok)
}

func TestFieldsStrings(t *testing.T) {
	f := Fields{
		"typed":   []string{"a", "b"},
		"decoded": []any{"c", "d"},
		"mixed":   []any{"e", 1},
	}

	got, ok := f.Strings("typed")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = f.Strings("decoded")
	assert.True(t, ok)
	assert.Equal(t, []string{"c", "d"}, got)

	_, ok = f.Strings("mixed")
	assert.False(t, ok)
}

func TestFieldsUUID(t *testing.T) {
	id := uuid.New()
	f := Fields{"category": id.String(), "bad": "nope"}

	got, err := f.UUID("category")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = f.UUID("bad")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.UUID("missing")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFieldsFloat(t *testing.T) {
	f := Fields{"json": 19.99, "form": "25.50", "text": "abc"}

	v, ok := f.Float("json")
	assert.True(t, ok)
	assert.InDelta(t, 19.99, v, 1e-9)

	v, ok = f.Float("form")
	assert.True(t, ok)
	assert.InDelta(t, 25.50, v, 1e-9)

	_, ok = f.Float("text")
	assert.False(t, ok)
}
