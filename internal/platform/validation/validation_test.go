package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_CollectAndUnwrap(t *testing.T) {
	var es Errors
	es.Required("name", " ")
	es.Required("email", "a@b.c")
	es.Add("phone", "must have 7 to 10 digits")

	err := es.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, map[string]string{"name": "required", "phone": "must have 7 to 10 digits"}, Fields(err))
}

func TestErrors_EmptyIsNil(t *testing.T) {
	var es Errors
	assert.NoError(t, es.Err())
}

func TestFieldError(t *testing.T) {
	err := error(Field("date", "invalid"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, map[string]string{"date": "invalid"}, Fields(err))
	assert.Equal(t, "date: invalid", err.Error())
}
