package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcheck-dashboard/internal/platform/validation"
)

func TestForm_Validate(t *testing.T) {
	p, err := Form{FirstName: " Ana ", LastName: "Gómez", Email: "ana@mail.com", Phone: "1155554444"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, Payload{FirstName: "Ana", LastName: "Gómez", Email: "ana@mail.com", Phone: 1155554444}, p)
}

func TestForm_ValidateRejects(t *testing.T) {
	cases := map[string]struct {
		form  Form
		field string
	}{
		"missing last name": {Form{FirstName: "Ana", Email: "a@b.c", Phone: "1234567"}, "lastName"},
		"bad email":         {Form{FirstName: "Ana", LastName: "G", Email: "nope", Phone: "1234567"}, "email"},
		"short phone":       {Form{FirstName: "Ana", LastName: "G", Email: "a@b.c", Phone: "999999"}, "phone"},
		"long phone":        {Form{FirstName: "Ana", LastName: "G", Email: "a@b.c", Phone: "10000000000"}, "phone"},
		"non numeric phone": {Form{FirstName: "Ana", LastName: "G", Email: "a@b.c", Phone: "11-5555"}, "phone"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.form.Validate()
			require.ErrorIs(t, err, validation.ErrInvalidInput)
			assert.Contains(t, validation.Fields(err), tc.field)
		})
	}
}

func TestForm_PhoneBounds(t *testing.T) {
	for _, phone := range []string{"1000000", "9999999999"} {
		_, err := Form{FirstName: "A", LastName: "B", Email: "a@b.c", Phone: phone}.Validate()
		assert.NoError(t, err, phone)
	}
}

func TestCustomer_FullName(t *testing.T) {
	assert.Equal(t, "Ana Gómez", Customer{FirstName: "Ana", LastName: "Gómez"}.FullName())
	assert.Equal(t, "Ana", Customer{FirstName: "Ana"}.FullName())
}
