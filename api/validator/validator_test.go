package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" label:"postal code" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.Nil(t, v.Struct(sample{City: "Sacramento", PostalCode: "95814"}))
}

func TestStruct_LabelAndOrder(t *testing.T) {
	v := New()
	errs := v.Struct(sample{Email: "nope"})
	require.NotNil(t, errs)

	assert.Equal(t, "city required", errs.First())
	fields := errs.FieldErrors()
	assert.Equal(t, "postal code required", fields["postal code"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
}

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	assert.Equal(t, "{}", empty.Error())
	assert.Equal(t, "", empty.First())

	var e ValidationErrors
	e.AddFieldError("city", "city required")
	e.AddFieldError("city", "ignored")
	assert.Equal(t, `{"city":"city required"}`, e.Error())
}
