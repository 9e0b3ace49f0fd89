package paysheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeShipping_NameAndCity(t *testing.T) {
	got := EncodeShipping(Address{Name: "Jane Doe", City: "Sacramento"})
	assert.Equal(t, "shipping[name]=Jane+Doe&shipping[address][city]=Sacramento", got)
}

func TestEncodeShipping_FieldOrderAndEscaping(t *testing.T) {
	got := EncodeShipping(Address{
		Name:       "Jane Doe",
		Line1:      "1 Main St",
		Line2:      "Apt #4",
		City:       "Sacramento",
		State:      "CA",
		PostalCode: "95814",
		Country:    "US",
		Phone:      "+1 555",
		Email:      "jane@example.com",
	})
	want := "shipping[name]=Jane+Doe" +
		"&shipping[phone]=%2B1+555" +
		"&shipping[address][line1]=1+Main+St" +
		"&shipping[address][line2]=Apt+%234" +
		"&shipping[address][city]=Sacramento" +
		"&shipping[address][state]=CA" +
		"&shipping[address][postal_code]=95814" +
		"&shipping[address][country]=US"
	assert.Equal(t, want, got)
}

func TestEncodeShipping_Empty(t *testing.T) {
	assert.Equal(t, "", EncodeShipping(Address{}))
}

func TestParseShipping_RoundTrip(t *testing.T) {
	in := Address{Name: "Jane Doe", Line1: "1 Main St", City: "Sacramento", PostalCode: "95814", Country: "US", Phone: "+1 555"}
	out, ok, err := ParseShipping(EncodeShipping(in))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	_, ok, err = ParseShipping("source=tok_123")
	require.NoError(t, err)
	assert.False(t, ok)
}
