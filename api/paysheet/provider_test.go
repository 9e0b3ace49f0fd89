package paysheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMethods = []ShippingMethod{
	{Amount: 0, Label: "UPS Ground", Detail: "Arrives in 3-5 days", Identifier: "ups_ground"},
	{Amount: 599, Label: "FedEx", Detail: "Arrives tomorrow", Identifier: "fedex"},
}

func TestStaticShippingProvider_MissingPostalCode(t *testing.T) {
	p := NewStaticShippingProvider(testMethods)
	res := p.ProvideShippingMethods(context.Background(), Address{
		Name: "Jane Doe", Line1: "1 Main St", City: "Sacramento", State: "CA", Country: "US",
	})

	assert.False(t, res.IsValid)
	assert.Equal(t, "postal code required", res.ValidationError)
	assert.Equal(t, []ShippingMethod{}, res.ShippingMethods)
	assert.NoError(t, res.Validate())
}

func TestStaticShippingProvider_Valid(t *testing.T) {
	p := NewStaticShippingProvider(testMethods, "us", "CA")
	res := p.ProvideShippingMethods(context.Background(), Address{
		Line1: "1 Main St", City: "Sacramento", PostalCode: "95814", Country: "us",
	})

	assert.True(t, res.IsValid)
	assert.Equal(t, testMethods, res.ShippingMethods)
	assert.Equal(t, "ups_ground", res.SelectedShippingMethod.Identifier)
	assert.NoError(t, res.Validate())
}

func TestStaticShippingProvider_CountryNotServed(t *testing.T) {
	p := NewStaticShippingProvider(testMethods, "US")
	res := p.ProvideShippingMethods(context.Background(), Address{
		Line1: "10 Downing St", City: "London", PostalCode: "SW1A 2AA", Country: "GB",
	})

	assert.False(t, res.IsValid)
	assert.Equal(t, "shipping to GB is not available", res.ValidationError)
}

func TestStaticShippingProvider_BadCountryCode(t *testing.T) {
	p := NewStaticShippingProvider(testMethods)
	res := p.ProvideShippingMethods(context.Background(), Address{
		Line1: "1 Main St", City: "Sacramento", PostalCode: "95814", Country: "USA",
	})

	assert.False(t, res.IsValid)
	assert.Equal(t, "country must be a two-letter country code", res.ValidationError)
}

func TestStaticShippingProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewStaticShippingProvider(testMethods).ProvideShippingMethods(ctx, Address{})
	assert.False(t, res.IsValid)
	assert.NotEmpty(t, res.ValidationError)
}
