package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetShared(t *testing.T) {
	t.Helper()
	sharedMu.Lock()
	shared = nil
	sharedMu.Unlock()
	t.Cleanup(func() {
		sharedMu.Lock()
		shared = nil
		sharedMu.Unlock()
	})
}

func TestShared_OnlyRequiredFieldsPopulated(t *testing.T) {
	resetShared(t)

	require.NoError(t, SetShared(NewPaymentConfiguration("pk_test_abc", "merchant.com.example")))

	c := Shared()
	require.NotNil(t, c)
	assert.Equal(t, "pk_test_abc", c.PublishableKey)
	assert.Equal(t, "merchant.com.example", c.AppleMerchantID)
	assert.Nil(t, c.CompanyName)
	assert.Nil(t, c.RequiredBillingAddressFields)
	assert.Nil(t, c.RequiredShippingAddressFields)
	assert.Nil(t, c.VerifyPrefilledShippingAddress)
	assert.Nil(t, c.ShippingType)
	assert.Nil(t, c.AdditionalPaymentMethods)
	assert.Nil(t, c.CreateCardSources)
	assert.Nil(t, c.StripeAccount)
}

func TestShared_SingleInstance(t *testing.T) {
	resetShared(t)
	assert.Nil(t, Shared())

	first := NewPaymentConfiguration("pk_test_1", "")
	second := NewPaymentConfiguration("pk_test_2", "")
	require.NoError(t, SetShared(first))
	assert.ErrorIs(t, SetShared(second), ErrAlreadyConfigured)

	assert.Same(t, first, Shared())
	assert.Same(t, Shared(), Shared())
}

func TestPaymentConfiguration_Validate(t *testing.T) {
	var nilCfg *PaymentConfiguration
	assert.ErrorIs(t, nilCfg.Validate(), ErrMissingKey)
	assert.ErrorIs(t, NewPaymentConfiguration("", "merchant.x").Validate(), ErrMissingKey)
	assert.NoError(t, NewPaymentConfiguration("pk_test_abc", "").Validate())
}

func TestPaymentConfiguration_RequiresShipping(t *testing.T) {
	c := NewPaymentConfiguration("pk_test_abc", "")
	assert.False(t, c.RequiresShipping())

	none := AddressFieldNone
	c.RequiredShippingAddressFields = &none
	assert.False(t, c.RequiresShipping())

	postal := AddressFieldPostalAddress | AddressFieldPhone
	c.RequiredShippingAddressFields = &postal
	assert.True(t, c.RequiresShipping())
	assert.True(t, postal.Has(AddressFieldPhone))
	assert.False(t, postal.Has(AddressFieldEmail))
}

func clearPaymentEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"STRIPE_PUBLISHABLE_KEY", "APPLE_MERCHANT_ID", "STRIPE_API_VERSION", "COMPANY_NAME",
		"STRIPE_ACCOUNT", "VERIFY_PREFILLED_SHIPPING_ADDRESS", "CREATE_CARD_SOURCES", "SHIPPING_TYPE",
		"REQUIRED_SHIPPING_ADDRESS_FIELDS", "REQUIRED_BILLING_ADDRESS_FIELDS", "ADDITIONAL_PAYMENT_METHODS"} {
		t.Setenv(k, "")
	}
}

func TestPaymentConfigFromEnv_TriState(t *testing.T) {
	clearPaymentEnv(t)
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_abc")
	t.Setenv("VERIFY_PREFILLED_SHIPPING_ADDRESS", "false")

	c, err := PaymentConfigFromEnv()
	require.NoError(t, err)
	require.NotNil(t, c.VerifyPrefilledShippingAddress)
	assert.False(t, *c.VerifyPrefilledShippingAddress)
	assert.Nil(t, c.CreateCardSources)
	assert.Equal(t, DefaultAPIVersion, c.APIVersion)

	t.Setenv("CREATE_CARD_SOURCES", "true")
	c, err = PaymentConfigFromEnv()
	require.NoError(t, err)
	require.NotNil(t, c.CreateCardSources)
	assert.True(t, *c.CreateCardSources)

	t.Setenv("CREATE_CARD_SOURCES", "maybe")
	_, err = PaymentConfigFromEnv()
	assert.Error(t, err)
}

func TestPaymentConfigFromEnv_Enums(t *testing.T) {
	clearPaymentEnv(t)
	t.Setenv("SHIPPING_TYPE", "Delivery")
	t.Setenv("REQUIRED_SHIPPING_ADDRESS_FIELDS", "postal, email")
	t.Setenv("COMPANY_NAME", "Example Co")

	c, err := PaymentConfigFromEnv()
	require.NoError(t, err)
	require.NotNil(t, c.ShippingType)
	assert.Equal(t, ShippingTypeDelivery, *c.ShippingType)
	require.NotNil(t, c.RequiredShippingAddressFields)
	assert.Equal(t, AddressFieldPostalAddress|AddressFieldEmail, *c.RequiredShippingAddressFields)
	require.NotNil(t, c.CompanyName)
	assert.Equal(t, "Example Co", *c.CompanyName)

	t.Setenv("SHIPPING_TYPE", "teleport")
	_, err = PaymentConfigFromEnv()
	assert.Error(t, err)
}

func TestParseAddressFields(t *testing.T) {
	f, err := ParseAddressFields("all")
	require.NoError(t, err)
	assert.Equal(t, AddressFieldAll, f)

	f, err = ParseAddressFields("none")
	require.NoError(t, err)
	assert.Equal(t, AddressFieldNone, f)

	_, err = ParseAddressFields("postal,fax")
	assert.Error(t, err)
}

func TestPaymentConfigFromEnv_BillingAndPaymentMethods(t *testing.T) {
	clearPaymentEnv(t)
	c, err := PaymentConfigFromEnv()
	require.NoError(t, err)
	assert.Nil(t, c.RequiredBillingAddressFields)
	assert.Nil(t, c.AdditionalPaymentMethods)

	t.Setenv("REQUIRED_BILLING_ADDRESS_FIELDS", "Full")
	t.Setenv("ADDITIONAL_PAYMENT_METHODS", "none")
	c, err = PaymentConfigFromEnv()
	require.NoError(t, err)
	require.NotNil(t, c.RequiredBillingAddressFields)
	assert.Equal(t, BillingAddressFieldsFull, *c.RequiredBillingAddressFields)
	require.NotNil(t, c.AdditionalPaymentMethods)
	assert.Equal(t, PaymentMethodTypeNone, *c.AdditionalPaymentMethods)

	t.Setenv("ADDITIONAL_PAYMENT_METHODS", "apple_pay")
	c, err = PaymentConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTypeApplePay, *c.AdditionalPaymentMethods)

	t.Setenv("REQUIRED_BILLING_ADDRESS_FIELDS", "street")
	_, err = PaymentConfigFromEnv()
	assert.Error(t, err)
}

func TestParseBillingAddressFields(t *testing.T) {
	for in, want := range map[string]BillingAddressFields{
		"none":  BillingAddressFieldsNone,
		"ZIP":   BillingAddressFieldsZip,
		"full":  BillingAddressFieldsFull,
		" name": BillingAddressFieldsName,
	} {
		got, err := ParseBillingAddressFields(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBillingAddressFields("zip,full")
	assert.Error(t, err)
}

func TestParsePaymentMethodTypes(t *testing.T) {
	m, err := ParsePaymentMethodTypes("ApplePay")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTypeApplePay, m)

	m, err = ParsePaymentMethodTypes("all")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTypeAll, m)

	_, err = ParsePaymentMethodTypes("applepay,googlepay")
	assert.Error(t, err)
}
