package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// BillingAddressFields selects how much of the billing address the sheet collects.
type BillingAddressFields int

const (
	BillingAddressFieldsNone BillingAddressFields = iota
	BillingAddressFieldsZip
	BillingAddressFieldsFull
	BillingAddressFieldsName
)

// AddressFields is a bitmask of shipping contact fields the sheet requires.
type AddressFields uint

const (
	AddressFieldPostalAddress AddressFields = 1 << iota
	AddressFieldPhone
	AddressFieldEmail
	AddressFieldName

	AddressFieldNone AddressFields = 0
	AddressFieldAll                = AddressFieldPostalAddress | AddressFieldPhone | AddressFieldEmail | AddressFieldName
)

// Has reports whether all bits of f are set.
func (a AddressFields) Has(f AddressFields) bool { return a&f == f }

// ShippingType controls the wording the sheet uses for fulfilment.
type ShippingType string

const (
	ShippingTypeShipping      ShippingType = "shipping"
	ShippingTypeDelivery      ShippingType = "delivery"
	ShippingTypeStorePickup   ShippingType = "storePickup"
	ShippingTypeServicePickup ShippingType = "servicePickup"
)

// PaymentMethodTypes is a bitmask of payment methods offered besides cards.
type PaymentMethodTypes uint

const (
	PaymentMethodTypeApplePay PaymentMethodTypes = 1 << iota

	PaymentMethodTypeNone PaymentMethodTypes = 0
	PaymentMethodTypeAll                     = PaymentMethodTypeApplePay
)

var (
	ErrAlreadyConfigured = errors.New("payment configuration already set")
	ErrMissingKey        = errors.New("publishable key is required")
)

// PaymentConfiguration holds the merchant settings read by the payment sheet.
// Nil optional fields mean "use the SDK default", which is distinct from an
// explicit zero value.
type PaymentConfiguration struct {
	// Publishable key from https://dashboard.stripe.com/account/apikeys (pk_test_... in development)
	PublishableKey string `json:"publishableKey"`
	// Apple merchant identifier, e.g. merchant.com.yourappname
	AppleMerchantID string `json:"appleMerchantId"`
	// Stripe API version requested for ephemeral keys
	APIVersion string `json:"apiVersion"`

	CompanyName                    *string               `json:"companyName,omitempty"`
	RequiredBillingAddressFields   *BillingAddressFields `json:"requiredBillingAddressFields,omitempty"`
	RequiredShippingAddressFields  *AddressFields        `json:"requiredShippingAddressFields,omitempty"`
	VerifyPrefilledShippingAddress *bool                 `json:"verifyPrefilledShippingAddress,omitempty"`
	ShippingType                   *ShippingType         `json:"shippingType,omitempty"`
	AdditionalPaymentMethods       *PaymentMethodTypes   `json:"additionalPaymentMethods,omitempty"`
	CreateCardSources              *bool                 `json:"createCardSources,omitempty"`
	StripeAccount                  *string               `json:"stripeAccount,omitempty"`
}

// NewPaymentConfiguration returns a configuration with the two required
// identifiers set and every optional left unset.
func NewPaymentConfiguration(publishableKey, appleMerchantID string) *PaymentConfiguration {
	return &PaymentConfiguration{
		PublishableKey:  publishableKey,
		AppleMerchantID: appleMerchantID,
		APIVersion:      DefaultAPIVersion,
	}
}

// Validate reports settings the SDK cannot start a session without.
func (c *PaymentConfiguration) Validate() error {
	if c == nil || c.PublishableKey == "" {
		return ErrMissingKey
	}
	return nil
}

// RequiresShipping reports whether the sheet has to collect a shipping address.
func (c *PaymentConfiguration) RequiresShipping() bool {
	return c != nil && c.RequiredShippingAddressFields != nil && *c.RequiredShippingAddressFields != AddressFieldNone
}

// Bool returns a pointer to v, for tri-state fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

var (
	sharedMu sync.Mutex
	shared   *PaymentConfiguration
)

// SetShared installs the process-wide default configuration. It succeeds once.
func SetShared(c *PaymentConfiguration) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return ErrAlreadyConfigured
	}
	shared = c
	return nil
}

// Shared returns the process-wide default configuration, or nil if none was set.
func Shared() *PaymentConfiguration {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return shared
}

// PaymentConfigFromEnv reads the merchant settings from the environment.
// Unset variables leave the matching field nil.
func PaymentConfigFromEnv() (*PaymentConfiguration, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	c := NewPaymentConfiguration(os.Getenv("STRIPE_PUBLISHABLE_KEY"), os.Getenv("APPLE_MERCHANT_ID"))
	if v := os.Getenv("STRIPE_API_VERSION"); v != "" {
		c.APIVersion = v
	}
	if v := os.Getenv("COMPANY_NAME"); v != "" {
		c.CompanyName = String(v)
	}
	if v := os.Getenv("STRIPE_ACCOUNT"); v != "" {
		c.StripeAccount = String(v)
	}

	var err error
	if c.VerifyPrefilledShippingAddress, err = triState("VERIFY_PREFILLED_SHIPPING_ADDRESS"); err != nil {
		return nil, err
	}
	if c.CreateCardSources, err = triState("CREATE_CARD_SOURCES"); err != nil {
		return nil, err
	}

	if v := os.Getenv("SHIPPING_TYPE"); v != "" {
		st, err := ParseShippingType(v)
		if err != nil {
			return nil, err
		}
		c.ShippingType = &st
	}
	if v := os.Getenv("REQUIRED_SHIPPING_ADDRESS_FIELDS"); v != "" {
		f, err := ParseAddressFields(v)
		if err != nil {
			return nil, err
		}
		c.RequiredShippingAddressFields = &f
	}
	if v := os.Getenv("REQUIRED_BILLING_ADDRESS_FIELDS"); v != "" {
		f, err := ParseBillingAddressFields(v)
		if err != nil {
			return nil, err
		}
		c.RequiredBillingAddressFields = &f
	}
	if v := os.Getenv("ADDITIONAL_PAYMENT_METHODS"); v != "" {
		m, err := ParsePaymentMethodTypes(v)
		if err != nil {
			return nil, err
		}
		c.AdditionalPaymentMethods = &m
	}
	return c, nil
}

func triState(envVar string) (*bool, error) {
	v := os.Getenv(envVar)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", envVar, v, err)
	}
	return &b, nil
}

// ParseShippingType accepts the ShippingType names, case-insensitively.
func ParseShippingType(s string) (ShippingType, error) {
	for _, st := range []ShippingType{ShippingTypeShipping, ShippingTypeDelivery, ShippingTypeStorePickup, ShippingTypeServicePickup} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown shipping type %q", s)
}

// ParseAddressFields parses a comma separated list such as "postal,phone".
func ParseAddressFields(s string) (AddressFields, error) {
	var out AddressFields
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "postal", "postaladdress":
			out |= AddressFieldPostalAddress
		case "phone":
			out |= AddressFieldPhone
		case "email":
			out |= AddressFieldEmail
		case "name":
			out |= AddressFieldName
		case "all":
			out |= AddressFieldAll
		case "none", "":
		default:
			return 0, fmt.Errorf("unknown address field %q", part)
		}
	}
	return out, nil
}

// ParseBillingAddressFields accepts none, zip, full or name.
func ParseBillingAddressFields(s string) (BillingAddressFields, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return BillingAddressFieldsNone, nil
	case "zip":
		return BillingAddressFieldsZip, nil
	case "full":
		return BillingAddressFieldsFull, nil
	case "name":
		return BillingAddressFieldsName, nil
	}
	return 0, fmt.Errorf("unknown billing address fields %q", s)
}

// ParsePaymentMethodTypes parses a comma separated list such as "applepay".
func ParsePaymentMethodTypes(s string) (PaymentMethodTypes, error) {
	var out PaymentMethodTypes
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "applepay", "apple_pay":
			out |= PaymentMethodTypeApplePay
		case "all":
			out |= PaymentMethodTypeAll
		case "none", "":
		default:
			return 0, fmt.Errorf("unknown payment method type %q", part)
		}
	}
	return out, nil
}
