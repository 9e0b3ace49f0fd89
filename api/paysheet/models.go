package paysheet

import "fmt"

// Address is a shipping or billing postal address collected by the sheet.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// ShippingMethod is one selectable delivery option. Amount is in minor units.
type ShippingMethod struct {
	Amount     int64  `json:"amount"`
	Label      string `json:"label"`
	Detail     string `json:"detail"`
	Identifier string `json:"identifier"`
}

// ShippingMethods is the outcome of validating an address.
type ShippingMethods struct {
	// Is shipping to the address valid?
	IsValid bool `json:"isValid"`
	// If not valid, an error describing the issue with the address
	ValidationError string `json:"validationError"`
	// The shipping methods available for the address.
	ShippingMethods []ShippingMethod `json:"shippingMethods"`
	// The pre-selected (default) shipping method for the address.
	SelectedShippingMethod *ShippingMethod `json:"selectedShippingMethod,omitempty"`
}

// Invalid returns a result that rejects the address with msg.
func Invalid(msg string) ShippingMethods {
	return ShippingMethods{ValidationError: msg, ShippingMethods: []ShippingMethod{}}
}

// Valid returns a result offering methods with the first one pre-selected.
func Valid(methods ...ShippingMethod) ShippingMethods {
	out := ShippingMethods{IsValid: true, ShippingMethods: append([]ShippingMethod{}, methods...)}
	if len(out.ShippingMethods) > 0 {
		sel := out.ShippingMethods[0]
		out.SelectedShippingMethod = &sel
	}
	return out
}

// Find returns the method with the given identifier.
func (s ShippingMethods) Find(identifier string) (ShippingMethod, bool) {
	for _, m := range s.ShippingMethods {
		if m.Identifier == identifier {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// Validate checks the invariants a provider must honour.
func (s ShippingMethods) Validate() error {
	if !s.IsValid {
		if s.ValidationError == "" {
			return fmt.Errorf("%w: invalid address without validation error", ErrInvalidShippingResult)
		}
		return nil
	}
	seen := make(map[string]struct{}, len(s.ShippingMethods))
	for _, m := range s.ShippingMethods {
		if m.Identifier == "" {
			return fmt.Errorf("%w: shipping method %q has no identifier", ErrInvalidShippingResult, m.Label)
		}
		if m.Amount < 0 {
			return fmt.Errorf("%w: shipping method %q has negative amount", ErrInvalidShippingResult, m.Identifier)
		}
		if _, dup := seen[m.Identifier]; dup {
			return fmt.Errorf("%w: duplicate shipping method %q", ErrInvalidShippingResult, m.Identifier)
		}
		seen[m.Identifier] = struct{}{}
	}
	if s.SelectedShippingMethod != nil {
		if _, ok := s.Find(s.SelectedShippingMethod.Identifier); !ok {
			return fmt.Errorf("%w: selected method %q not offered", ErrInvalidShippingResult, s.SelectedShippingMethod.Identifier)
		}
	}
	return nil
}

// CardBrand is the card network shown next to a payment method.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandAmex       CardBrand = "Amex"
	CardBrandMasterCard CardBrand = "MasterCard"
	CardBrandDiscover   CardBrand = "Discover"
	CardBrandJCB        CardBrand = "JCB"
	CardBrandDinersClub CardBrand = "DinersClub"
	CardBrandUnknown    CardBrand = "Unknown"
)

// PaymentMethod is the display form of the instrument chosen in the sheet.
// ID is the token forwarded to the backend when charging.
type PaymentMethod struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	Brand         CardBrand `json:"brand,omitempty"`
	Image         []byte    `json:"image,omitempty"`
	TemplateImage []byte    `json:"templateImage,omitempty"`
}

// PaymentData is a snapshot of the session's readiness.
type PaymentData struct {
	IsReadyToCharge bool            `json:"isReadyToCharge"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	ShippingInfo    *ShippingMethod `json:"shippingInfo,omitempty"`
}

// Equal compares snapshots by readiness, the payment method's ID, label and
// brand, and the shipping method. Images are not compared.
func (d PaymentData) Equal(o PaymentData) bool {
	if d.IsReadyToCharge != o.IsReadyToCharge {
		return false
	}
	if (d.PaymentMethod == nil) != (o.PaymentMethod == nil) {
		return false
	}
	if d.PaymentMethod != nil {
		a, b := d.PaymentMethod, o.PaymentMethod
		if a.ID != b.ID || a.Label != b.Label || a.Brand != b.Brand {
			return false
		}
	}
	if (d.ShippingInfo == nil) != (o.ShippingInfo == nil) {
		return false
	}
	return d.ShippingInfo == nil || *d.ShippingInfo == *o.ShippingInfo
}
