package paysheet

import (
	"fmt"
	"net/url"

	"github.com/stripe/stripe-go/form"
)

const (
	keyName       = "shipping[name]"
	keyPhone      = "shipping[phone]"
	keyLine1      = "shipping[address][line1]"
	keyLine2      = "shipping[address][line2]"
	keyCity       = "shipping[address][city]"
	keyState      = "shipping[address][state]"
	keyPostalCode = "shipping[address][postal_code]"
	keyCountry    = "shipping[address][country]"
)

// EncodeShipping renders the shipping summary sent with CompleteCharge, e.g.
// "shipping[name]=Jane+Doe&shipping[address][city]=Sacramento". Keys keep their
// brackets, keys come in a fixed order and empty fields are left out.
func EncodeShipping(a Address) string {
	values := &form.Values{}
	add := func(key, val string) {
		if val != "" {
			values.Add(key, val)
		}
	}
	add(keyName, a.Name)
	add(keyPhone, a.Phone)
	add(keyLine1, a.Line1)
	add(keyLine2, a.Line2)
	add(keyCity, a.City)
	add(keyState, a.State)
	add(keyPostalCode, a.PostalCode)
	add(keyCountry, a.Country)
	return values.Encode()
}

// DecodeShipping reads the shipping[...] keys back out of a parsed form.
// ok is false when no shipping key is present.
func DecodeShipping(v url.Values) (a Address, ok bool) {
	get := func(key string) string {
		if s := v.Get(key); s != "" {
			ok = true
			return s
		}
		return ""
	}
	a = Address{
		Name:       get(keyName),
		Phone:      get(keyPhone),
		Line1:      get(keyLine1),
		Line2:      get(keyLine2),
		City:       get(keyCity),
		State:      get(keyState),
		PostalCode: get(keyPostalCode),
		Country:    get(keyCountry),
	}
	return a, ok
}

// ParseShipping decodes an encoded shipping summary.
func ParseShipping(hash string) (Address, bool, error) {
	v, err := url.ParseQuery(hash)
	if err != nil {
		return Address{}, false, fmt.Errorf("parse shipping: %w", err)
	}
	a, ok := DecodeShipping(v)
	return a, ok, nil
}
