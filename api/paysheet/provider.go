package paysheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbeaudouin05/stripe-paysheet/api/validator"
)

type shippableAddress struct {
	Line1      string `label:"address line" validate:"required"`
	City       string `label:"city" validate:"required"`
	PostalCode string `label:"postal code" validate:"required"`
	Country    string `label:"country" validate:"required,iso3166_1_alpha2"`
}

// StaticShippingProvider offers a fixed list of methods to any complete
// address in an allowed country. The first method is the default.
type StaticShippingProvider struct {
	methods   []ShippingMethod
	countries map[string]struct{}
	validate  *validator.Validator
}

// NewStaticShippingProvider returns a provider for methods. With no countries
// every country is accepted.
func NewStaticShippingProvider(methods []ShippingMethod, countries ...string) *StaticShippingProvider {
	p := &StaticShippingProvider{
		methods:  append([]ShippingMethod{}, methods...),
		validate: validator.New(),
	}
	if len(countries) > 0 {
		p.countries = make(map[string]struct{}, len(countries))
		for _, c := range countries {
			p.countries[strings.ToUpper(c)] = struct{}{}
		}
	}
	return p
}

func (p *StaticShippingProvider) ProvideShippingMethods(ctx context.Context, addr Address) ShippingMethods {
	if err := ctx.Err(); err != nil {
		return Invalid("shipping lookup cancelled")
	}
	country := strings.ToUpper(strings.TrimSpace(addr.Country))
	errs := p.validate.Struct(shippableAddress{
		Line1:      strings.TrimSpace(addr.Line1),
		City:       strings.TrimSpace(addr.City),
		PostalCode: strings.TrimSpace(addr.PostalCode),
		Country:    country,
	})
	if errs != nil {
		return Invalid(errs.First())
	}
	if p.countries != nil {
		if _, ok := p.countries[country]; !ok {
			return Invalid(fmt.Sprintf("shipping to %s is not available", country))
		}
	}
	if len(p.methods) == 0 {
		return Invalid("no shipping methods available")
	}
	return Valid(p.methods...)
}
