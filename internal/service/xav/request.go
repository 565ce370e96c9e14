package xav

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"xav-address-service/internal/apperr"
	"xav-address-service/internal/domain"
)

var (
	usZip       = regexp.MustCompile(`(\d{3,5})-?(\d{4})?`)
	stripPolicy = bluemonday.StrictPolicy()
)

// fieldNames maps struct fields to the form keys reported back to callers.
var fieldNames = map[string]string{
	"Company":         domain.FieldCompany,
	"AddressLine1":    domain.FieldAddress1,
	"AddressLine2":    domain.FieldAddress2,
	"City":            domain.FieldCity,
	"StateOrProvince": domain.FieldState,
	"PostalCode":      domain.FieldZip,
	"CountryCode":     domain.FieldCountry,
	"Urbanization":    domain.FieldUrbanization,
}

func newValidator(supported func(string) bool) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return supported(fl.Field().String())
	})
	return v
}

// maxSanitizePasses bounds how many layers of entity encoding are unwrapped.
const maxSanitizePasses = 4

// sanitize strips markup and surrounding whitespace. Entity-encoded tags are
// decoded and stripped again until the value stops changing.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < maxSanitizePasses; i++ {
		stripped := stripPolicy.Sanitize(s)
		plain := strings.TrimSpace(html.UnescapeString(stripped))
		if plain == s {
			return plain
		}
		s = plain
	}
	// Still decoding into new markup: keep the escaped form.
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}

// FromForm reads the form keys into a RawAddressInput. An empty form is rejected.
func FromForm(form map[string][]string) (domain.RawAddressInput, error) {
	if len(form) == 0 {
		return domain.RawAddressInput{}, apperr.Invalid("form", "no data")
	}
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return domain.RawAddressInput{
		Company:         get(domain.FieldCompany),
		AddressLine1:    get(domain.FieldAddress1),
		AddressLine2:    get(domain.FieldAddress2),
		City:            get(domain.FieldCity),
		StateOrProvince: get(domain.FieldState),
		PostalCode:      get(domain.FieldZip),
		CountryCode:     get(domain.FieldCountry),
		Urbanization:    get(domain.FieldUrbanization),
	}, nil
}

// BuildRequest sanitizes and checks input and shapes it for the carrier.
// It performs no I/O.
func (s *Service) BuildRequest(in domain.RawAddressInput) (domain.AddressRequest, error) {
	clean := domain.RawAddressInput{
		Company:         sanitize(in.Company),
		AddressLine1:    sanitize(in.AddressLine1),
		AddressLine2:    sanitize(in.AddressLine2),
		City:            sanitize(in.City),
		StateOrProvince: sanitize(in.StateOrProvince),
		PostalCode:      sanitize(in.PostalCode),
		CountryCode:     strings.ToUpper(sanitize(in.CountryCode)),
		Urbanization:    sanitize(in.Urbanization),
	}
	if err := s.validate.Struct(clean); err != nil {
		return domain.AddressRequest{}, toValidationError(err)
	}

	country := domain.CountryCode(clean.CountryCode)
	req := domain.AddressRequest{
		ConsigneeName:     clean.Company,
		AddressLines:      [2]string{clean.AddressLine1, clean.AddressLine2},
		Locality:          clean.City,
		Region:            clean.StateOrProvince,
		PostalCodePrimary: clean.PostalCode,
		CountryCode:       country,
		RegionalOnly:      !s.streetLevel,
	}

	if country == domain.CountryUS {
		m := usZip.FindStringSubmatch(clean.PostalCode)
		if m == nil {
			return domain.AddressRequest{}, apperr.Invalid(domain.FieldZip, "must contain a 3 to 5 digit ZIP code")
		}
		ext := m[2]
		req.PostalCodePrimary = m[1]
		req.PostalCodeExtended = &ext
	}
	if country == domain.CountryPR {
		req.Urbanization = clean.Urbanization
	}
	return req, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "input", Message: err.Error()}}}
	}
	out := &apperr.ValidationError{Fields: make([]apperr.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		name := fieldNames[fe.StructField()]
		if name == "" {
			name = fe.StructField()
		}
		out.Fields = append(out.Fields, apperr.FieldError{Field: name, Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "country":
		return "is not a supported country"
	default:
		return "is invalid"
	}
}
