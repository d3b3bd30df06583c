package keyword

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidKeyword = errors.New("invalid keyword or country parameter")
	ErrInvalidCountry = errors.New("invalid country code")
)

// DefaultCountries is the allow-list used when none is configured.
var DefaultCountries = []string{"us", "uk", "ca", "in"}

var keywordPattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// Query is a validated, normalized keyword lookup. The zero value is not valid;
// build one with a Validator.
type Query struct {
	Keyword string
	Country string
}

func (q Query) String() string {
	return fmt.Sprintf("%s/%s", q.Keyword, q.Country)
}

// Validator checks raw request parameters against the keyword pattern and the
// country allow-list.
type Validator struct {
	countries map[string]struct{}
}

func NewValidator(countries []string) *Validator {
	if len(countries) == 0 {
		countries = DefaultCountries
	}
	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[Normalize(c)] = struct{}{}
	}
	return &Validator{countries: allowed}
}

// NewQuery validates raw input and returns the normalized query.
func (v *Validator) NewQuery(rawKeyword, rawCountry string) (Query, error) {
	if rawKeyword == "" || rawCountry == "" || !keywordPattern.MatchString(rawKeyword) {
		return Query{}, ErrInvalidKeyword
	}

	country := Normalize(rawCountry)
	if _, ok := v.countries[country]; !ok {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidCountry, rawCountry)
	}

	kw := Normalize(rawKeyword)
	if kw == "" {
		return Query{}, ErrInvalidKeyword
	}

	return Query{Keyword: kw, Country: country}, nil
}

// Allowed reports whether the normalized country code is on the allow-list.
func (v *Validator) Allowed(country string) bool {
	_, ok := v.countries[Normalize(country)]
	return ok
}

// Normalize trims surrounding whitespace and lower-cases s.
// A Caser carries state, so each call gets its own.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
