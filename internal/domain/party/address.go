package party

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/retailcore/backend/internal/domain/shared"
)

// CityLocation identifies a (city, state, country) tuple. Two locations are
// the same when their case- and diacritic-folded forms match, so "São Paulo"
// and "sao paulo" resolve to one record.
type CityLocation struct {
	shared.BaseEntity
	City    string
	State   string
	Country string
}

// NewCityLocation creates a city location
func NewCityLocation(city, state, country string, now time.Time) (*CityLocation, error) {
	if city == "" || country == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "City and country cannot be empty")
	}
	return &CityLocation{
		BaseEntity: shared.NewBaseEntity(now),
		City:       city,
		State:      state,
		Country:    country,
	}, nil
}

// NormalizedKey returns the locale-insensitive uniqueness key
func (c *CityLocation) NormalizedKey() string {
	return FoldLocation(c.City, c.State, c.Country)
}

// FoldLocation builds the folded uniqueness key for a location tuple
func FoldLocation(city, state, country string) string {
	return foldString(city) + "|" + foldString(state) + "|" + foldString(country)
}

// foldString lower-cases and strips combining marks (diacritics)
func foldString(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Address references a Person and a CityLocation. At most one address per
// person is flagged as main; Person.AddAddress maintains that invariant.
type Address struct {
	shared.BaseEntity
	PersonID       uuid.UUID
	CityLocationID uuid.UUID
	Street         string
	Number         string
	Complement     string
	District       string
	PostalCode     string
	IsMain         bool
}

// NewAddress creates an address bound to a city location
func NewAddress(cityLocationID uuid.UUID, street, number, district, postalCode string, now time.Time) (*Address, error) {
	if cityLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Address requires a city location")
	}
	if street == "" {
		return nil, shared.NewDomainError("INVALID_STREET", "Street cannot be empty")
	}
	return &Address{
		BaseEntity:     shared.NewBaseEntity(now),
		CityLocationID: cityLocationID,
		Street:         street,
		Number:         number,
		District:       district,
		PostalCode:     postalCode,
	}, nil
}
