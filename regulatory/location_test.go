package regulatory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/compliance-engine/regulatory"
)

// =============================================================================
// LOCATION PARSING TESTS
// =============================================================================

func TestParseLocation_StateName(t *testing.T) {
	// GIVEN: A bare full state name
	// WHEN: Parsing
	// THEN: Resolves to the USPS code with no city

	loc := regulatory.ParseLocation("California")

	assert.Equal(t, "CA", loc.State)
	assert.Equal(t, "", loc.City)
	assert.Equal(t, "California", loc.Raw)
}

func TestParseLocation_StateCode(t *testing.T) {
	// GIVEN: A bare USPS code (any case)
	// WHEN: Parsing
	// THEN: Resolves to the code

	assert.Equal(t, "CA", regulatory.ParseLocation("CA").State)
	assert.Equal(t, "WA", regulatory.ParseLocation("wa").State)
	assert.Equal(t, "NY", regulatory.ParseLocation(" ny ").State)
}

func TestParseLocation_CityCommaCode(t *testing.T) {
	// GIVEN: "City, ST"
	// WHEN: Parsing
	// THEN: Both components resolve

	loc := regulatory.ParseLocation("Los Angeles, CA")

	assert.Equal(t, "CA", loc.State)
	assert.Equal(t, "Los Angeles", loc.City)
}

func TestParseLocation_CityCommaFullName(t *testing.T) {
	// GIVEN: "City, Full State Name"
	// WHEN: Parsing
	// THEN: The full name resolves to the code

	loc := regulatory.ParseLocation("Seattle, Washington")

	assert.Equal(t, "WA", loc.State)
	assert.Equal(t, "Seattle", loc.City)
}

func TestParseLocation_BareCity(t *testing.T) {
	// GIVEN: A city label that is not a state name
	// WHEN: Parsing
	// THEN: City is kept, state stays unknown

	loc := regulatory.ParseLocation("Chicago")

	assert.Equal(t, "", loc.State)
	assert.Equal(t, "Chicago", loc.City)
}

func TestParseLocation_EquivalentSpellings_SameKey(t *testing.T) {
	// GIVEN: Two spellings of the same state
	// WHEN: Parsing both
	// THEN: They resolve to the same structured key

	a := regulatory.ParseLocation("California")
	b := regulatory.ParseLocation("CA")

	assert.Equal(t, a.State, b.State)
}

func TestParseLocation_EmptyAndWhitespace(t *testing.T) {
	// GIVEN: Empty or whitespace labels
	// WHEN: Parsing
	// THEN: Both components stay empty, raw is preserved

	loc := regulatory.ParseLocation("   ")
	assert.Equal(t, "", loc.State)
	assert.Equal(t, "", loc.City)
	assert.Equal(t, "   ", loc.Raw)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "california", regulatory.StateName("CA"))
	assert.Equal(t, "california", regulatory.StateName("ca"))
	assert.Equal(t, "", regulatory.StateName("ZZ"))
}
