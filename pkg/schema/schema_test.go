package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsColumn(t *testing.T) {
	assert.True(t, IsColumn("INGRESOS"))
	assert.True(t, IsColumn("ingresos"))
	assert.True(t, IsColumn("Desc_Tienda"))
	assert.False(t, IsColumn("VENTAS"))
	assert.False(t, IsColumn("TOTAL"))
}

func TestColumnTag(t *testing.T) {
	tag, ok := ColumnTag("INGRESOS")
	require.True(t, ok)
	assert.Equal(t, TagMonetary, tag)

	tag, ok = ColumnTag("UNIDADES")
	require.True(t, ok)
	assert.Equal(t, TagCount, tag)

	tag, ok = ColumnTag("fecha")
	require.True(t, ok)
	assert.Equal(t, TagDate, tag)

	_, ok = ColumnTag("NOPE")
	assert.False(t, ok)
}

func TestFieldColumnMapping(t *testing.T) {
	assert.Equal(t, "DESC_TIENDA", FieldColumn(FieldStore))
	assert.Equal(t, "ENTIDAD", FieldColumn(FieldCountry))

	f, ok := FieldForResultColumn("  Desc_Canal ")
	require.True(t, ok)
	assert.Equal(t, FieldChannel, f)

	f, ok = FieldForResultColumn("tienda")
	require.True(t, ok)
	assert.Equal(t, FieldStore, f)

	_, ok = FieldForResultColumn("TOTAL")
	assert.False(t, ok)
}

func TestIsDistributionCenter(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"CENTRO DE DISTRIBUCION SANTIAGO", true},
		{"centro de distribucion lima", true},
		{"CD QUILICURA", true},
		{"TIENDA CD NORTE", true},
		{"BODEGA CENTRAL", true},
		{"CD", true},
		{"MERCADO CENTRAL", false},
		{"MERCD OUTLET", false},
		{"COSTANERA CENTER", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDistributionCenter(tt.desc), "desc: %q", tt.desc)
	}

	// A suffix CD description is flagged, so the exclusion set carries its
	// LIKE form too.
	assert.True(t, IsDistributionCenter("TIENDA CD"))
	assert.Contains(t, DistributionCenterExclusions, "DESC_TIENDA NOT LIKE '% CD'")
	for _, pred := range DistributionCenterExclusions {
		assert.Contains(t, pred, "DESC_TIENDA")
	}
}

func TestLexiconLoads(t *testing.T) {
	lex, err := LoadLexicon()
	require.NoError(t, err)

	assert.Contains(t, lex.Brands, "LEVIS")
	assert.Contains(t, lex.Brands, "DOCKERS")
	assert.Contains(t, lex.Genders, "MUJER")
	assert.Contains(t, lex.Types, "JEANS")
	assert.Contains(t, lex.Countries, "CL")
	assert.Contains(t, lex.Currencies, "CLP")

	assert.True(t, lex.IsGarmentType("JEANS"))
	assert.False(t, lex.IsGarmentType("ZAPATOS"))
	assert.True(t, lex.IsFamilyValue("DENIM"))
}

func TestLexiconEnumerationsSorted(t *testing.T) {
	lex := MustLexicon()

	types := lex.GarmentTypes()
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1], types[i], "enumeration must be sorted for deterministic prompts")
	}
}

func TestCountryAndCurrencyNames(t *testing.T) {
	assert.Equal(t, "CHILE", CountryNames[CountryChile])
	assert.Equal(t, "PESOS CHILENOS", CurrencyNames["CLP"])
	_, ok := CurrencyNames["XXX"]
	assert.False(t, ok)
}
