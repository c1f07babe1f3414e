package sqlfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
)

// Corpus of generator-shaped drafts crossed with intents. Used for the
// idempotence property: every pass, and the chain as a whole, must be a
// fixed point after one application.
var chainCorpus = []struct {
	name string
	sql  string
	in   nlp.Intent
}{
	{
		name: "top sellers draft",
		sql:  "SELECT DESC_ARTICULO, SUM(UNIDADES) AS total FROM VENTAS WHERE DESC_LINEA = 'JEANS' GROUP BY DESC_ARTICULO ORDER BY total DESC LIMIT 10;",
		in:   nlp.Intent{ArticleIntent: true, SalesVolume: true, GarmentType: "JEANS"},
	},
	{
		name: "brand revenue with misapplied store filter",
		sql:  "SELECT SUM(INGRESO) FROM VENTAS WHERE DESC_TIENDA LIKE '%LEVIS%' AND MONEDA = 'CLP'",
		in:   nlp.Intent{Brand: "LEVIS", Monetary: true},
	},
	{
		name: "margin by store",
		sql:  "SELECT DESC_TIENDA, SUM(MARGEN) FROM VENTAS GROUP BY DESC_TIENDA",
		in:   nlp.Intent{Monetary: true, Grouping: true},
	},
	{
		name: "buyer ranking counting rows",
		sql:  "SELECT NOMBRE_CLIENTE, COUNT(*) FROM VENTAS GROUP BY NOMBRE_CLIENTE ORDER BY 2 DESC LIMIT 1",
		in:   nlp.Intent{BuyerVolume: true},
	},
	{
		name: "belonging question",
		sql:  "SELECT DESC_CANAL FROM VENTAS WHERE DESC_TIENDA = 'COSTANERA CENTER'",
		in:   nlp.Intent{AsksChannel: true, Belonging: true},
	},
	{
		name: "broken separator",
		sql:  "SELECT DESC_TIENDA, SUM(INGRESOS) FROM VENTAS WHERE ENTIDAD = 'CL'; GROUP BY DESC_TIENDA;",
		in:   nlp.Intent{Monetary: true},
	},
	{
		name: "gendered units",
		sql:  "SELECT SUM(UNIDADES) FROM VENTAS WHERE DESC_ARTICULO LIKE '%MUJER%' AND MONEDA = 'CLP'",
		in:   nlp.Intent{Gender: "MUJER", SalesVolume: true},
	},
	{
		name: "multi statement",
		sql:  "SELECT SUM(INGRESOS) FROM VENTAS WHERE ENTIDAD = 'CL'; SELECT SUM(INGRESOS) FROM VENTAS WHERE ENTIDAD = 'PE'",
		in:   nlp.Intent{Monetary: true, CrossCountry: true},
	},
	{
		name: "already clean",
		sql:  "SELECT DISTINCT DESC_CANAL FROM VENTAS WHERE DESC_TIENDA NOT LIKE '%CENTRO DE DISTRIBUCION%' AND DESC_TIENDA NOT LIKE '%CD %' AND DESC_TIENDA NOT LIKE '%BODEGA CENTRAL%'",
		in:   nlp.Intent{AsksChannel: true},
	},
}

func TestEveryPassIsIdempotent(t *testing.T) {
	chain := NewChain(zap.NewNop())
	for _, tc := range chainCorpus {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range chain.Passes() {
				once := p.Apply(tc.sql, tc.in)
				twice := p.Apply(once, tc.in)
				assert.Equal(t, once, twice, "pass %s not idempotent", p.Name())
			}
		})
	}
}

func TestChainIsIdempotent(t *testing.T) {
	chain := NewChain(zap.NewNop())
	for _, tc := range chainCorpus {
		t.Run(tc.name, func(t *testing.T) {
			once := chain.Apply(tc.sql, tc.in)
			twice := chain.Apply(once, tc.in)
			assert.Equal(t, once, twice)
		})
	}
}

func TestChainTopSellersScenario(t *testing.T) {
	chain := NewChain(zap.NewNop())
	in := nlp.Intent{ArticleIntent: true, SalesVolume: true, GarmentType: "JEANS"}

	out := chain.Apply(
		"SELECT DESC_ARTICULO, SUM(UNIDADES) AS total FROM VENTAS WHERE DESC_LINEA = 'JEANS' GROUP BY DESC_ARTICULO ORDER BY total DESC LIMIT 10;", in)

	st, ok := ParseStatement(out)
	require.True(t, ok, "corrected query must stay parseable: %s", out)
	assert.True(t, st.HasPredicate("DESC_TIPO_ARTICULO = 'JEANS'"), "family filter moved to type column")
	assert.True(t, st.HasPredicate("COD_CATEGORIA = 'MER'"))
	assert.True(t, st.HasPredicate("UNIDADES > 0"))
	assert.True(t, st.HasPredicate("DESC_TIENDA NOT LIKE '%CENTRO DE DISTRIBUCION%'"))
	assert.Equal(t, "DESC_ARTICULO", st.GroupBy)
	assert.Equal(t, "10", st.Limit)
}

func TestChainLeavesLiteralContentsAlone(t *testing.T) {
	chain := NewChain(zap.NewNop())
	// Literal full of trigger words for identifier, metric and keyword rules.
	input := "SELECT SUM(INGRESOS) FROM VENTAS WHERE DESC_PROMOCION = 'MARGEN INGRESO GENERO monto'"
	out := chain.Apply(input, nlp.Intent{Monetary: true})
	assert.Contains(t, out, "'MARGEN INGRESO GENERO monto'")
}

func TestCheckQuery(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		allowed bool
		token   string
	}{
		{name: "plain select", sql: "SELECT SUM(INGRESOS) FROM VENTAS", allowed: true},
		{name: "drop rejected", sql: "DROP TABLE VENTAS", token: "drop"},
		{name: "update rejected", sql: "UPDATE VENTAS SET INGRESOS = 0", token: "update"},
		{name: "delete rejected case-insensitive", sql: "Delete FROM VENTAS", token: "delete"},
		{name: "line comment rejected", sql: "SELECT 1 -- hidden", token: "--"},
		{name: "block comment rejected", sql: "SELECT /* x */ 1", token: "/*"},
		{name: "keyword inside identifier allowed", sql: "SELECT updated_total FROM VENTAS", allowed: true},
		{name: "keyword inside literal rejected", sql: "SELECT * FROM VENTAS WHERE X = 'drop it'", token: "drop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckQuery(tt.sql)
			assert.Equal(t, tt.allowed, res.Allowed)
			assert.Equal(t, tt.token, res.Token)
		})
	}
}

func TestCheckQueryFlagsInjectedLiteral(t *testing.T) {
	res := CheckQuery("SELECT * FROM VENTAS WHERE DESC_TIENDA = '1'' OR ''1''=''1'")
	assert.False(t, res.Allowed)
	assert.NotEmpty(t, res.Fingerprint)
}
