package sqlfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

func TestIdentifierPass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "known singular to plural",
			input:    "SELECT SUM(INGRESO), SUM(COSTO) FROM VENTAS",
			expected: "SELECT SUM(INGRESOS), SUM(COSTOS) FROM VENTAS",
		},
		{
			name:     "known wrong names",
			input:    "SELECT GENERO FROM VENTAS WHERE FECHAS = 20250801 AND TIPO_ARTICULO = 'JEANS'",
			expected: "SELECT DESC_GENERO FROM VENTAS WHERE FECHA = 20250801 AND DESC_TIPO_ARTICULO = 'JEANS'",
		},
		{
			name:     "alias after AS untouched",
			input:    "SELECT SUM(INGRESOS) AS ingreso_total FROM VENTAS",
			expected: "SELECT SUM(INGRESOS) AS ingreso_total FROM VENTAS",
		},
		{
			name:     "near-identical typo corrected",
			input:    "SELECT DESC_TIPO_ARTICULP FROM VENTAS",
			expected: "SELECT DESC_TIPO_ARTICULO FROM VENTAS",
		},
		{
			name:     "literal contents untouched",
			input:    "SELECT INGRESOS FROM VENTAS WHERE DESC_ARTICULO = 'INGRESO LIBRE'",
			expected: "SELECT INGRESOS FROM VENTAS WHERE DESC_ARTICULO = 'INGRESO LIBRE'",
		},
		{
			name:     "keywords and correct columns pass through",
			input:    "SELECT DISTINCT DESC_CANAL FROM VENTAS ORDER BY DESC_CANAL DESC",
			expected: "SELECT DISTINCT DESC_CANAL FROM VENTAS ORDER BY DESC_CANAL DESC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, identifierPass{}.Apply(tt.input, nlp.Intent{}))
		})
	}
}

func TestMetricsPass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "margin becomes revenue minus cost",
			input:    "SELECT DESC_TIENDA, SUM(MARGEN) FROM VENTAS GROUP BY DESC_TIENDA",
			expected: "SELECT DESC_TIENDA, SUM((INGRESOS - COSTOS)) FROM VENTAS GROUP BY DESC_TIENDA",
		},
		{
			name:     "percentage margin wins over plain margin",
			input:    "SELECT MARGEN_PORCENTUAL FROM VENTAS",
			expected: "SELECT ((INGRESOS - COSTOS) / NULLIF(INGRESOS, 0) * 100) FROM VENTAS",
		},
		{
			name:     "amount surrogates",
			input:    "SELECT SUM(MONTO), SUM(IMPORTE) FROM VENTAS",
			expected: "SELECT SUM(INGRESOS), SUM(INGRESOS) FROM VENTAS",
		},
		{
			name:     "margin inside literal untouched",
			input:    "SELECT * FROM VENTAS WHERE DESC_PROMOCION = 'MARGEN EXTRA'",
			expected: "SELECT * FROM VENTAS WHERE DESC_PROMOCION = 'MARGEN EXTRA'",
		},
		{
			name:     "correctly aliased margin untouched",
			input:    "SELECT DESC_TIENDA, SUM(INGRESOS - COSTOS) AS MARGEN FROM VENTAS GROUP BY DESC_TIENDA ORDER BY MARGEN DESC",
			expected: "SELECT DESC_TIENDA, SUM(INGRESOS - COSTOS) AS MARGEN FROM VENTAS GROUP BY DESC_TIENDA ORDER BY MARGEN DESC",
		},
		{
			name:     "aliased amount referenced in having untouched",
			input:    "SELECT DESC_TIENDA, SUM(INGRESOS) AS MONTO FROM VENTAS GROUP BY DESC_TIENDA HAVING MONTO > 1000",
			expected: "SELECT DESC_TIENDA, SUM(INGRESOS) AS MONTO FROM VENTAS GROUP BY DESC_TIENDA HAVING MONTO > 1000",
		},
		{
			name:     "alias definition kept while bare reference elsewhere expands",
			input:    "SELECT SUM(UNIDADES) AS MARGEN_PORCENTUAL, MARGEN FROM VENTAS",
			expected: "SELECT SUM(UNIDADES) AS MARGEN_PORCENTUAL, (INGRESOS - COSTOS) FROM VENTAS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, metricsPass{}.Apply(tt.input, nlp.Intent{}))
		})
	}
}

func TestTypeFamilyPass(t *testing.T) {
	t.Run("garment type moves from line to type column", func(t *testing.T) {
		out := typeFamilyPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_LINEA = 'JEANS'", nlp.Intent{})
		assert.Equal(t, "SELECT * FROM VENTAS WHERE DESC_TIPO_ARTICULO = 'JEANS'", out)
	})

	t.Run("family moves from type to line column", func(t *testing.T) {
		out := typeFamilyPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_TIPO_ARTICULO LIKE '%DENIM%'", nlp.Intent{})
		assert.Equal(t, "SELECT * FROM VENTAS WHERE DESC_LINEA LIKE '%DENIM%'", out)
	})

	t.Run("resolved article drops stray type filter", func(t *testing.T) {
		out := typeFamilyPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_ARTICULO = 'PIN METALICO' AND DESC_TIPO_ARTICULO = 'JEANS'",
			nlp.Intent{ResolvedField: schema.FieldArticle})
		assert.Equal(t, "SELECT * FROM VENTAS WHERE DESC_ARTICULO = 'PIN METALICO'", out)
	})

	t.Run("unknown value stays put", func(t *testing.T) {
		input := "SELECT * FROM VENTAS WHERE DESC_LINEA = 'PREMIUM'"
		assert.Equal(t, input, typeFamilyPass{}.Apply(input, nlp.Intent{}))
	})
}

func TestMerchandisePass(t *testing.T) {
	in := nlp.Intent{ArticleIntent: true}

	t.Run("adds category and service exclusions", func(t *testing.T) {
		out := merchandisePass{}.Apply("SELECT DESC_ARTICULO FROM VENTAS", in)
		assert.Contains(t, out, "COD_CATEGORIA = 'MER'")
		assert.Contains(t, out, "DESC_ARTICULO NOT LIKE '%BOLSA%'")
		assert.Contains(t, out, "DESC_ARTICULO NOT LIKE '%SERVICIO%'")
		assert.Contains(t, out, "DESC_ARTICULO NOT LIKE '%FLETE%'")
	})

	t.Run("explicit service ask disables scoping", func(t *testing.T) {
		input := "SELECT DESC_ARTICULO FROM VENTAS"
		out := merchandisePass{}.Apply(input, nlp.Intent{ArticleIntent: true, ExplicitServiceAsk: true})
		assert.Equal(t, input, out)
	})

	t.Run("existing category filter respected", func(t *testing.T) {
		out := merchandisePass{}.Apply("SELECT DESC_ARTICULO FROM VENTAS WHERE COD_CATEGORIA = 'SER'", in)
		assert.NotContains(t, out, "'MER'")
		assert.Contains(t, out, "COD_CATEGORIA = 'SER'")
	})
}

func TestDistCenterPass(t *testing.T) {
	t.Run("adds every exclusion predicate", func(t *testing.T) {
		out := distCenterPass{}.Apply("SELECT DESC_TIENDA FROM VENTAS", nlp.Intent{})
		for _, pred := range schema.DistributionCenterExclusions {
			assert.Contains(t, out, pred)
		}
	})

	t.Run("cd word covered in every position", func(t *testing.T) {
		// Prefix, interior, suffix and exact forms, matching what
		// schema.IsDistributionCenter flags.
		out := distCenterPass{}.Apply("SELECT DESC_TIENDA FROM VENTAS", nlp.Intent{})
		assert.Contains(t, out, "DESC_TIENDA NOT LIKE 'CD %'")
		assert.Contains(t, out, "DESC_TIENDA NOT LIKE '% CD %'")
		assert.Contains(t, out, "DESC_TIENDA NOT LIKE '% CD'")
		assert.Contains(t, out, "DESC_TIENDA <> 'CD'")
	})

	t.Run("explicit inclusion disables the pass", func(t *testing.T) {
		input := "SELECT DESC_TIENDA FROM VENTAS"
		assert.Equal(t, input, distCenterPass{}.Apply(input, nlp.Intent{IncludeDistCenters: true}))
	})

	t.Run("present pattern not duplicated", func(t *testing.T) {
		input := "SELECT DESC_TIENDA FROM VENTAS WHERE DESC_TIENDA NOT LIKE '%BODEGA CENTRAL%'"
		out := distCenterPass{}.Apply(input, nlp.Intent{})
		assert.Equal(t, 1, strings.Count(out, "BODEGA CENTRAL"))
	})
}

func TestBrandPass(t *testing.T) {
	in := nlp.Intent{Brand: "LEVIS"}

	t.Run("misapplied store filter replaced by brand filter", func(t *testing.T) {
		out := brandPass{}.Apply(
			"SELECT SUM(INGRESOS) FROM VENTAS WHERE DESC_TIENDA LIKE '%LEVIS COSTANERA%'", in)
		assert.NotContains(t, out, "DESC_TIENDA")
		assert.Contains(t, out, "DESC_MARCA = 'LEVIS'")
	})

	t.Run("unrelated filters survive", func(t *testing.T) {
		out := brandPass{}.Apply(
			"SELECT SUM(INGRESOS) FROM VENTAS WHERE DESC_TIENDA = 'MALL PLAZA' AND ENTIDAD = 'CL'", in)
		assert.Contains(t, out, "DESC_TIENDA = 'MALL PLAZA'")
		assert.Contains(t, out, "ENTIDAD = 'CL'")
		assert.Contains(t, out, "DESC_MARCA = 'LEVIS'")
	})

	t.Run("not-like exclusions preserved", func(t *testing.T) {
		out := brandPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_ARTICULO NOT LIKE '%LEVIS OUTLET%'", in)
		assert.Contains(t, out, "NOT LIKE '%LEVIS OUTLET%'")
	})

	t.Run("no brand intent is a no-op", func(t *testing.T) {
		input := "SELECT * FROM VENTAS WHERE DESC_TIENDA LIKE '%LEVIS%'"
		assert.Equal(t, input, brandPass{}.Apply(input, nlp.Intent{}))
	})
}

func TestGenderPass(t *testing.T) {
	in := nlp.Intent{Gender: "MUJER"}

	t.Run("gender word on article column replaced by gender filter", func(t *testing.T) {
		out := genderPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_ARTICULO LIKE '%MUJER%'", in)
		assert.NotContains(t, out, "DESC_ARTICULO")
		assert.Contains(t, out, "DESC_GENERO = 'MUJER'")
	})

	t.Run("synonym literal also removed", func(t *testing.T) {
		out := genderPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_TIPO_ARTICULO LIKE '%JEANS DAMA%'", in)
		assert.NotContains(t, out, "DAMA")
		assert.Contains(t, out, "DESC_GENERO = 'MUJER'")
	})

	t.Run("existing gender filter normalized to canonical", func(t *testing.T) {
		out := genderPass{}.Apply(
			"SELECT * FROM VENTAS WHERE DESC_GENERO = 'Mujer'", in)
		assert.Equal(t, "SELECT * FROM VENTAS WHERE DESC_GENERO = 'MUJER'", out)
	})
}

func TestCurrencyPass(t *testing.T) {
	t.Run("unit query drops currency filter", func(t *testing.T) {
		out := currencyPass{}.Apply(
			"SELECT DESC_ARTICULO, SUM(UNIDADES) FROM VENTAS WHERE MONEDA = 'CLP' GROUP BY DESC_ARTICULO", nlp.Intent{})
		assert.NotContains(t, out, "MONEDA")
	})

	t.Run("monetary projection keeps currency filter", func(t *testing.T) {
		input := "SELECT SUM(INGRESOS) FROM VENTAS WHERE MONEDA = 'CLP'"
		assert.Equal(t, input, currencyPass{}.Apply(input, nlp.Intent{}))
	})

	t.Run("derived margin counts as monetary", func(t *testing.T) {
		input := "SELECT SUM((INGRESOS - COSTOS)) FROM VENTAS WHERE MONEDA = 'CLP'"
		assert.Equal(t, input, currencyPass{}.Apply(input, nlp.Intent{}))
	})
}

func TestReturnsPass(t *testing.T) {
	in := nlp.Intent{SalesVolume: true}

	t.Run("volume query excludes returns", func(t *testing.T) {
		out := returnsPass{}.Apply(
			"SELECT DESC_ARTICULO, SUM(UNIDADES) FROM VENTAS GROUP BY DESC_ARTICULO", in)
		assert.Contains(t, out, "UNIDADES > 0")
	})

	t.Run("explicit unit predicate wins", func(t *testing.T) {
		input := "SELECT DESC_ARTICULO FROM VENTAS WHERE UNIDADES < 0"
		assert.Equal(t, input, returnsPass{}.Apply(input, in))
	})

	t.Run("non-volume query untouched", func(t *testing.T) {
		input := "SELECT DISTINCT DESC_CANAL FROM VENTAS"
		assert.Equal(t, input, returnsPass{}.Apply(input, nlp.Intent{}))
	})
}

func TestDistinctPass(t *testing.T) {
	in := nlp.Intent{Belonging: true}

	t.Run("membership answer deduplicated", func(t *testing.T) {
		out := distinctPass{}.Apply(
			"SELECT DESC_CANAL FROM VENTAS WHERE DESC_TIENDA = 'COSTANERA CENTER'", in)
		assert.Contains(t, out, "SELECT DISTINCT DESC_CANAL")
	})

	t.Run("aggregates left alone", func(t *testing.T) {
		input := "SELECT DESC_CANAL, COUNT(*) FROM VENTAS GROUP BY DESC_CANAL"
		assert.Equal(t, input, distinctPass{}.Apply(input, in))
	})

	t.Run("already distinct unchanged", func(t *testing.T) {
		input := "SELECT DISTINCT DESC_CANAL FROM VENTAS"
		assert.Equal(t, input, distinctPass{}.Apply(input, in))
	})
}

func TestSeparatorPass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dangling AND glued back",
			input:    "SELECT * FROM VENTAS WHERE ENTIDAD = 'CL'; AND UNIDADES > 0",
			expected: "SELECT * FROM VENTAS WHERE ENTIDAD = 'CL' AND UNIDADES > 0",
		},
		{
			name:     "dangling GROUP BY glued back",
			input:    "SELECT DESC_TIENDA, SUM(INGRESOS) FROM VENTAS;\nGROUP BY DESC_TIENDA",
			expected: "SELECT DESC_TIENDA, SUM(INGRESOS) FROM VENTAS GROUP BY DESC_TIENDA",
		},
		{
			name:     "doubled and trailing semicolons",
			input:    "SELECT 1;; SELECT 2;",
			expected: "SELECT 1; SELECT 2",
		},
		{
			name:     "semicolon inside literal untouched",
			input:    "SELECT * FROM VENTAS WHERE DESC_TIENDA = 'X; AND Y'",
			expected: "SELECT * FROM VENTAS WHERE DESC_TIENDA = 'X; AND Y'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, separatorPass{}.Apply(tt.input, nlp.Intent{}))
		})
	}
}

func TestAggregationPass(t *testing.T) {
	in := nlp.Intent{BuyerVolume: true}

	t.Run("row count becomes unit sum", func(t *testing.T) {
		out := aggregationPass{}.Apply(
			"SELECT NOMBRE_CLIENTE, COUNT(*) FROM VENTAS GROUP BY NOMBRE_CLIENTE ORDER BY 2 DESC", in)
		assert.Contains(t, out, "SUM(UNIDADES)")
		assert.NotContains(t, out, "COUNT")
	})

	t.Run("document count becomes unit sum", func(t *testing.T) {
		out := aggregationPass{}.Apply(
			"SELECT NOMBRE_CLIENTE, COUNT(DISTINCT NUMERO_DOCUMENTO) FROM VENTAS GROUP BY NOMBRE_CLIENTE", in)
		assert.Contains(t, out, "SUM(UNIDADES)")
	})

	t.Run("explicit transaction ask keeps the count", func(t *testing.T) {
		input := "SELECT NOMBRE_CLIENTE, COUNT(DISTINCT NUMERO_DOCUMENTO) FROM VENTAS GROUP BY NOMBRE_CLIENTE"
		out := aggregationPass{}.Apply(input, nlp.Intent{BuyerVolume: true, TransactionCount: true})
		assert.Equal(t, input, out)
	})
}

func TestPassesSkipNonFactStatements(t *testing.T) {
	// Statement-level passes must ignore statements over other tables.
	input := "SELECT * FROM inventario WHERE DESC_TIENDA LIKE '%LEVIS%'"
	in := nlp.Intent{
		Brand: "LEVIS", Gender: "MUJER",
		ArticleIntent: true, SalesVolume: true, Belonging: true,
	}
	for _, p := range []Pass{
		typeFamilyPass{}, merchandisePass{}, distCenterPass{},
		brandPass{}, genderPass{}, currencyPass{}, returnsPass{}, distinctPass{},
	} {
		assert.Equal(t, input, p.Apply(input, in), "pass %s", p.Name())
	}
}

func TestGateResultAllowed(t *testing.T) {
	res := CheckQuery("SELECT SUM(INGRESOS) FROM VENTAS WHERE ENTIDAD = 'CL'")
	require.True(t, res.Allowed)
	assert.Empty(t, res.Token)
}
