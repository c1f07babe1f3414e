// Package schema defines the fixed sales fact table the assistant queries,
// along with the domain vocabulary (canonical fields, brands, garment types,
// countries, currencies) used by the resolution pipeline.
package schema

import "strings"

// FactTable is the single denormalized sales relation. All descriptive
// dimensions are pre-joined into it; there are no foreign keys.
const FactTable = "VENTAS"

// Tag classifies a column's semantics. Tags are declared once here and
// never re-guessed from result sets at runtime.
type Tag string

const (
	TagMonetary    Tag = "monetary"
	TagPercentage  Tag = "percentage"
	TagCount       Tag = "count"
	TagIdentifier  Tag = "identifier"
	TagDescriptive Tag = "descriptive"
	TagDate        Tag = "date"
)

// Column describes one fact-table column.
type Column struct {
	Name string
	Tag  Tag
}

// Columns is the complete fact-table definition.
var Columns = []Column{
	{Name: "NUMERO_DOCUMENTO", Tag: TagIdentifier},
	{Name: "FECHA", Tag: TagDate}, // numeric YYYYMMDD
	{Name: "MONEDA", Tag: TagDescriptive},
	{Name: "UNIDADES", Tag: TagCount}, // signed; negative means return
	{Name: "INGRESOS", Tag: TagMonetary},
	{Name: "COSTOS", Tag: TagMonetary},
	{Name: "ENTIDAD", Tag: TagIdentifier}, // country code: CL, PE, BO
	{Name: "DESC_TIENDA", Tag: TagDescriptive},
	{Name: "DESC_CANAL", Tag: TagDescriptive},
	{Name: "DESC_MARCA", Tag: TagDescriptive},
	{Name: "DESC_ARTICULO", Tag: TagDescriptive},
	{Name: "DESC_TIPO_ARTICULO", Tag: TagDescriptive},
	{Name: "DESC_LINEA", Tag: TagDescriptive},
	{Name: "DESC_GENERO", Tag: TagDescriptive},
	{Name: "NOMBRE_CLIENTE", Tag: TagDescriptive},
	{Name: "COD_PROMOCION", Tag: TagIdentifier},
	{Name: "DESC_PROMOCION", Tag: TagDescriptive},
	{Name: "TIPO_DOCUMENTO", Tag: TagDescriptive},
	{Name: "COD_CATEGORIA", Tag: TagIdentifier},
}

var columnsByName = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.Name] = c
	}
	return m
}()

// IsColumn reports whether name (case-insensitive) is a fact-table column.
func IsColumn(name string) bool {
	_, ok := columnsByName[strings.ToUpper(name)]
	return ok
}

// ColumnTag returns the semantic tag for a column name.
func ColumnTag(name string) (Tag, bool) {
	c, ok := columnsByName[strings.ToUpper(name)]
	return c.Tag, ok
}

// ColumnNames returns all column names in declaration order.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Field is a canonical descriptive dimension tracked across turns.
type Field string

const (
	FieldStore    Field = "tienda"
	FieldChannel  Field = "canal"
	FieldBrand    Field = "marca"
	FieldArticle  Field = "articulo"
	FieldType     Field = "tipo"
	FieldFamily   Field = "linea"
	FieldGender   Field = "genero"
	FieldCountry  Field = "pais"
	FieldCustomer Field = "cliente"
)

// fieldColumns maps canonical fields to their fact-table columns.
var fieldColumns = map[Field]string{
	FieldStore:    "DESC_TIENDA",
	FieldChannel:  "DESC_CANAL",
	FieldBrand:    "DESC_MARCA",
	FieldArticle:  "DESC_ARTICULO",
	FieldType:     "DESC_TIPO_ARTICULO",
	FieldFamily:   "DESC_LINEA",
	FieldGender:   "DESC_GENERO",
	FieldCountry:  "ENTIDAD",
	FieldCustomer: "NOMBRE_CLIENTE",
}

// FieldColumn returns the fact-table column backing a canonical field.
func FieldColumn(f Field) string {
	return fieldColumns[f]
}

// resultAliases maps result-set column names (lowercased) onto canonical
// fields so that tabular results can feed the conversation context.
var resultAliases = map[string]Field{
	"desc_tienda":        FieldStore,
	"tienda":             FieldStore,
	"local":              FieldStore,
	"desc_canal":         FieldChannel,
	"canal":              FieldChannel,
	"desc_marca":         FieldBrand,
	"marca":              FieldBrand,
	"desc_articulo":      FieldArticle,
	"articulo":           FieldArticle,
	"desc_tipo_articulo": FieldType,
	"tipo_articulo":      FieldType,
	"tipo":               FieldType,
	"desc_linea":         FieldFamily,
	"linea":              FieldFamily,
	"desc_genero":        FieldGender,
	"genero":             FieldGender,
	"entidad":            FieldCountry,
	"pais":               FieldCountry,
	"nombre_cliente":     FieldCustomer,
	"cliente":            FieldCustomer,
}

// FieldForResultColumn maps a result column name to a canonical field.
func FieldForResultColumn(col string) (Field, bool) {
	f, ok := resultAliases[strings.ToLower(strings.TrimSpace(col))]
	return f, ok
}

// Country codes as stored in the ENTIDAD column.
const (
	CountryChile   = "CL"
	CountryPeru    = "PE"
	CountryBolivia = "BO"
)

// CountryNames maps entity codes to display names used in rewritten questions.
var CountryNames = map[string]string{
	CountryChile:   "CHILE",
	CountryPeru:    "PERU",
	CountryBolivia: "BOLIVIA",
}

// CurrencyNames maps MONEDA codes to the display names appended to
// disambiguated questions.
var CurrencyNames = map[string]string{
	"CLP": "PESOS CHILENOS",
	"PEN": "SOLES",
	"BOB": "BOLIVIANOS",
	"USD": "DOLARES",
}

// Category codes stored in COD_CATEGORIA. Non-merchandise rows (services,
// packaging) share the fact table and must be scoped out of article queries.
const (
	CategoryMerchandise = "MER"
	CategoryService     = "SER"
	CategoryBags        = "BOL"
)

// ServiceDescriptionPatterns are DESC_ARTICULO fragments identifying
// service and packaging line items by text convention.
var ServiceDescriptionPatterns = []string{"BOLSA", "SERVICIO", "FLETE"}

// DistributionCenterPatterns are DESC_TIENDA fragments identifying
// distribution centers, which share the store column but are never stores.
var DistributionCenterPatterns = []string{"CENTRO DE DISTRIBUCION", "CD ", "BODEGA CENTRAL"}

// DistributionCenterExclusions are the DESC_TIENDA predicates that scope
// distribution centers out of store queries. The set covers exactly the
// descriptions IsDistributionCenter flags, including ones ending in the
// bare CD word.
var DistributionCenterExclusions = []string{
	"DESC_TIENDA NOT LIKE '%CENTRO DE DISTRIBUCION%'",
	"DESC_TIENDA NOT LIKE '%BODEGA CENTRAL%'",
	"DESC_TIENDA NOT LIKE 'CD %'",
	"DESC_TIENDA NOT LIKE '% CD %'",
	"DESC_TIENDA NOT LIKE '% CD'",
	"DESC_TIENDA <> 'CD'",
}

// IsDistributionCenter reports whether a store description names a
// distribution center rather than a real store.
func IsDistributionCenter(storeDesc string) bool {
	upper := strings.ToUpper(strings.TrimSpace(storeDesc))
	for _, pat := range DistributionCenterPatterns {
		if strings.Contains(upper, strings.TrimSpace(pat)) {
			// "CD " must match as a prefix or interior word, not e.g. "MERCD".
			if strings.TrimSpace(pat) == "CD" {
				if upper == "CD" || strings.HasPrefix(upper, "CD ") || strings.Contains(upper, " CD ") || strings.HasSuffix(upper, " CD") {
					return true
				}
				continue
			}
			return true
		}
	}
	return false
}
