package nlp

import (
	"regexp"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Intent is the rule-derived reading of a (normalized, resolved) question.
// It drives clarification, cache compatibility and the corrector chain.
type Intent struct {
	Monetary        bool // references sales, revenue, cost, price, margin, ticket
	HasCurrency     bool // an explicit currency token is present
	HasTemporal     bool // any temporal expression is present
	MentionsCountry bool // the general notion of "country"
	NamedCountry    string // ENTIDAD code of a specific named country
	CrossCountry    bool // cross-country ranking/grouping intent

	MentionsStore      bool
	MentionsDistCenter bool // any distribution-center phrasing, incl/excl
	IncludeDistCenters bool // user explicitly wants DCs counted
	PluralStores       bool // refers to a previously resolved store list

	ExplicitServiceAsk bool // services/bags asked for by name
	ArticleIntent      bool // product/article framing
	SalesVolume        bool // sold/top/best-selling/cheap/expensive framing
	Grouping           bool // "por X" phrasing
	AsksChannel        bool
	Belonging          bool // "which channel/country does X belong to"
	BuyerVolume        bool // "who buys the most"
	TransactionCount   bool // explicit document/ticket count ask

	Gender      string // canonical DESC_GENERO value
	Brand       string // canonical DESC_MARCA value
	GarmentType string // canonical DESC_TIPO_ARTICULO value

	// ResolvedField is set by the reference resolver when an anaphor was
	// substituted; article resolution suppresses type enforcement.
	ResolvedField schema.Field
}

var (
	reMonetary  = regexp.MustCompile(`(?i)\b(venta|ventas|vendido|vendidos|vendida|vendidas|ingreso|ingresos|costo|costos|precio|precios|margen|ticket|facturacion|monto|caro|caros|barato|baratos)\b`)
	reCurrency  = regexp.MustCompile(`(?i)\b(clp|pen|bob|usd|peso|pesos|sol|soles|dolar|dolares|bolivianos|moneda\s*=)\b`)
	reTemporal  = regexp.MustCompile(`(?i)\b((19|20)\d{2}|\d{8}|hoy|ayer|ultimo|ultima|ultimos|ultimas|semana|mes|trimestre|temporada|enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)\b|\d{1,2}/\d{1,2}/\d{4}`)
	reCountryW  = regexp.MustCompile(`(?i)\bpais(es)?\b`)
	reCrossCtry = regexp.MustCompile(`(?i)\b(por pais|cada pais|todos los paises|entre paises|ranking de paises|comparar paises)\b`)
	reStore     = regexp.MustCompile(`(?i)\b(tienda|tiendas|local|locales|sucursal|sucursales)\b`)
	reDC        = regexp.MustCompile(`(?i)(centro de distribucion|centros de distribucion|bodega central|\bcd\b)`)
	reInclDC    = regexp.MustCompile(`(?i)(incluyendo|incluir|con los?)\s+(los\s+)?(centros? de distribucion|cd|bodegas?)`)
	reService   = regexp.MustCompile(`(?i)\b(bolsa|bolsas|servicio|servicios|flete|fletes|embalaje)\b`)
	reArticle   = regexp.MustCompile(`(?i)\b(articulo|articulos|producto|productos|prenda|prendas)\b`)
	reVolume    = regexp.MustCompile(`(?i)\b(vendido|vendidos|vendida|vendidas|top|mas vendid\w*|mejor venta|caro|caros|barato|baratos)\b`)
	reGrouping  = regexp.MustCompile(`(?i)\bpor\s+(tienda|tiendas|local|canal|canales|pais|paises|marca|marcas|mes|ano|dia|genero|tipo|linea|cliente)\b|\bpor cada\b`)
	reChannel   = regexp.MustCompile(`(?i)\bcanal(es)?\b`)
	reBelonging = regexp.MustCompile(`(?i)(pertenece|a que (canal|pais)|de que (canal|pais)|a cual (canal|pais))`)
	reBuyer     = regexp.MustCompile(`(?i)(quien compra mas|quien mas compra|cliente que mas compra|quien es el que mas compra)`)
	reTxCount   = regexp.MustCompile(`(?i)\b(boletas?|documentos?|transacciones|numero de documentos|cantidad de boletas)\b`)
	rePluralRef = regexp.MustCompile(`(?i)DESC_TIENDA\s+IN\s*\(`)
)

// DetectIntent derives an Intent from a normalized, reference-resolved
// question and the normalizer's tags.
func DetectIntent(question string, tags Tags) Intent {
	q := FoldAccents(question)

	in := Intent{
		Monetary:           reMonetary.MatchString(q),
		HasCurrency:        reCurrency.MatchString(q) || tags.Currency != "",
		HasTemporal:        reTemporal.MatchString(q),
		MentionsCountry:    reCountryW.MatchString(q),
		NamedCountry:       tags.Country,
		CrossCountry:       reCrossCtry.MatchString(q),
		MentionsStore:      reStore.MatchString(q),
		MentionsDistCenter: reDC.MatchString(q),
		IncludeDistCenters: reInclDC.MatchString(q),
		PluralStores:       rePluralRef.MatchString(q),
		ExplicitServiceAsk: reService.MatchString(q),
		SalesVolume:        reVolume.MatchString(q),
		Grouping:           reGrouping.MatchString(q),
		AsksChannel:        reChannel.MatchString(q),
		Belonging:          reBelonging.MatchString(q),
		BuyerVolume:        reBuyer.MatchString(q),
		TransactionCount:   reTxCount.MatchString(q),
		Gender:             tags.Gender,
		Brand:              tags.Brand,
		GarmentType:        tags.GarmentType,
	}
	in.ArticleIntent = reArticle.MatchString(q) || tags.GarmentType != ""
	return in
}
