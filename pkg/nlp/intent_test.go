package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func detect(t *testing.T, question string) Intent {
	t.Helper()
	norm, tags := Normalize(question)
	return DetectIntent(norm, tags)
}

func TestDetectIntentMonetaryAndCurrency(t *testing.T) {
	in := detect(t, "cuanto fue la venta de agosto")
	assert.True(t, in.Monetary)
	assert.False(t, in.HasCurrency)
	assert.True(t, in.HasTemporal)

	in = detect(t, "cuanto fue la venta de agosto en pesos chilenos")
	assert.True(t, in.HasCurrency)

	in = detect(t, "ventas con MONEDA = 'CLP'")
	assert.True(t, in.HasCurrency, "explicit predicate counts as a currency token")
}

func TestDetectIntentTemporal(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"ventas de enero", true},
		{"ventas de 2024", true},
		{"ventas entre FECHA 20250801 y FECHA 20250831", true},
		{"ventas del 15/03/2025", true},
		{"ventas de la ultima semana", true},
		{"cuanto se vendio", false},
	}
	for _, tt := range tests {
		in := detect(t, tt.question)
		assert.Equal(t, tt.want, in.HasTemporal, "question: %s", tt.question)
	}
}

func TestDetectIntentCountry(t *testing.T) {
	in := detect(t, "en que pais se vende mas")
	assert.True(t, in.MentionsCountry)
	assert.Empty(t, in.NamedCountry)
	assert.False(t, in.CrossCountry)

	in = detect(t, "ventas en peru")
	assert.Equal(t, "PE", in.NamedCountry)

	in = detect(t, "ranking de paises por venta")
	assert.True(t, in.CrossCountry)
}

func TestDetectIntentStoresAndDistCenters(t *testing.T) {
	in := detect(t, "cuanto vendio la tienda costanera")
	assert.True(t, in.MentionsStore)
	assert.False(t, in.MentionsDistCenter)

	in = detect(t, "ventas de tiendas incluyendo centros de distribucion")
	assert.True(t, in.MentionsDistCenter)
	assert.True(t, in.IncludeDistCenters)

	in = detect(t, "ventas de tiendas excluyendo centros de distribucion")
	assert.True(t, in.MentionsDistCenter)
	assert.False(t, in.IncludeDistCenters)
}

func TestDetectIntentArticleAndVolume(t *testing.T) {
	in := detect(t, "cual fue el articulo mas vendido")
	assert.True(t, in.ArticleIntent)
	assert.True(t, in.SalesVolume)

	in = detect(t, "cuantos jeans se vendieron")
	assert.True(t, in.ArticleIntent, "a tagged garment type implies article intent")
	assert.Equal(t, "JEANS", in.GarmentType)

	in = detect(t, "cuantas bolsas se vendieron")
	assert.True(t, in.ExplicitServiceAsk)
}

func TestDetectIntentGroupingChannelBelonging(t *testing.T) {
	in := detect(t, "ventas por tienda en enero")
	assert.True(t, in.Grouping)

	in = detect(t, "que canales hay")
	assert.True(t, in.AsksChannel)

	in = detect(t, "a que canal pertenece la tienda costanera")
	assert.True(t, in.Belonging)
	assert.True(t, in.AsksChannel)
}

func TestDetectIntentBuyerAndTransactions(t *testing.T) {
	in := detect(t, "quien compra mas en la tienda costanera")
	assert.True(t, in.BuyerVolume)
	assert.False(t, in.TransactionCount)

	in = detect(t, "cuantas boletas se emitieron en enero")
	assert.True(t, in.TransactionCount)
}

func TestDetectIntentPluralStoreReference(t *testing.T) {
	in := detect(t, "cuanto vendieron esas tiendas [filtro: DESC_TIENDA IN ('COSTANERA','MAIPU')]")
	assert.True(t, in.PluralStores)
}

func TestDetectIntentCarriesTags(t *testing.T) {
	in := detect(t, "poleras levi's para mujer")
	assert.Equal(t, "POLERAS", in.GarmentType)
	assert.Equal(t, "LEVIS", in.Brand)
	assert.Equal(t, "MUJER", in.Gender)
}
