package conversation

import (
	"fmt"
	"strings"

	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// Dimension identifies one independent clarification flag. The engine is
// not a linear state machine: any subset of dimensions can be missing at
// once and all of them are collected in a single round trip.
type Dimension string

const (
	DimCurrency   Dimension = "currency"
	DimCountry    Dimension = "country"
	DimDateRange  Dimension = "date_range"
	DimStoreScope Dimension = "store_scope"
)

// Pending is the transient disambiguation record for a suspended question.
// Created when MissingDimensions is non-empty, consumed on confirmation.
type Pending struct {
	Question string
	Intent   nlp.Intent
	Missing  []Dimension
}

// Answers carries the user's clarification choices back into the pipeline.
type Answers struct {
	Currency           string // MONEDA code
	Country            string // ENTIDAD code
	FromDateKey        int    // YYYYMMDD
	ToDateKey          int    // YYYYMMDD
	IncludeDistCenters bool
}

// MissingDimensions evaluates the independent ambiguity flags against the
// question's intent. An empty result means the stage is a pass-through.
func MissingDimensions(in nlp.Intent) []Dimension {
	var missing []Dimension

	needsCountry := in.MentionsCountry && in.NamedCountry == "" && !in.CrossCountry && !in.PluralStores

	// Monetary questions need a currency; naming a single country also
	// implies one, since each entity trades in its local currency. When
	// the country itself is still open, the answer will name one, so the
	// currency is requested in the same round rather than suspending a
	// second time after the country arrives.
	if (in.Monetary || in.NamedCountry != "" || needsCountry) && !in.HasCurrency {
		missing = append(missing, DimCurrency)
	}

	if needsCountry {
		missing = append(missing, DimCountry)
	}

	if !in.HasTemporal {
		missing = append(missing, DimDateRange)
	}

	if in.MentionsStore && !in.MentionsDistCenter {
		missing = append(missing, DimStoreScope)
	}

	return missing
}

// ApplyAnswers rewrites the suspended question by appending explicit,
// unambiguous clauses for each answered dimension. Centralizing the
// rewrite here decouples what was asked of the user from how it is
// phrased for the generator.
func ApplyAnswers(question string, missing []Dimension, a Answers) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(question))

	for _, dim := range missing {
		switch dim {
		case DimCurrency:
			if name, ok := schema.CurrencyNames[a.Currency]; ok {
				fmt.Fprintf(&b, " en %s (MONEDA = '%s')", name, a.Currency)
			}
		case DimCountry:
			if name, ok := schema.CountryNames[a.Country]; ok {
				fmt.Fprintf(&b, " en %s (ENTIDAD = '%s')", name, a.Country)
			}
		case DimDateRange:
			if a.FromDateKey > 0 && a.ToDateKey > 0 {
				fmt.Fprintf(&b, " entre FECHA %d y FECHA %d", a.FromDateKey, a.ToDateKey)
			}
		case DimStoreScope:
			if a.IncludeDistCenters {
				b.WriteString(" incluyendo centros de distribucion")
			} else {
				b.WriteString(" excluyendo centros de distribucion")
			}
		}
	}

	return b.String()
}
