package cache

import (
	"github.com/neurovia/neurovia-engine/pkg/nlp"
	"github.com/neurovia/neurovia-engine/pkg/sqlfix"
)

// Compatible checks whether a cached SQL query can structurally answer a
// question with the given intent. Similarity alone is not enough: "ventas
// por tienda" and "ventas por canal" embed close together but group by
// different columns.
//
// The check is one-directional: the cached query must carry the
// structures the intent demands, but may carry more. Metric mismatches
// (revenue question hitting a unit-count query) are not detected here;
// the similarity threshold is the only guard for those.
func Compatible(in nlp.Intent, sqlText string) bool {
	if in.Grouping && !sqlfix.HasGroupBy(sqlText) {
		return false
	}
	if in.MentionsStore && !sqlfix.ReferencesColumn(sqlText, "DESC_TIENDA") {
		return false
	}
	if (in.NamedCountry != "" || in.MentionsCountry || in.CrossCountry) &&
		!sqlfix.ReferencesColumn(sqlText, "ENTIDAD") {
		return false
	}
	if in.AsksChannel && !sqlfix.ReferencesColumn(sqlText, "DESC_CANAL") {
		return false
	}
	if in.Gender != "" && !sqlfix.ReferencesColumn(sqlText, "DESC_GENERO") {
		return false
	}
	return true
}
