package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var lexiconYAML []byte

// Lexicon maps canonical fact-table values to the informal synonyms users
// type. Loaded once from the embedded lexicon file.
type Lexicon struct {
	Brands     map[string][]string `yaml:"brands"`
	Genders    map[string][]string `yaml:"genders"`
	Types      map[string][]string `yaml:"types"`
	Families   map[string][]string `yaml:"families"`
	Countries  map[string][]string `yaml:"countries"`
	Currencies map[string][]string `yaml:"currencies"`
}

var (
	lexOnce sync.Once
	lex     *Lexicon
	lexErr  error
)

// LoadLexicon parses the embedded lexicon. The result is cached; repeated
// calls return the same instance.
func LoadLexicon() (*Lexicon, error) {
	lexOnce.Do(func() {
		var l Lexicon
		if err := yaml.Unmarshal(lexiconYAML, &l); err != nil {
			lexErr = fmt.Errorf("parse embedded lexicon: %w", err)
			return
		}
		lex = &l
	})
	return lex, lexErr
}

// MustLexicon returns the embedded lexicon or panics. The file is compiled
// into the binary, so a parse failure is a build defect, not a runtime
// condition.
func MustLexicon() *Lexicon {
	l, err := LoadLexicon()
	if err != nil {
		panic(err)
	}
	return l
}

// GarmentTypes returns the canonical garment-type enumeration.
func (l *Lexicon) GarmentTypes() []string {
	return sortedKeys(l.Types)
}

// FamilyValues returns the canonical family/line enumeration.
func (l *Lexicon) FamilyValues() []string {
	return sortedKeys(l.Families)
}

// BrandValues returns the canonical brand enumeration.
func (l *Lexicon) BrandValues() []string {
	return sortedKeys(l.Brands)
}

// IsGarmentType reports whether v (uppercased) is a canonical garment type.
func (l *Lexicon) IsGarmentType(v string) bool {
	_, ok := l.Types[v]
	return ok
}

// IsFamilyValue reports whether v (uppercased) is a canonical family value.
func (l *Lexicon) IsFamilyValue(v string) bool {
	_, ok := l.Families[v]
	return ok
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable order keeps prompt construction and tests deterministic.
	sort.Strings(keys)
	return keys
}
