// Package conversation holds per-conversation referential state: the
// context store of previously resolved entities, anaphora resolution
// against it, and the clarification state machine.
package conversation

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// StoreListMax bounds the plural-anaphora store list kept from the last
// tabular result.
const StoreListMax = 10

// HistoryMax bounds the (question, SQL) pairs carried into the generator
// prompt as conversational context.
const HistoryMax = 5

// TopRef records the top row of a previously computed ranking, used to
// resolve "those articles" style references.
type TopRef struct {
	DateKey int
	Store   string
}

// Exchange is one past (question, generated SQL) pair.
type Exchange struct {
	Question string
	SQL      string
}

// State is the conversation-scoped context store. One instance per
// conversation, created at session start, mutated after every successful
// query execution, cleared on explicit user reset. Turn N's updates are
// visible to turn N+1 by construction (single-threaded per conversation).
type State struct {
	ID uuid.UUID

	values    map[schema.Field]string
	storeList []string
	lastTop   *TopRef
	pending   *Pending
	history   []Exchange
}

// NewState creates an empty conversation state with a fresh ID.
func NewState() *State {
	return NewStateWithID(uuid.New())
}

// NewStateWithID creates an empty conversation state under a caller-chosen
// ID, for clients that pin their own conversation identifiers.
func NewStateWithID(id uuid.UUID) *State {
	return &State{
		ID:     id,
		values: make(map[schema.Field]string),
	}
}

// Get returns the most recent concrete value for a canonical field.
func (s *State) Get(f schema.Field) (string, bool) {
	v, ok := s.values[f]
	return v, ok
}

// Set stores a resolved value for a canonical field. Distribution-center
// names are never stored under the store field. Resolving an article
// clears any lingering type value so "that article" and "that type" do
// not cross-contaminate.
func (s *State) Set(f schema.Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if f == schema.FieldStore && schema.IsDistributionCenter(value) {
		return
	}
	s.values[f] = value
	if f == schema.FieldArticle {
		delete(s.values, schema.FieldType)
	}
}

// SetStoreList replaces the bounded store list used for plural anaphora.
// Distribution centers and duplicates are dropped.
func (s *State) SetStoreList(stores []string) {
	seen := make(map[string]bool, len(stores))
	list := make([]string, 0, StoreListMax)
	for _, v := range stores {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] || schema.IsDistributionCenter(v) {
			continue
		}
		seen[v] = true
		list = append(list, v)
		if len(list) == StoreListMax {
			break
		}
	}
	s.storeList = list
}

// StoreList returns the bounded store list from the last result.
func (s *State) StoreList() []string {
	return s.storeList
}

// SetLastTop records the top-row (date, store) tuple of the last result.
func (s *State) SetLastTop(ref TopRef) {
	if ref.Store == "" || ref.DateKey == 0 || schema.IsDistributionCenter(ref.Store) {
		return
	}
	s.lastTop = &ref
}

// LastTop returns the last recorded top-row tuple.
func (s *State) LastTop() (TopRef, bool) {
	if s.lastTop == nil {
		return TopRef{}, false
	}
	return *s.lastTop, true
}

// Clear resets all referential context. Invoked on explicit user reset.
func (s *State) Clear() {
	s.values = make(map[schema.Field]string)
	s.storeList = nil
	s.lastTop = nil
	s.pending = nil
	s.history = nil
}

// SetPending stores a suspended question awaiting clarification answers.
func (s *State) SetPending(p *Pending) { s.pending = p }

// TakePending consumes and clears the pending clarification, if any.
func (s *State) TakePending() *Pending {
	p := s.pending
	s.pending = nil
	return p
}

// Pending returns the suspended clarification without consuming it.
func (s *State) Pending() *Pending { return s.pending }

// AddExchange appends a (question, SQL) pair to the bounded history.
func (s *State) AddExchange(question, sql string) {
	s.history = append(s.history, Exchange{Question: question, SQL: sql})
	if len(s.history) > HistoryMax {
		s.history = s.history[len(s.history)-HistoryMax:]
	}
}

// History returns up to HistoryMax most recent exchanges, oldest first.
func (s *State) History() []Exchange { return s.history }

// UpdateFromResult inspects a tabular result's columns for canonical-field
// aliases and stores the first non-null value per field. It also refreshes
// the plural store list and the last top-row tuple.
func (s *State) UpdateFromResult(columns []string, rows []map[string]any) {
	if len(rows) == 0 {
		return
	}

	var storeCol, dateCol string
	for _, col := range columns {
		field, ok := schema.FieldForResultColumn(col)
		if !ok {
			if strings.EqualFold(strings.TrimSpace(col), "FECHA") {
				dateCol = col
			}
			continue
		}
		if field == schema.FieldStore {
			storeCol = col
		}
		for _, row := range rows {
			v := stringValue(row[col])
			if v == "" {
				continue
			}
			if field == schema.FieldCountry {
				v = strings.ToUpper(v)
			}
			s.Set(field, v)
			break
		}
	}

	if storeCol != "" {
		stores := make([]string, 0, len(rows))
		for _, row := range rows {
			if v := stringValue(row[storeCol]); v != "" {
				stores = append(stores, v)
			}
		}
		s.SetStoreList(stores)

		if dateCol != "" {
			if key := intValue(rows[0][dateCol]); key > 0 {
				s.SetLastTop(TopRef{DateKey: key, Store: stringValue(rows[0][storeCol])})
			}
		}
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return ""
	}
}

func intValue(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	case []byte:
		n, _ := strconv.Atoi(strings.TrimSpace(string(t)))
		return n
	default:
		return 0
	}
}
