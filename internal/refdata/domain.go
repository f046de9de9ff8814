// Package refdata holds the reference vocabularies shared by every domain
// feature (roles, statuses, health-center codes) and the time-bounded cache
// in front of them.
package refdata

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// Type enumerates the reference vocabularies. The set is closed and known
// at compile time, which is why the cache never needs size-based eviction.
type Type string

const (
	TypeRole          Type = "role"
	TypeUserStatus    Type = "user-status"
	TypePatientStatus Type = "patient-status"
	TypeHealthCenter  Type = "health-center"
	TypeRecordType    Type = "record-type"
	TypeTransferState Type = "transfer-state"
)

// KeyAll is the cache key holding the merged collection across all types.
const KeyAll = "all"

// ErrUnknownType indicates a reference-data type outside the closed set.
var ErrUnknownType = errors.New("refdata: unknown reference-data type")

// Types returns the closed type set in declaration order.
func Types() []Type {
	return []Type{
		TypeRole,
		TypeUserStatus,
		TypePatientStatus,
		TypeHealthCenter,
		TypeRecordType,
		TypeTransferState,
	}
}

// ParseType validates a wire-level type name against the closed set.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Item is one reference-vocabulary entry, uniquely identified by
// (type, code) within its type-scoped collection. Labels carries at least
// two locales.
type Item struct {
	Type   Type              `json:"type" validate:"required"`
	Code   string            `json:"code" validate:"required"`
	Labels map[string]string `json:"labels" validate:"required,min=2"`
	Active bool              `json:"active"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// Label returns the label best matching the requested BCP-47 tag, falling
// back through the language matcher's confidence order. The code itself is
// the last resort when no label parses.
func (it Item) Label(locale string) string {
	if len(it.Labels) == 0 {
		return it.Code
	}
	keys := make([]string, 0, len(it.Labels))
	for k := range it.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]language.Tag, 0, len(keys))
	tagged := make([]string, 0, len(keys))
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		tagged = append(tagged, k)
	}
	if len(tags) == 0 {
		return it.Code
	}
	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(language.Make(locale))
	return it.Labels[tagged[idx]]
}
