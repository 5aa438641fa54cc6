package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"patientdir/internal/patient/models"
)

// Field names a sortable record attribute.
type Field string

const (
	FieldAge          Field = "age"
	FieldName         Field = "name"
	FieldMedicalIssue Field = "medicalIssue"
)

// Fields lists the sortable fields in display order.
var Fields = []Field{FieldName, FieldAge, FieldMedicalIssue}

// Direction is the order of a single sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrDuplicateSortKey = errors.New("sort field already active")
)

// ParseField accepts the canonical field names plus the snake_case spelling
// used by the data document.
func ParseField(s string) (Field, error) {
	switch strings.TrimSpace(s) {
	case "age":
		return FieldAge, nil
	case "name", "patient_name":
		return FieldName, nil
	case "medicalIssue", "medical_issue":
		return FieldMedicalIssue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

// ParseDirection defaults to ascending for an empty string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// SortKey is one (field, direction) pair.
type SortKey struct {
	Field     Field
	Direction Direction
}

func (k SortKey) String() string {
	return string(k.Field) + ":" + string(k.Direction)
}

// SortKeys is an ordered list of active sort keys. A field appears at most
// once. Methods never modify the receiver.
type SortKeys []SortKey

// Has reports whether field is active.
func (ks SortKeys) Has(f Field) bool {
	return ks.index(f) >= 0
}

// Direction returns the direction of an active field.
func (ks SortKeys) Direction(f Field) (Direction, bool) {
	if i := ks.index(f); i >= 0 {
		return ks[i].Direction, true
	}
	return "", false
}

// Add appends a key. Duplicate and unknown fields are rejected.
func (ks SortKeys) Add(f Field, d Direction) (SortKeys, error) {
	if !slices.Contains(Fields, f) {
		return ks, fmt.Errorf("%w: %q", ErrUnknownSortField, f)
	}
	if ks.Has(f) {
		return ks, fmt.Errorf("%w: %s", ErrDuplicateSortKey, f)
	}
	if d != Desc {
		d = Asc
	}
	out := slices.Clone(ks)
	return append(out, SortKey{Field: f, Direction: d}), nil
}

// Remove drops the field together with its direction.
func (ks SortKeys) Remove(f Field) SortKeys {
	i := ks.index(f)
	if i < 0 {
		return ks
	}
	return slices.Delete(slices.Clone(ks), i, i+1)
}

// Toggle flips the direction of one field, leaving the others alone.
func (ks SortKeys) Toggle(f Field) SortKeys {
	i := ks.index(f)
	if i < 0 {
		return ks
	}
	out := slices.Clone(ks)
	if out[i].Direction == Desc {
		out[i].Direction = Asc
	} else {
		out[i].Direction = Desc
	}
	return out
}

func (ks SortKeys) String() string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",")
}

func (ks SortKeys) index(f Field) int {
	return slices.IndexFunc(ks, func(k SortKey) bool { return k.Field == f })
}

// ParseSortKeys reads "age:asc,name:desc". Empty input yields no keys.
func ParseSortKeys(s string) (SortKeys, error) {
	var keys SortKeys
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fieldStr, dirStr, _ := strings.Cut(part, ":")
		f, err := ParseField(fieldStr)
		if err != nil {
			return nil, err
		}
		d, err := ParseDirection(dirStr)
		if err != nil {
			return nil, err
		}
		if keys, err = keys.Add(f, d); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Comparator orders two records. Zero means equal rank.
type Comparator func(a, b models.Patient) int

// Comparator composes the keys by sequential tie-breaking. With no keys it
// returns nil, meaning "keep the current order".
func (ks SortKeys) Comparator() Comparator {
	if len(ks) == 0 {
		return nil
	}
	keys := slices.Clone(ks)
	return func(a, b models.Patient) int {
		for _, k := range keys {
			c := compareField(k.Field, a, b)
			if k.Direction == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
}

func compareField(f Field, a, b models.Patient) int {
	switch f {
	case FieldAge:
		return cmp.Compare(a.AgeOrZero(), b.AgeOrZero())
	case FieldName:
		return strings.Compare(fold(a.Name), fold(b.Name))
	case FieldMedicalIssue:
		return strings.Compare(fold(a.MedicalIssue), fold(b.MedicalIssue))
	}
	return 0
}
