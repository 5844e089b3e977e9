package profile

import "strings"

var (
	// Suffix/prefix conventions that suggest an identifier column.
	idNameSuffixes = []string{"_id", "_key", "_code", "_uuid", "_guid", "_no", "_nr"}
	idNamePrefixes = []string{"id_", "key_"}
)

// looksLikeIdentifierName reports whether the column name follows an
// identifier naming convention (ID, CUSTOMER_ID, id_product).
func looksLikeIdentifierName(name string) bool {
	lower := strings.ToLower(name)
	if lower == "id" || lower == "key" || lower == "uuid" || lower == "guid" {
		return true
	}
	for _, suffix := range idNameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, prefix := range idNamePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// ClassifyRole assigns a best-effort semantic role to a column. The rules
// are ordered; the first match wins:
//
//  1. near-unique (distinct/non-null >= IDUniqueRatio) with a pure integer
//     or pure string type set -> id
//  2. numeric summary present and the type set includes float, or the value
//     range is wide relative to the sampled distinct count -> measure
//  3. everything else -> dimension
//
// An identifier-looking name may pull a borderline rule-1 candidate into id,
// but never overrides a rule-2 measure signal. Advisory only.
func ClassifyRole(info ColumnTypeInfo, distinct int, numeric *NumericSummary, opts Options) RoleHint {
	opts = opts.normalize()

	nonNull := info.NonNullCount()
	pureScalar := isPureKind(info, KindInteger) || isPureKind(info, KindString)

	if nonNull > 0 && pureScalar {
		ratio := float64(distinct) / float64(nonNull)
		if ratio >= opts.IDUniqueRatio {
			return RoleID
		}
	}

	if numeric != nil {
		if info.HasKind(KindFloat) {
			return RoleMeasure
		}
		if distinct > 1 && numeric.Max-numeric.Min > float64(distinct) {
			return RoleMeasure
		}
	}

	// Name hint: rescue borderline id candidates that fell just under the
	// uniqueness ratio. Runs after rule 2 so a measure signal always wins.
	if nonNull > 0 && pureScalar && looksLikeIdentifierName(info.Name) {
		ratio := float64(distinct) / float64(nonNull)
		if ratio >= opts.IDUniqueRatio*0.9 {
			return RoleID
		}
	}

	return RoleDimension
}

// isPureKind reports whether the observed non-null kinds are exactly {kind}.
// Nulls are ignored: {integer, null} still counts as pure integer.
func isPureKind(info ColumnTypeInfo, kind ValueKind) bool {
	found := false
	for _, k := range info.InferredTypes {
		switch k {
		case KindNull:
		case kind:
			found = true
		default:
			return false
		}
	}
	return found
}
