package formdata

import "strings"

// Pair is one raw label/value form field as received from the gateway
type Pair struct {
	Label string
	Value string
}

// InvalidField explains why one raw field was not accepted
type InvalidField struct {
	RawValue string `json:"rawValue"`
	Reason   string `json:"reason"`
}

// Result is the per-field outcome of normalization. Valid maps canonical
// columns to accepted values; Invalid maps the original labels to what went
// wrong. The two never overlap.
type Result struct {
	Valid   map[string]string
	Invalid map[string]InvalidField
}

// Normalize maps raw form fields to canonical columns, preprocessing and
// validating each. It never fails: every field lands in Valid or Invalid,
// except unknown labels over the length cutoff, which are narrative fields
// and are dropped silently.
func Normalize(pairs []Pair) Result {
	result := Result{
		Valid:   make(map[string]string),
		Invalid: make(map[string]InvalidField),
	}

	for _, pair := range pairs {
		key := strings.ToLower(strings.TrimSpace(pair.Label))

		if key == labelName {
			normalizeNameField(pair, &result)
			continue
		}

		field, ok := registry[key]
		if !ok {
			if len(pair.Label) > maxUnmappedLabelLen {
				continue
			}
			result.Invalid[pair.Label] = InvalidField{RawValue: pair.Value, Reason: "unmapped field"}
			continue
		}

		value := pair.Value
		if field.Preprocess != nil {
			value = field.Preprocess(value)
		}

		if err := field.Validate(value); err != nil {
			result.Invalid[pair.Label] = InvalidField{RawValue: pair.Value, Reason: err.Error()}
			continue
		}

		result.Valid[field.Column] = value
	}

	return result
}

// normalizeNameField splits a combined "Name" field on the first space:
// first token is the first name, the remainder is the last name.
func normalizeNameField(pair Pair, result *Result) {
	value := collapseWhitespace(pair.Value)
	if value == "" {
		result.Invalid[pair.Label] = InvalidField{RawValue: pair.Value, Reason: "value is empty"}
		return
	}

	first, last, found := strings.Cut(value, " ")
	result.Valid[ColumnFirstName] = first
	if found {
		result.Valid[ColumnLastName] = last
	}
}
