package formdata

import "strings"

// Canonical column names produced by normalization
const (
	ColumnFirstName             = "first_name"
	ColumnLastName              = "last_name"
	ColumnEmail                 = "email"
	ColumnPhone                 = "phone"
	ColumnStreetAddress         = "street_address"
	ColumnCity                  = "city"
	ColumnState                 = "state"
	ColumnZipCode               = "zip_code"
	ColumnEmergencyContact      = "emergency_contact"
	ColumnEmergencyContactPhone = "emergency_contact_phone"
	ColumnPublic                = "public"
)

// labelName is the form label that expands into first_name + last_name
const labelName = "name"

// maxUnmappedLabelLen: labels longer than this that are not in the registry
// are known free-text narrative fields and are skipped without comment.
// Shorter unmapped labels get reported so a registry gap is noticed.
const maxUnmappedLabelLen = 30

// Field describes how one known form label maps to a canonical column
type Field struct {
	Column     string
	Preprocess func(string) string
	Validate   func(string) error
}

// registry maps lowercased form-field labels, including historical aliases
// from old form revisions, to their canonical column and rules.
var registry = map[string]Field{
	"first name": {Column: ColumnFirstName, Preprocess: collapseWhitespace, Validate: validateNonEmpty},
	"last name":  {Column: ColumnLastName, Preprocess: collapseWhitespace, Validate: validateNonEmpty},

	"email":         {Column: ColumnEmail, Preprocess: lowerTrim, Validate: validateEmail},
	"email address": {Column: ColumnEmail, Preprocess: lowerTrim, Validate: validateEmail},

	"phone":        {Column: ColumnPhone, Preprocess: digitsOnly, Validate: validatePhone},
	"phone number": {Column: ColumnPhone, Preprocess: digitsOnly, Validate: validatePhone},

	"address":        {Column: ColumnStreetAddress, Preprocess: collapseWhitespace, Validate: validateNonEmpty},
	"street address": {Column: ColumnStreetAddress, Preprocess: collapseWhitespace, Validate: validateNonEmpty},

	"city": {Column: ColumnCity, Preprocess: collapseWhitespace, Validate: validateNonEmpty},

	"state": {Column: ColumnState, Preprocess: upperTrim, Validate: validateState},

	"zip":      {Column: ColumnZipCode, Preprocess: collapseWhitespace, Validate: validateZip},
	"zip code": {Column: ColumnZipCode, Preprocess: collapseWhitespace, Validate: validateZip},

	"emergency contact":      {Column: ColumnEmergencyContact, Preprocess: collapseWhitespace, Validate: validateNonEmpty},
	"emergency contact name": {Column: ColumnEmergencyContact, Preprocess: collapseWhitespace, Validate: validateNonEmpty},

	"emergency contact phone": {Column: ColumnEmergencyContactPhone, Preprocess: digitsOnly, Validate: validatePhone},

	"include in member directory?": {Column: ColumnPublic, Preprocess: lowerTrim, Validate: validateYesNo},
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func upperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
