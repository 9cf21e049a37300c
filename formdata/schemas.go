package formdata

// Layered registration shapes. Forum is the minimal signup; membership is
// forum plus a mailing address; donation carries only the donor's name.
// Validation tries the narrow shape first and widens only when a
// discriminating address field is present.

var forumColumns = []string{
	ColumnFirstName,
	ColumnLastName,
	ColumnEmail,
	ColumnPhone,
}

var addressColumns = []string{
	ColumnStreetAddress,
	ColumnCity,
	ColumnState,
	ColumnZipCode,
}

var donationColumns = []string{
	ColumnFirstName,
	ColumnLastName,
}

// missingColumns returns the schema columns absent from valid, in schema order
func missingColumns(valid map[string]string, columns []string) []string {
	var missing []string
	for _, col := range columns {
		if valid[col] == "" {
			missing = append(missing, col)
		}
	}
	return missing
}

// CheckForumSchema returns the forum-shape columns missing from valid
func CheckForumSchema(valid map[string]string) []string {
	return missingColumns(valid, forumColumns)
}

// CheckMembershipSchema returns the membership-shape columns missing from
// valid. Membership is the forum shape widened with address columns.
func CheckMembershipSchema(valid map[string]string) []string {
	missing := missingColumns(valid, forumColumns)
	return append(missing, missingColumns(valid, addressColumns)...)
}

// CheckDonationSchema returns the donation-shape columns missing from valid
func CheckDonationSchema(valid map[string]string) []string {
	return missingColumns(valid, donationColumns)
}

// HasAddressFields reports whether any address column validated, which is
// the signal to widen from the forum shape to the membership shape.
func HasAddressFields(valid map[string]string) bool {
	for _, col := range addressColumns {
		if valid[col] != "" {
			return true
		}
	}
	return false
}
