package models

// Member is the master identity record. Reconciliation creates one per
// unmatched membership line item and only ever links (never overwrites)
// existing rows. The ascending internal id is the deterministic tie-break.
type Member struct {
	ID                    uint   `gorm:"primarykey" json:"id"`
	FirstName             string `gorm:"column:first_name;not null;index:idx_members_name" json:"firstName"`
	LastName              string `gorm:"column:last_name;not null;index:idx_members_name" json:"lastName"`
	Email                 string `gorm:"column:email" json:"email,omitempty"`
	Phone                 string `gorm:"column:phone" json:"phone,omitempty"`
	StreetAddress         string `gorm:"column:street_address" json:"streetAddress,omitempty"`
	City                  string `gorm:"column:city" json:"city,omitempty"`
	State                 string `gorm:"column:state" json:"state,omitempty"`
	ZipCode               string `gorm:"column:zip_code" json:"zipCode,omitempty"`
	EmergencyContact      string `gorm:"column:emergency_contact" json:"emergencyContact,omitempty"`
	EmergencyContactPhone string `gorm:"column:emergency_contact_phone" json:"emergencyContactPhone,omitempty"`
	Public                bool   `gorm:"column:public;default:false" json:"public"`
	MemberStatus          string `gorm:"column:member_status" json:"memberStatus,omitempty"`
	Type                  string `gorm:"column:type" json:"type,omitempty"`
	Partner               string `gorm:"column:partner" json:"partner,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Member) TableName() string {
	return "members"
}

// MemberTransaction links a member to one specific line item of a
// transaction. The composite unique key makes re-linking on re-sync a no-op.
type MemberTransaction struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	MemberID      uint    `gorm:"column:member_id;not null;uniqueIndex:idx_member_txn_line" json:"memberId"`
	TransactionID uint    `gorm:"column:transaction_id;not null;uniqueIndex:idx_member_txn_line" json:"transactionId"`
	LineItemIndex int     `gorm:"column:line_item_index;not null;uniqueIndex:idx_member_txn_line" json:"lineItemIndex"`
	SKU           string  `gorm:"column:sku" json:"sku"`
	Amount        float64 `gorm:"column:amount" json:"amount"`
	BaseModel
}

// TableName sets the table name for GORM
func (MemberTransaction) TableName() string {
	return "members_to_transactions"
}

// MemberConflict flags two member rows as possibly the same person.
// FirstMemberID < SecondMemberID always; Resolved is only flipped by the
// manual resolve action, never by the pipeline.
type MemberConflict struct {
	ID             uint `gorm:"primarykey" json:"id"`
	FirstMemberID  uint `gorm:"column:first_member_id;not null;uniqueIndex:idx_conflict_pair" json:"firstMemberId"`
	SecondMemberID uint `gorm:"column:second_member_id;not null;uniqueIndex:idx_conflict_pair" json:"secondMemberId"`
	Resolved       bool `gorm:"column:resolved;default:false" json:"resolved"`
	BaseModel
}

// TableName sets the table name for GORM
func (MemberConflict) TableName() string {
	return "member_conflicts"
}
