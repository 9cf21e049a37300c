package models

import "time"

// SyncWarning is one degraded transaction in a sync run summary
type SyncWarning struct {
	ID         uint      `json:"id"`
	ExternalID string    `json:"externalId"`
	Issues     IssueList `json:"issues"`
	Date       time.Time `json:"date"`
}

// NewMemberSummary is the operator-facing view of a member the run created
type NewMemberSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SyncSummary is the cron endpoint's response body
type SyncSummary struct {
	Message    string             `json:"message"`
	Warnings   []SyncWarning      `json:"warnings"`
	NewMembers []NewMemberSummary `json:"new_members"`
}

// UpdateMemberRequest carries the admin UI's partial member update
type UpdateMemberRequest struct {
	FirstName             *string `json:"firstName,omitempty"`
	LastName              *string `json:"lastName,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	StreetAddress         *string `json:"streetAddress,omitempty"`
	City                  *string `json:"city,omitempty"`
	State                 *string `json:"state,omitempty"`
	ZipCode               *string `json:"zipCode,omitempty"`
	Public                *bool   `json:"public,omitempty"`
	MemberStatus          *string `json:"memberStatus,omitempty"`
	Partner               *string `json:"partner,omitempty"`
	EmergencyContact      *string `json:"emergencyContact,omitempty"`
	EmergencyContactPhone *string `json:"emergencyContactPhone,omitempty"`
}

// ConflictResponse pairs a conflict row with both member records for review
type ConflictResponse struct {
	ID           uint   `json:"id"`
	FirstMember  Member `json:"firstMember"`
	SecondMember Member `json:"secondMember"`
	Resolved     bool   `json:"resolved"`
}
