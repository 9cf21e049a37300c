package models

import (
	"database/sql/driver"
)

// IssueCode is the closed taxonomy of recoverable ingestion problems.
// Downstream tooling filters on these values; do not rename them.
type IssueCode string

const (
	IssueFetchError      IssueCode = "FETCH_ERROR"
	IssueMissingFields   IssueCode = "MISSING_FIELDS"
	IssueProfileNotFound IssueCode = "PROFILE_NOT_FOUND"
	IssueOrderNotFound   IssueCode = "ORDER_NOT_FOUND"
	IssueSKUUnassigned   IssueCode = "SKU_UNASSIGNED"
	IssueMemberConflict  IssueCode = "MEMBER_CONFLICT"
	IssueValidationError IssueCode = "VALIDATION_ERROR"
)

// Issue is a recoverable problem recorded against a transaction instead of
// aborting the batch. Info carries structured context but never the parent
// transaction's own ids, which are implicit.
type Issue struct {
	Message string                 `json:"message"`
	Code    IssueCode              `json:"code"`
	Info    map[string]interface{} `json:"info,omitempty"`
}

// IssueList is a JSON-encoded array of issues stored on the transaction row
type IssueList []Issue

// Scan implements the sql.Scanner interface for IssueList
func (il *IssueList) Scan(value interface{}) error {
	if value == nil {
		*il = IssueList{}
		return nil
	}
	return scanJSON(value, il)
}

// Value implements the driver.Valuer interface for IssueList
func (il IssueList) Value() (driver.Value, error) {
	if il == nil {
		il = IssueList{}
	}
	return marshalJSON(il)
}

// GormDataType gorm common data type
func (IssueList) GormDataType() string {
	return "jsonb"
}
