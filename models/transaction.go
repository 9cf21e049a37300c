package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is one ingested commerce transaction. ExternalID is the natural
// key for upserts; SKUs, ParsedFormData and RawFormData are positionally
// aligned, index i always describes the same line item in all three.
type Transaction struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ExternalID     string          `gorm:"column:external_id;uniqueIndex;not null" json:"externalId"`
	Date           time.Time       `gorm:"column:date" json:"date"`
	Amount         float64         `gorm:"column:amount" json:"amount"`
	Fee            float64         `gorm:"column:fee" json:"fee"`
	Platform       PaymentPlatform `gorm:"column:platform" json:"platform"`
	SKUs           StringSlice     `gorm:"column:skus" json:"skus"`
	ParsedFormData LineItemList    `gorm:"column:parsed_form_data" json:"parsedFormData"`
	RawFormData    RawFormList     `gorm:"column:raw_form_data" json:"rawFormData"`
	Issues         IssueList       `gorm:"column:issues" json:"issues"`
	BaseModel
}

// TableName sets the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns a synthetic external id to manually entered mail
// orders, which never get one from the gateway.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ExternalID == "" {
		t.ExternalID = "manual_" + uuid.New().String()
	}
	return t.BaseModel.BeforeCreate(tx)
}

// HasIssues reports whether ingestion degraded this transaction
func (t *Transaction) HasIssues() bool {
	return len(t.Issues) > 0
}

// AddIssue appends a recoverable problem to the transaction's issue trail
func (t *Transaction) AddIssue(code IssueCode, message string, info map[string]interface{}) {
	t.Issues = append(t.Issues, Issue{Message: message, Code: code, Info: info})
}
