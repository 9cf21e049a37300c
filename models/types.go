package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ProductType classifies what a catalog SKU sells
type ProductType string

const (
	ProductTypeMembership ProductType = "MEMBERSHIP"
	ProductTypeForum      ProductType = "FORUM"
	ProductTypeDonation   ProductType = "DONATION"
	ProductTypeUnknown    ProductType = "UNKNOWN"
	ProductTypeHidden     ProductType = "HIDDEN"
)

// Scan implements the sql.Scanner interface for ProductType
func (pt *ProductType) Scan(value interface{}) error {
	if value == nil {
		*pt = ProductTypeUnknown
		return nil
	}
	if str, ok := value.(string); ok {
		*pt = ProductType(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ProductType", value)
}

// Value implements the driver.Valuer interface for ProductType
func (pt ProductType) Value() (driver.Value, error) {
	return string(pt), nil
}

// PaymentPlatform identifies where a payment was taken
type PaymentPlatform string

const (
	PaymentPlatformStripe PaymentPlatform = "STRIPE"
	PaymentPlatformPayPal PaymentPlatform = "PAYPAL"
	PaymentPlatformMail   PaymentPlatform = "MAIL"
)

// Scan implements the sql.Scanner interface for PaymentPlatform
func (pp *PaymentPlatform) Scan(value interface{}) error {
	if value == nil {
		*pp = PaymentPlatformMail
		return nil
	}
	if str, ok := value.(string); ok {
		*pp = PaymentPlatform(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into PaymentPlatform", value)
}

// Value implements the driver.Valuer interface for PaymentPlatform
func (pp PaymentPlatform) Value() (driver.Value, error) {
	return string(pp), nil
}

// scanJSON handles the []byte/string duality of JSON columns across drivers
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}

	return json.Unmarshal(bytes, dest)
}

// marshalJSON encodes a JSON column value as text, which both drivers
// store and compare consistently.
func marshalJSON(src interface{}) (driver.Value, error) {
	bytes, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// StringSlice is a JSON-encoded string array column
type StringSlice []string

// Scan implements the sql.Scanner interface for StringSlice
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = StringSlice{}
		return nil
	}
	return scanJSON(value, ss)
}

// Value implements the driver.Valuer interface for StringSlice
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		ss = StringSlice{}
	}
	return marshalJSON(ss)
}

// GormDataType gorm common data type
func (StringSlice) GormDataType() string {
	return "jsonb"
}

// LineItemData is the validated subset of form fields attached to one line item.
// Empty string means the field did not validate or was absent.
type LineItemData struct {
	SKU                   string  `json:"sku"`
	Amount                float64 `json:"amount"`
	FirstName             string  `json:"firstName,omitempty"`
	LastName              string  `json:"lastName,omitempty"`
	Email                 string  `json:"email,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	StreetAddress         string  `json:"streetAddress,omitempty"`
	City                  string  `json:"city,omitempty"`
	State                 string  `json:"state,omitempty"`
	ZipCode               string  `json:"zipCode,omitempty"`
	EmergencyContact      string  `json:"emergencyContact,omitempty"`
	EmergencyContactPhone string  `json:"emergencyContactPhone,omitempty"`
}

// LineItemList is a JSON-encoded array of LineItemData, parallel to Transaction.SKUs
type LineItemList []LineItemData

// Scan implements the sql.Scanner interface for LineItemList
func (ll *LineItemList) Scan(value interface{}) error {
	if value == nil {
		*ll = LineItemList{}
		return nil
	}
	return scanJSON(value, ll)
}

// Value implements the driver.Valuer interface for LineItemList
func (ll LineItemList) Value() (driver.Value, error) {
	if ll == nil {
		ll = LineItemList{}
	}
	return marshalJSON(ll)
}

// GormDataType gorm common data type
func (LineItemList) GormDataType() string {
	return "jsonb"
}

// RawFormList holds the untouched label/value pairs per line item
type RawFormList []map[string]string

// Scan implements the sql.Scanner interface for RawFormList
func (rl *RawFormList) Scan(value interface{}) error {
	if value == nil {
		*rl = RawFormList{}
		return nil
	}
	return scanJSON(value, rl)
}

// Value implements the driver.Valuer interface for RawFormList
func (rl RawFormList) Value() (driver.Value, error) {
	if rl == nil {
		rl = RawFormList{}
	}
	return marshalJSON(rl)
}

// GormDataType gorm common data type
func (RawFormList) GormDataType() string {
	return "jsonb"
}
