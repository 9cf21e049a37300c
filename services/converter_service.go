package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clubstack/backoffice/commerce"
	"github.com/clubstack/backoffice/formdata"
	"github.com/clubstack/backoffice/models"
)

// DonationSKU is the fixed SKU assigned to donation transactions, which have
// no order and therefore no real line items.
const DonationSKU = "SQDONATION"

// UnassignedSKU is the sentinel stored for order line items the platform has
// no SKU for. The line item is kept so money still reconciles with the
// payment total.
const UnassignedSKU = "UNASSIGNED"

// ConverterService turns raw gateway transactions into internal Transaction
// records. Per-item problems are accumulated as issues on the transaction;
// Convert never fails a transaction outright.
type ConverterService struct {
	gateway CommerceGateway
}

// NewConverterService creates a new converter service
func NewConverterService(gateway CommerceGateway) *ConverterService {
	return &ConverterService{gateway: gateway}
}

// Convert builds the internal record for one raw transaction. A transaction
// with an order id is an order (possibly multi-line-item); without one it is
// a donation with a single implicit line item.
func (s *ConverterService) Convert(ctx context.Context, raw commerce.Transaction) models.Transaction {
	txn := models.Transaction{
		ExternalID:     raw.ID,
		Date:           raw.CreatedOn,
		Amount:         raw.Total.Float(),
		Fee:            raw.Total.Float() - raw.TotalNetPayment.Float(),
		Platform:       paymentPlatform(raw),
		SKUs:           models.StringSlice{},
		ParsedFormData: models.LineItemList{},
		RawFormData:    models.RawFormList{},
		Issues:         models.IssueList{},
	}

	if raw.SalesOrderID == "" {
		s.convertDonation(ctx, raw, &txn)
	} else {
		s.convertOrder(ctx, raw, &txn)
	}

	return txn
}

// paymentPlatform maps the gateway's payment provider onto the platform enum.
// Transactions without payment records were entered by hand from mailed
// checks.
func paymentPlatform(raw commerce.Transaction) models.PaymentPlatform {
	if len(raw.Payments) == 0 {
		return models.PaymentPlatformMail
	}
	switch strings.ToUpper(raw.Payments[0].Provider) {
	case "STRIPE":
		return models.PaymentPlatformStripe
	case "PAYPAL":
		return models.PaymentPlatformPayPal
	default:
		return models.PaymentPlatformMail
	}
}

// convertDonation attaches the single implicit donation line item, filling
// donor identity from the payer's profile when the gateway has one.
func (s *ConverterService) convertDonation(ctx context.Context, raw commerce.Transaction, txn *models.Transaction) {
	item := models.LineItemData{
		SKU:    DonationSKU,
		Amount: raw.Total.Float(),
		Email:  strings.ToLower(strings.TrimSpace(raw.CustomerEmail)),
	}
	rawFields := map[string]string{"email": raw.CustomerEmail}

	profile, err := s.gateway.FetchProfile(ctx, raw.CustomerEmail)
	switch {
	case errors.Is(err, commerce.ErrProfileNotFound):
		txn.AddIssue(models.IssueProfileNotFound, "no profile found for donation payer",
			map[string]interface{}{"email": raw.CustomerEmail})
	case err != nil:
		txn.AddIssue(models.IssueFetchError, "failed to fetch donation payer profile",
			map[string]interface{}{"email": raw.CustomerEmail, "error": err.Error()})
	default:
		item.FirstName = profile.FirstName
		item.LastName = profile.LastName
		rawFields["first name"] = profile.FirstName
		rawFields["last name"] = profile.LastName

		valid := map[string]string{
			formdata.ColumnFirstName: item.FirstName,
			formdata.ColumnLastName:  item.LastName,
		}
		if missing := formdata.CheckDonationSchema(valid); len(missing) > 0 {
			txn.AddIssue(models.IssueValidationError, "donation donor name incomplete",
				map[string]interface{}{"missing": missing})
		}
	}

	txn.SKUs = append(txn.SKUs, DonationSKU)
	txn.ParsedFormData = append(txn.ParsedFormData, item)
	txn.RawFormData = append(txn.RawFormData, rawFields)
}

// convertOrder fetches the order detail and converts every line item. An
// order fetch failure leaves the transaction with zero line items but its
// money fields intact.
func (s *ConverterService) convertOrder(ctx context.Context, raw commerce.Transaction, txn *models.Transaction) {
	order, err := s.gateway.FetchOrder(ctx, raw.SalesOrderID)
	if err != nil {
		if errors.Is(err, commerce.ErrOrderNotFound) {
			txn.AddIssue(models.IssueOrderNotFound, "order detail not found",
				map[string]interface{}{"order_id": raw.SalesOrderID})
		} else {
			txn.AddIssue(models.IssueFetchError, "failed to fetch order detail",
				map[string]interface{}{"order_id": raw.SalesOrderID, "error": err.Error()})
		}
		return
	}

	for i, lineItem := range order.LineItems {
		s.convertLineItem(i, lineItem, txn)
	}
}

// convertLineItem normalizes one line item's form fields and validates them
// against the layered forum/membership shapes.
func (s *ConverterService) convertLineItem(index int, lineItem commerce.OrderLineItem, txn *models.Transaction) {
	sku := lineItem.SKU
	if sku == "" {
		sku = UnassignedSKU
		txn.AddIssue(models.IssueSKUUnassigned, "line item has no SKU assigned",
			map[string]interface{}{"line_item_index": index, "product_name": lineItem.ProductName})
	}

	rawFields := make(map[string]string, len(lineItem.Customizations))
	pairs := make([]formdata.Pair, 0, len(lineItem.Customizations))
	for _, c := range lineItem.Customizations {
		rawFields[c.Label] = c.Value
		pairs = append(pairs, formdata.Pair{Label: c.Label, Value: c.Value})
	}

	result := formdata.Normalize(pairs)

	if len(result.Invalid) > 0 {
		info := map[string]interface{}{"line_item_index": index, "fields": result.Invalid}
		txn.AddIssue(models.IssueValidationError, "line item form fields failed validation", info)
	}

	// Forum is the narrowest shape; if it cannot be satisfied, membership
	// cannot be either. Widen to membership only when an address showed up.
	if missing := formdata.CheckForumSchema(result.Valid); len(missing) > 0 {
		txn.AddIssue(models.IssueMissingFields, "line item form data incomplete",
			map[string]interface{}{"line_item_index": index, "missing": missing})
	} else if formdata.HasAddressFields(result.Valid) {
		if missing := formdata.CheckMembershipSchema(result.Valid); len(missing) > 0 {
			txn.AddIssue(models.IssueMissingFields, "membership address incomplete",
				map[string]interface{}{"line_item_index": index, "missing": missing})
		}
	}

	item := models.LineItemData{
		SKU:                   sku,
		Amount:                lineItem.UnitPricePaid.Float(),
		FirstName:             result.Valid[formdata.ColumnFirstName],
		LastName:              result.Valid[formdata.ColumnLastName],
		Email:                 result.Valid[formdata.ColumnEmail],
		Phone:                 result.Valid[formdata.ColumnPhone],
		StreetAddress:         result.Valid[formdata.ColumnStreetAddress],
		City:                  result.Valid[formdata.ColumnCity],
		State:                 result.Valid[formdata.ColumnState],
		ZipCode:               result.Valid[formdata.ColumnZipCode],
		EmergencyContact:      result.Valid[formdata.ColumnEmergencyContact],
		EmergencyContactPhone: result.Valid[formdata.ColumnEmergencyContactPhone],
	}

	txn.SKUs = append(txn.SKUs, sku)
	txn.ParsedFormData = append(txn.ParsedFormData, item)
	txn.RawFormData = append(txn.RawFormData, rawFields)

	if len(txn.SKUs) != len(txn.ParsedFormData) || len(txn.SKUs) != len(txn.RawFormData) {
		// Should be impossible: the three arrays are appended together.
		slog.Error("line item arrays out of alignment",
			"externalId", txn.ExternalID,
			"skus", len(txn.SKUs),
			"parsed", len(txn.ParsedFormData),
			"raw", len(txn.RawFormData))
	}
}
