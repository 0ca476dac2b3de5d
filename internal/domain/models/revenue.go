package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Revenue is the amount collected alongside a report. It is stored as a
// Decimal128 so that money never goes through float arithmetic.
type Revenue struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type revenueDocument struct {
	Currency string               `bson:"currency"`
	Amount   primitive.Decimal128 `bson:"amount"`
}

type rawRevenueDocument struct {
	Currency string        `bson:"currency"`
	Amount   bson.RawValue `bson:"amount"`
}

// MarshalBSON implements bson.Marshaler.
func (r Revenue) MarshalBSON() ([]byte, error) {
	amount, err := primitive.ParseDecimal128(r.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("encode revenue amount %s: %w", r.Amount, err)
	}
	return bson.Marshal(revenueDocument{Currency: r.Currency, Amount: amount})
}

// UnmarshalBSON implements bson.Unmarshaler. Older documents stored the
// amount as a double or an integer; those are accepted too.
func (r *Revenue) UnmarshalBSON(data []byte) error {
	var doc rawRevenueDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode revenue: %w", err)
	}

	r.Currency = doc.Currency

	switch doc.Amount.Type {
	case bson.TypeDecimal128:
		amount, err := decimal.NewFromString(doc.Amount.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode revenue amount: %w", err)
		}
		r.Amount = amount
	case bson.TypeDouble:
		r.Amount = decimal.NewFromFloat(doc.Amount.Double())
	case bson.TypeInt32:
		r.Amount = decimal.NewFromInt32(doc.Amount.Int32())
	case bson.TypeInt64:
		r.Amount = decimal.NewFromInt(doc.Amount.Int64())
	case bson.TypeString:
		amount, err := decimal.NewFromString(doc.Amount.StringValue())
		if err != nil {
			return fmt.Errorf("decode revenue amount: %w", err)
		}
		r.Amount = amount
	default:
		r.Amount = decimal.Zero
	}

	return nil
}
