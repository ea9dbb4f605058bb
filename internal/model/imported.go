package model

import "github.com/shopspring/decimal"

// RawImportFields holds the field values of one import row or tagged
// block exactly as received. A nil field was absent from the input, which
// is distinct from an empty string.
type RawImportFields struct {
	Number        *string
	Owner         *string
	Author        *string
	Title         *string
	Medium        *string
	Note          *string
	InitialAmount *string
	Charity       *string
}

// ImportedItemRecord is one normalized record of a staged import batch,
// carrying both the raw input and the typed values, plus the per-record
// processing result.
type ImportedItemRecord struct {
	Raw RawImportFields `json:"raw"`

	Number        *int             `json:"number,omitempty"`
	Owner         *int             `json:"owner,omitempty"`
	Author        string           `json:"author,omitempty"`
	Title         string           `json:"title,omitempty"`
	Medium        string           `json:"medium,omitempty"`
	Note          string           `json:"note,omitempty"`
	InitialAmount *decimal.Decimal `json:"initial_amount,omitempty"`
	Charity       *int             `json:"charity,omitempty"`

	Result Result `json:"result"`
}
