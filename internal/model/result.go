package model

// Result classifies the outcome of a ledger or import operation. Results
// are returned to callers as tags, never as panics; infrastructure
// failures travel separately as wrapped errors.
type Result string

const (
	ResultSuccess    Result = "SUCCESS"
	ResultError      Result = "ERROR"
	ResultInputError Result = "INPUT_ERROR"

	// Item lookup and state.
	ResultInvalidItemCode   Result = "INVALID_ITEM_CODE"
	ResultItemNotFound      Result = "ITEM_NOT_FOUND"
	ResultItemNotClosable   Result = "ITEM_NOT_CLOSABLE"
	ResultItemClosedAlready Result = "ITEM_CLOSED_ALREADY"
	ResultNothingToUpdate   Result = "NOTHING_TO_UPDATE"

	// Field validation.
	ResultInvalidAuthor      Result = "INVALID_AUTHOR"
	ResultInvalidTitle       Result = "INVALID_TITLE"
	ResultInvalidBuyer       Result = "INVALID_BUYER"
	ResultInvalidAmount      Result = "INVALID_AMOUNT"
	ResultInvalidCharity     Result = "INVALID_CHARITY"
	ResultInvalidValue       Result = "INVALID_VALUE"
	ResultIncompleteSaleInfo Result = "INCOMPLETE_SALE_INFO"
	ResultAmountTooLow       Result = "AMOUNT_TOO_LOW"

	// Cross-field consistency.
	ResultInitialAmountNotDefined Result = "INITIAL_AMOUNT_NOT_DEFINED"
	ResultCharityNotDefined       Result = "CHARITY_NOT_DEFINED"
	ResultAmountNotDefined        Result = "AMOUNT_NOT_DEFINED"
	ResultBuyerNotDefined         Result = "BUYER_NOT_DEFINED"

	// Duplicates.
	ResultDuplicateItem         Result = "DUPLICATE_ITEM"
	ResultDuplicateImportNumber Result = "DUPLICATE_IMPORT_NUMBER"

	// Import commit.
	ResultNoImport          Result = "NO_IMPORT"
	ResultInvalidChecksum   Result = "INVALID_CHECKSUM"
	ResultSuccessRenumbered Result = "SUCCESS_BUT_IMPORT_RENUMBERED"

	// Live auction.
	ResultNoItemToAuction    Result = "NO_ITEM_TO_AUCTION"
	ResultInvalidAuctionItem Result = "INVALID_AUCTION_ITEM"

	// Images.
	ResultNoImage                Result = "NO_IMAGE"
	ResultUnsupportedImageFormat Result = "UNSUPPORTED_IMAGE_FORMAT"

	// Settlement.
	ResultInvalidBadge Result = "INVALID_BADGE"
)

// OK reports whether r is a success, including the renumbered variant.
func (r Result) OK() bool {
	return r == ResultSuccess || r == ResultSuccessRenumbered
}
