package app

import (
	"context"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from the order engine. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// ListCustomers returns all active customers.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// ListAddresses returns a customer's shipping addresses in default-branch order.
	ListAddresses(ctx context.Context, customerID int) (*AddressListResult, error)

	// ListCatalog returns all sellable variations.
	ListCatalog(ctx context.Context) (*CatalogResult, error)

	// QuoteCatalog returns every variation with the starting price the customer would get.
	QuoteCatalog(ctx context.Context, customerID int) (*QuoteResult, error)

	// StartDraft opens a new order for the customer with one branch on its default address.
	StartDraft(ctx context.Context, customerID int) (*DraftResult, error)

	// DuplicateLastOrder opens a new order copied from the customer's most recent order.
	DuplicateLastOrder(ctx context.Context, customerID int) (*DraftResult, error)

	// LoadOrderForEdit opens an existing order. Orders past new/pending load read-only.
	LoadOrderForEdit(ctx context.Context, orderID int) (*DraftResult, error)

	GetDraft(ctx context.Context, draftID string) (*DraftResult, error)
	DiscardDraft(ctx context.Context, draftID string) error

	UpdateHeader(ctx context.Context, draftID string, req HeaderUpdateRequest) (*DraftResult, error)

	AddBranch(ctx context.Context, draftID string) (*DraftResult, error)
	RemoveBranch(ctx context.Context, draftID string, branch int) (*DraftResult, error)
	UpdateBranch(ctx context.Context, draftID string, branch int, req BranchUpdateRequest) (*DraftResult, error)
	FocusBranch(ctx context.Context, draftID string, branch int) (*DraftResult, error)

	// AddItem adds one unit of a catalog variation to the branch.
	AddItem(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error)
	UpdateItem(ctx context.Context, draftID string, branch, variationID int, req ItemUpdateRequest) (*DraftResult, error)
	ToggleItemDiscountMode(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error)
	RemoveItem(ctx context.Context, draftID string, branch, variationID int) (*DraftResult, error)

	// Submit validates and stores the draft. New drafts create an order, edit drafts update
	// theirs. On success the draft is closed; on failure it is kept unchanged for retry.
	Submit(ctx context.Context, draftID string) (*SubmitResult, error)
}
