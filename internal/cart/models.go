package cart

// Product is the slice of a catalog product the cart needs to render a line.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

// Line is one cart entry. Lines are unique by ProductID and keep insertion
// order, so newly added products append at the end instead of sorting.
type Line struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Quantity     int     `json:"quantity"`
}

// PendingAddition is a single-slot deferred add-to-cart instruction, recorded
// when an anonymous actor tries to add an item and applied exactly once after
// the next successful login. Last write wins.
type PendingAddition struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Status tags an AddItem outcome.
type Status string

const (
	// StatusAdded means the line is in the cart.
	StatusAdded Status = "added"
	// StatusDeferredLogin means the add was recorded as a PendingAddition and
	// the caller must send the actor to login. Terminal for this interaction.
	StatusDeferredLogin Status = "login_required"
)

// Outcome is the tagged result of AddItem. The store never navigates; it tells
// the caller what happened and the caller decides how to act on RedirectTo.
type Outcome struct {
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
