// Package pricing is the fixed EzCoin price list: what coin-gated actions
// cost and which coin packages can be bought with which payment methods.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/ezcoin/types"
)

var (
	ErrUnknownAction        = errors.New("ezcoin: unknown action")
	ErrUnknownPackage       = errors.New("ezcoin: unknown coin package")
	ErrUnknownPaymentMethod = errors.New("ezcoin: unknown payment method")
)

// MaxPurchaseCoins caps a single purchase: two thousand of the largest
// catalog package.
const MaxPurchaseCoins int64 = 1_000_000

// Action is a coin-gated user action.
type Action string

const (
	ActionTextPost      Action = "text_post"
	ActionImagePost     Action = "image_post"
	ActionLike          Action = "like"
	ActionAISummarize   Action = "ai_summarize"
	ActionAIExpand      Action = "ai_expand"
	ActionAISuggest     Action = "ai_suggest"
	ActionPermanentSave Action = "permanent_save"
)

// Price is the cost of one action and the purpose recorded when it is paid.
type Price struct {
	Action  Action `json:"action"`
	Cost    int64  `json:"cost"`
	Purpose string `json:"purpose"`
}

var prices = map[Action]Price{
	ActionTextPost:      {ActionTextPost, 1, "Create post"},
	ActionImagePost:     {ActionImagePost, 3, "Create post"},
	ActionLike:          {ActionLike, 1, "Like post"},
	ActionAISummarize:   {ActionAISummarize, 2, "EzAI summarize"},
	ActionAIExpand:      {ActionAIExpand, 2, "EzAI expand"},
	ActionAISuggest:     {ActionAISuggest, 2, "EzAI suggest"},
	ActionPermanentSave: {ActionPermanentSave, 1, "Permanent save"},
}

// Lookup returns the price of a.
func Lookup(a Action) (Price, error) {
	p, ok := prices[a]
	if !ok {
		return Price{}, fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
	return p, nil
}

// PostAction is the action for publishing a post with or without images.
func PostAction(hasImages bool) Action {
	if hasImages {
		return ActionImagePost
	}
	return ActionTextPost
}

// PermanentSaveCost is one coin plus one per recurrence occurrence.
func PermanentSaveCost(occurrences int) int64 {
	if occurrences < 0 {
		occurrences = 0
	}
	return prices[ActionPermanentSave].Cost + int64(occurrences)
}

// Package is a purchasable bundle of coins.
type Package struct {
	ID      string      `json:"id"`
	Coins   int64       `json:"coins"`
	Price   types.Money `json:"price"`
	Popular bool        `json:"popular"`
}

// Packages returns the coin store catalog in display order.
func Packages() []Package {
	return []Package{
		{ID: "coins_10", Coins: 10, Price: types.USD(99)},
		{ID: "coins_50", Coins: 50, Price: types.USD(399), Popular: true},
		{ID: "coins_100", Coins: 100, Price: types.USD(699)},
		{ID: "coins_500", Coins: 500, Price: types.USD(2499)},
	}
}

// FindPackage looks a package up by ID.
func FindPackage(id string) (Package, error) {
	for _, p := range Packages() {
		if p.ID == id {
			return p, nil
		}
	}
	return Package{}, fmt.Errorf("%w: %q", ErrUnknownPackage, id)
}

// PaymentMethod is a way to pay for a package. Name is what the ledger
// records in "Purchased via {Name}".
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaymentMethods returns the accepted payment methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "stripe", Name: "Credit Card"},
		{ID: "paypal", Name: "PayPal"},
		{ID: "apple_pay", Name: "Apple Pay"},
		{ID: "google_pay", Name: "Google Pay"},
	}
}

// FindPaymentMethod matches by ID or display name, case-insensitively.
func FindPaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods() {
		if strings.EqualFold(m.ID, s) || strings.EqualFold(m.Name, s) {
			return m, nil
		}
	}
	return PaymentMethod{}, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}
