package ezcoin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/pricing"
	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

// Wallet is a handle on one identity's coins. It holds no state of its own;
// any number of handles for the same address share the engine's snapshot.
type Wallet struct {
	ledger  *Ledger
	address string
}

// Wallet returns the handle for address. The empty address is the
// default identity used when no wallet is connected.
func (l *Ledger) Wallet(address string) *Wallet {
	return &Wallet{ledger: l, address: strings.TrimSpace(address)}
}

// Address is the identity this wallet belongs to.
func (w *Wallet) Address() string { return w.address }

// IsDefault reports whether this is the unscoped default identity.
func (w *Wallet) IsDefault() bool { return w.address == account.DefaultAddress }

// Balance returns the committed balance.
func (w *Wallet) Balance(ctx context.Context) (int64, error) {
	a, err := w.account(ctx)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// History returns every transaction, newest first.
func (w *Wallet) History(ctx context.Context) ([]*transaction.Transaction, error) {
	a, err := w.account(ctx)
	if err != nil {
		return nil, err
	}
	return transaction.NewestFirst(a.Transactions), nil
}

// Account returns a copy of the committed snapshot.
func (w *Wallet) Account(ctx context.Context) (*account.Account, error) {
	a, err := w.account(ctx)
	if err != nil {
		return nil, err
	}
	return a.Copy(), nil
}

func (w *Wallet) account(ctx context.Context) (*account.Account, error) {
	if w.ledger.stopped.Load() {
		return nil, ErrStoreClosed
	}
	ident := w.ledger.acquire(w.address)
	defer w.ledger.release(ident)
	return w.ledger.snapshot(ctx, ident)
}

// Purchase pays for amount coins with method and credits them. The payment
// runs while the identity is locked, so later operations see the credit.
// Cancelling ctx before the payment settles writes nothing. A refused
// payment returns a *PaymentError.
func (w *Wallet) Purchase(ctx context.Context, amount int64, method string) (*transaction.Transaction, error) {
	return w.purchase(ctx, amount, method, types.Money{})
}

// PurchasePackage buys a catalog package at its listed price.
func (w *Wallet) PurchasePackage(ctx context.Context, packageID, method string) (*transaction.Transaction, error) {
	pkg, err := pricing.FindPackage(packageID)
	if err != nil {
		return nil, err
	}
	return w.purchase(ctx, pkg.Coins, method, pkg.Price)
}

func (w *Wallet) purchase(ctx context.Context, amount int64, method string, price types.Money) (*transaction.Transaction, error) {
	l := w.ledger
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > pricing.MaxPurchaseCoins {
		return nil, fmt.Errorf("%w: purchase of %d exceeds %d coins", ErrInvalidAmount, amount, pricing.MaxPurchaseCoins)
	}
	label := methodLabel(method)
	if label == "" {
		return nil, ValidationError{Field: "method", Message: "payment method is required"}
	}

	ident := l.acquire(w.address)
	defer l.release(ident)
	if err := l.lock(ctx, ident); err != nil {
		return nil, err
	}
	defer l.unlock(ident)

	// Refuse before paying when the credit could not be recorded.
	cur, err := l.snapshot(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := checkHeadroom(cur, amount); err != nil {
		return nil, err
	}

	receipt, err := l.processor.Charge(ctx, payment.Request{
		ID:          id.NewPaymentID(),
		Address:     w.address,
		Coins:       amount,
		Method:      label,
		Amount:      price,
		Description: transaction.PurchasePurpose(label),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		l.logger.Warn("payment failed",
			"address", w.address,
			"method", label,
			"coins", amount,
			"error", err,
		)
		l.plugins.EmitPaymentFailed(ctx, w.address, label, amount, err)
		return nil, &PaymentError{Method: label, Reason: err.Error(), Err: err}
	}

	// The payment settled, so the credit is committed even if ctx is
	// cancelled from here on.
	txn, next, err := l.commit(context.WithoutCancel(ctx), ident, "purchase", func(cur *account.Account) (*transaction.Transaction, error) {
		if err := checkHeadroom(cur, amount); err != nil {
			return nil, err
		}
		return transaction.New(transaction.TypePurchase, amount, transaction.PurchasePurpose(label), l.now())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("coins purchased",
		"address", w.address,
		"amount", amount,
		"method", label,
		"balance", next.Balance,
		"reference", receipt.Reference,
	)
	l.plugins.EmitCoinsPurchased(ctx, w.address, txn, receipt, next.Balance)
	return txn, nil
}

// checkHeadroom rejects a credit that would overflow the balance.
func checkHeadroom(cur *account.Account, amount int64) error {
	if amount > math.MaxInt64-cur.Balance {
		return fmt.Errorf("%w: crediting %d would overflow balance %d", ErrInvalidAmount, amount, cur.Balance)
	}
	return nil
}

// methodLabel maps a known payment method ID to its display name and passes
// other labels through.
func methodLabel(method string) string {
	method = strings.TrimSpace(method)
	if m, err := pricing.FindPaymentMethod(method); err == nil {
		return m.Name
	}
	return method
}

// Spend deducts amount for purpose. When the balance is short it returns
// an *InsufficientBalanceError and changes nothing.
func (w *Wallet) Spend(ctx context.Context, amount int64, purpose string) (*transaction.Transaction, error) {
	l := w.ledger
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(purpose) == "" {
		return nil, ValidationError{Field: "purpose", Message: "purpose is required"}
	}

	ident := l.acquire(w.address)
	defer l.release(ident)
	if err := l.lock(ctx, ident); err != nil {
		return nil, err
	}
	defer l.unlock(ident)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn, next, err := l.commit(ctx, ident, "spend", func(cur *account.Account) (*transaction.Transaction, error) {
		if cur.Balance < amount {
			return nil, &InsufficientBalanceError{Required: amount, Available: cur.Balance}
		}
		return transaction.New(transaction.TypeSpend, amount, purpose, l.now())
	})
	if err != nil {
		var insufficient *InsufficientBalanceError
		if errors.As(err, &insufficient) {
			l.logger.Info("spend rejected",
				"address", w.address,
				"purpose", purpose,
				"required", insufficient.Required,
				"available", insufficient.Available,
			)
			l.plugins.EmitSpendRejected(ctx, w.address, purpose, insufficient.Required, insufficient.Available)
		}
		return nil, err
	}

	l.logger.Info("coins spent",
		"address", w.address,
		"amount", amount,
		"purpose", purpose,
		"balance", next.Balance,
	)
	l.plugins.EmitCoinsSpent(ctx, w.address, txn, next.Balance)
	return txn, nil
}

// Charge spends the fixed cost of action with its canonical purpose.
func (w *Wallet) Charge(ctx context.Context, action pricing.Action) (*transaction.Transaction, error) {
	price, err := pricing.Lookup(action)
	if err != nil {
		return nil, err
	}
	return w.Spend(ctx, price.Cost, price.Purpose)
}
