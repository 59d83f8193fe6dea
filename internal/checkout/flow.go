package checkout

import (
	"context" // Context for backend calls
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"sync"    // Mutex for concurrent access
	"time"    // Commit timestamps

	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/cart"   // Cart store
	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// State is the position of a checkout flow in its lifecycle
type State int

// Checkout states. Failed absorbs errors from Validating and Committing;
// both terminal states return control to the caller.
const (
	StateIdle           State = iota // No checkout in progress
	StateValidating                  // Computing and checking the total
	StateConfirmPending              // Waiting for explicit user confirmation
	StateCommitting                  // Persisting transactions and the balance patch
	StateDone                        // Checkout completed
	StateFailed                      // Checkout failed, retryable
)

// String returns the state name for logs and responses
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateConfirmPending:
		return "confirm_pending"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validation and sequencing errors
var (
	ErrEmptyCart           = errors.New("cart is empty")                     // Nothing to check out
	ErrInsufficientBalance = errors.New("insufficient balance")              // Total exceeds the cached balance
	ErrNotPending          = errors.New("no checkout awaiting confirmation") // Confirm without a preview
)

// Backend is the slice of the record store API the checkout flow needs
type Backend interface {
	CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) // Create one transaction record
	PatchUserBalance(ctx context.Context, userID string, balance int64) error                  // Patch the user balance
}

// Sessions lets the flow push the post-checkout balance into the session store
type Sessions interface {
	UpdateUser(ctx context.Context, user *domain.User) // Replace the cached session record
}

// Summary is what the confirmation dialog presents
type Summary struct {
	Total            int64 `json:"total"`            // Sum of price x quantity over the cart
	Balance          int64 `json:"balance"`          // Cached balance at validation time
	ProjectedBalance int64 `json:"projectedBalance"` // Balance after the purchase
	Count            int   `json:"count"`            // Sum of quantities over the cart
}

// Result reports a completed commit
type Result struct {
	Transactions []domain.Transaction `json:"transactions"` // Created records, one per cart line
	NewBalance   int64                `json:"newBalance"`   // Balance after the patch
}

// Flow drives one user's checkout through
// Idle -> Validating -> ConfirmPending -> Committing -> Done, with Failed
// absorbing validation and commit errors. The commit is a sequential loop
// over the cart lines followed by one balance patch; there is no rollback
// of already-created transactions when a later step fails.
type Flow struct {
	backend  Backend    // Record store client
	sessions Sessions   // Session store
	mu       sync.Mutex // One checkout step at a time per user
	state    State      // Current flow state
}

// NewFlow creates an idle checkout flow
func NewFlow(backend Backend, sessions Sessions) *Flow {
	return &Flow{backend: backend, sessions: sessions, state: StateIdle}
}

// State returns the current flow state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Preview validates the cart against the cached balance. On success the
// flow waits in ConfirmPending and the returned summary carries the total
// and projected post-purchase balance. Nothing external is touched.
func (f *Flow) Preview(c *cart.Cart, user *domain.User) (*Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateValidating
	if c.Len() == 0 {
		f.state = StateFailed
		return nil, ErrEmptyCart // Nothing to check out
	}
	total := c.Total() // Sum of price x quantity
	// The total must not exceed the balance cached in the session
	if total > user.Balance {
		f.state = StateFailed
		return nil, ErrInsufficientBalance
	}
	f.state = StateConfirmPending // Wait for explicit confirmation
	return &Summary{
		Total:            total,                // Payment total
		Balance:          user.Balance,         // Current cached balance
		ProjectedBalance: user.Balance - total, // Balance after the purchase
		Count:            c.Count(),            // Badge count
	}, nil
}

// Cancel abandons a pending checkout and returns to Idle, cart untouched
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
}

// Confirm commits a pending checkout: one create-transaction request per
// cart line in array order, then one balance patch. On success the session
// balance is updated and the cart cleared. On any step failing the flow
// moves to Failed and leaves the cart and external state exactly as they
// were at the point of failure.
func (f *Flow) Confirm(ctx context.Context, c *cart.Cart, user *domain.User) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateConfirmPending {
		return nil, ErrNotPending // Preview first
	}
	f.state = StateCommitting
	// Recompute the total from the cart as it exists now, so the balance
	// deduction always equals the sum of the created transactions even if
	// the cart changed after the preview
	total := c.Total()
	created := make([]domain.Transaction, 0, c.Len())
	// Sequential commit loop: each request is awaited before the next begins
	for i, line := range c.Lines() {
		tx, err := f.backend.CreateTransaction(ctx, domain.Transaction{
			UserID:        user.ID,                      // Owning user
			PackageID:     line.Package.ID,              // Purchased package
			PackageName:   line.Package.Name,            // Name snapshot
			Amount:        line.Subtotal(),              // price x quantity
			Status:        domain.StatusCompleted,       // Status fixed to completed
			Date:          time.Now(),                   // Commit time
			PaymentMethod: domain.PaymentMethodBalance,  // Paid from the stored balance
		})
		if err != nil {
			// Partial completion: earlier transactions stay, no compensation.
			// The failing line index is logged for manual reconciliation.
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,     // User ID
				"line_index": i,           // Cart line that failed
				"created":    len(created), // Transactions already persisted
				"error":      err.Error(), // Error message
			}).Error("Checkout commit failed")
			f.state = StateFailed
			return nil, fmt.Errorf("create transaction for line %d: %w", i, err)
		}
		created = append(created, *tx)
	}
	newBalance := user.Balance - total // Pre-commit balance minus total
	if err := f.backend.PatchUserBalance(ctx, user.ID, newBalance); err != nil {
		// Transactions exist but the balance was not patched
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,      // User ID
			"created": len(created), // Transactions already persisted
			"error":   err.Error(),  // Error message
		}).Error("Balance patch failed")
		f.state = StateFailed
		return nil, fmt.Errorf("patch balance: %w", err)
	}
	// Reflect the new balance in the session and empty the cart
	user.Balance = newBalance
	f.sessions.UpdateUser(ctx, user)
	c.Clear()
	f.state = StateDone
	logrus.WithFields(logrus.Fields{
		"user_id":      user.ID,                         // User ID
		"total":        total,                           // Payment total
		"transactions": len(created),                    // Records created
		"new_balance":  newBalance,                      // Balance after checkout
		"timestamp":    time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Checkout completed")
	return &Result{Transactions: created, NewBalance: newBalance}, nil
}
