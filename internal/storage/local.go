package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"ems_portal/internal/models"
)

// Logical keys
const (
	KeyUsers          = "ems_users"
	KeyBills          = "ems_bills"
	KeyComplaints     = "ems_complaints"
	KeyReceipts       = "ems_receipts"
	KeySession        = "ems_session"
	KeyPaymentContext = "ems_payment_context"
)

type scopeKey struct{}

// WithScope tags ctx with a browser context id. Session and payment
// context keys are kept separately for each scope.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the browser context id set by WithScope, or ""
func ScopeFrom(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(string)
	return s
}

func scopedKey(ctx context.Context, key string) string {
	if s := ScopeFrom(ctx); s != "" {
		return key + ":" + s
	}
	return key
}

// Local reads and writes whole collections and objects on top of a KV.
// Every mutation replaces the full document; there is no locking.
type Local struct {
	kv  KV
	log zerolog.Logger
}

func NewLocal(kv KV, log zerolog.Logger) *Local {
	return &Local{kv: kv, log: log}
}

// ReadCollection decodes the array stored at key. Absent or malformed
// documents read as an empty collection.
func ReadCollection[T any](ctx context.Context, l *Local, key string) ([]T, error) {
	data, found, err := l.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("malformed collection, treating as empty")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// WriteCollection overwrites the array stored at key
func WriteCollection[T any](ctx context.Context, l *Local, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// readObject returns nil when the object is absent or malformed
func readObject[T any](ctx context.Context, l *Local, key string) (*T, error) {
	data, found, err := l.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	var obj T
	if err := json.Unmarshal(data, &obj); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("malformed object, treating as absent")
		return nil, nil
	}
	return &obj, nil
}

// writeObject stores obj, or deletes the key when obj is nil
func writeObject[T any](ctx context.Context, l *Local, key string, obj *T) error {
	if obj == nil {
		if err := l.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (l *Local) Users(ctx context.Context) ([]models.User, error) {
	return ReadCollection[models.User](ctx, l, KeyUsers)
}

func (l *Local) SetUsers(ctx context.Context, users []models.User) error {
	return WriteCollection(ctx, l, KeyUsers, users)
}

func (l *Local) Bills(ctx context.Context) ([]models.Bill, error) {
	return ReadCollection[models.Bill](ctx, l, KeyBills)
}

func (l *Local) SetBills(ctx context.Context, bills []models.Bill) error {
	return WriteCollection(ctx, l, KeyBills, bills)
}

func (l *Local) Complaints(ctx context.Context) ([]models.Complaint, error) {
	return ReadCollection[models.Complaint](ctx, l, KeyComplaints)
}

func (l *Local) SetComplaints(ctx context.Context, complaints []models.Complaint) error {
	return WriteCollection(ctx, l, KeyComplaints, complaints)
}

func (l *Local) Receipts(ctx context.Context) ([]models.Receipt, error) {
	return ReadCollection[models.Receipt](ctx, l, KeyReceipts)
}

func (l *Local) SetReceipts(ctx context.Context, receipts []models.Receipt) error {
	return WriteCollection(ctx, l, KeyReceipts, receipts)
}

// Session returns the session of the browser context in ctx, or nil
func (l *Local) Session(ctx context.Context) (*models.Session, error) {
	return readObject[models.Session](ctx, l, scopedKey(ctx, KeySession))
}

// SetSession replaces the session; nil logs the browser context out
func (l *Local) SetSession(ctx context.Context, s *models.Session) error {
	return writeObject(ctx, l, scopedKey(ctx, KeySession), s)
}

func (l *Local) PaymentContext(ctx context.Context) (*models.PaymentContext, error) {
	return readObject[models.PaymentContext](ctx, l, scopedKey(ctx, KeyPaymentContext))
}

// SetPaymentContext replaces the payment context; nil clears it
func (l *Local) SetPaymentContext(ctx context.Context, p *models.PaymentContext) error {
	return writeObject(ctx, l, scopedKey(ctx, KeyPaymentContext), p)
}
