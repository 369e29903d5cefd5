package model

import "context"

// Transactor runs fn inside one datastore transaction. Stores called with the
// context passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txMarker struct{}

// MarkTx flags ctx as carrying an open transaction. Transactor
// implementations call it so layers above the store can tell.
func MarkTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txMarker{}, true)
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}
