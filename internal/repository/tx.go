package repository

import "context"

// TxRunner runs fn inside a transaction. The transaction travels in the ctx
// passed to fn; repository calls made with that ctx join it, and a nested
// WithTx joins the outer transaction instead of opening a new one. fn's error
// rolls everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
