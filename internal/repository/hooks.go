package repository

import "context"

type hooksKey struct{}

type commitHooks struct {
	fns []func(ctx context.Context)
}

// WithCommitHooks runs fn and then, only if it succeeded, every hook fn
// registered through AfterCommit. Store implementations wrap their outermost
// transaction with it.
func WithCommitHooks(ctx context.Context, fn func(ctx context.Context) error) error {
	hooks := &commitHooks{}
	if err := fn(context.WithValue(ctx, hooksKey{}, hooks)); err != nil {
		return err
	}
	// Hooks may register further hooks; those run right away.
	for i := 0; i < len(hooks.fns); i++ {
		hooks.fns[i](ctx)
	}
	return nil
}

// AfterCommit defers fn until the transaction carried by ctx commits. Outside
// a transaction fn runs immediately. fn receives a context outside the
// transaction.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if hooks, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn(ctx)
}
