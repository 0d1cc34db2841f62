package xcontext

import "context"

// holder carries mutable per-request values. The router installs one holder
// before running handlers so that After closers can observe the handler's
// outcome through the same context.
type holder struct {
	err  error
	resp any
}

func WithHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &holder{})
}

func SetError(ctx context.Context, err error) {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok {
		h.err = err
	}
}

func Error(ctx context.Context) error {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok {
		return h.err
	}

	return nil
}

func SetResponse(ctx context.Context, resp any) {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok {
		h.resp = resp
	}
}

func Response(ctx context.Context) any {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok {
		return h.resp
	}

	return nil
}
