// Package requestctx carries the delivery correlation id of a webhook
// request through its context.
package requestctx

import "context"

type correlationKey struct{}

// Correlation identifies one inbound delivery. Provided is true when the id
// came from the sender's x-request-id header and so takes part in the signed
// manifest; a generated id is only used to correlate logs.
type Correlation struct {
	ID       string
	Provided bool
}

// WithCorrelation returns a copy of ctx carrying c.
func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationKey{}, c)
}

// CorrelationFrom returns the correlation stored on ctx.
func CorrelationFrom(ctx context.Context) (Correlation, bool) {
	if ctx == nil {
		return Correlation{}, false
	}
	c, ok := ctx.Value(correlationKey{}).(Correlation)
	return c, ok
}

// RequestID returns the correlation id on ctx, or "".
func RequestID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.ID
}
