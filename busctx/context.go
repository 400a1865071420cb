// Package busctx carries per-call bus tracing settings through a context.
package busctx

import "context"

type ctxIndex int

const (
	ctxIndexVerbose ctxIndex = iota
	ctxIndexLabel
)

// IsVerbose reports whether raw bus frames should be dumped for this call.
func IsVerbose(ctx context.Context) bool {
	val, ok := ctx.Value(ctxIndexVerbose).(bool)
	if !ok {
		return false
	}
	return val
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxIndexVerbose, value)
}

// Label returns the device label attached with WithLabel, or an empty string.
func Label(ctx context.Context) string {
	val, _ := ctx.Value(ctxIndexLabel).(string)
	return val
}

// WithLabel names the device a call is addressed to so that traces can tell
// several chips on one bus apart.
func WithLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, ctxIndexLabel, label)
}
