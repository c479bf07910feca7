package llm

import "context"

// Purpose labels why a request was sent. It is recorded with every
// request event so usage can be told apart.
type Purpose string

const (
	PurposePersonalize Purpose = "personalize"
	PurposeUnspecified Purpose = "unspecified"
)

type purposeKey struct{}

// WithPurpose attaches p to ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnspecified.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnspecified
}
