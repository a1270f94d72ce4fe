package audit

import "context"

type contextKey string

const requestMetadataKey = contextKey("audit_request_metadata")

// RequestMetadata identifies the HTTP request behind an audited action.
type RequestMetadata struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

func WithRequestMetadata(ctx context.Context, md RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey, md)
}

// RequestMetadataFrom returns the zero value outside an HTTP request.
func RequestMetadataFrom(ctx context.Context) RequestMetadata {
	md, _ := ctx.Value(requestMetadataKey).(RequestMetadata)
	return md
}
