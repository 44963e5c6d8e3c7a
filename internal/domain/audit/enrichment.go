package audit

import (
	"context"

	appctx "palletbook/internal/core/context"
)

// SystemUser is recorded when neither the caller nor the context names a user.
const SystemUser = "system"

// resolveUser picks the explicit user id, then the authenticated one from ctx.
func resolveUser(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if userID := appctx.GetUserID(ctx); userID != "" {
		return userID
	}
	return SystemUser
}

// enrichMetadata copies request correlation into the entry.
func enrichMetadata(ctx context.Context, e *Entry) {
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		e.RequestID = requestID
	}
}
