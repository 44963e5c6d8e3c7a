package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetUser(ctx))
	assert.Equal(t, "", GetUserID(ctx))

	ctx = WithUser(ctx, &UserContext{UserID: "anna"})
	assert.Equal(t, "anna", GetUserID(ctx))
}

func TestTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))
	assert.NotEmpty(t, GetTraceID(ctx))

	tc := NewTraceContext()
	ctx = WithTrace(ctx, tc)
	assert.Equal(t, tc.TraceID, GetTraceID(ctx))
	assert.Equal(t, tc.RequestID, GetRequestID(ctx))
	assert.Len(t, tc.SpanID, 16)
}
