package gateway

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("sign in: %w", NewAuthError(CodeWrongPassword, errors.New("INVALID_PASSWORD")))

	assert.Equal(t, CodeWrongPassword, AuthCodeOf(wrapped))
	assert.Equal(t, CodeUnknown, AuthCodeOf(errors.New("dial tcp: refused")))
	assert.Equal(t, AuthCode(""), AuthCodeOf(nil))
}

func TestAuthError_Error(t *testing.T) {
	assert.Equal(t, "auth/user-not-found", NewAuthError(CodeUserNotFound, nil).Error())
	assert.Equal(t, "auth/unknown: boom", NewAuthError(CodeUnknown, errors.New("boom")).Error())
}

func TestMessage_HasContent(t *testing.T) {
	assert.False(t, Message{Author: "a@x.com"}.HasContent())
	assert.True(t, Message{Text: "hi"}.HasContent())
	assert.True(t, Message{Image: "AAAA"}.HasContent())
	assert.True(t, Message{ImageURL: "http://x/y"}.HasContent())
}

func TestFeedQuery(t *testing.T) {
	q := FeedQuery("messages")
	assert.Equal(t, Query{Collection: "messages", OrderBy: "createdAt", Direction: Asc}, q)
}

func TestAuthState_ObserveAndCancel(t *testing.T) {
	var s AuthState
	var seen []*Identity

	cancel := s.ObserveAuthState(func(id *Identity) { seen = append(seen, id) })
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0], "initial callback reports signed out")

	s.Set(&Identity{UID: "1", Email: "a@x.com"})
	require.Len(t, seen, 2)
	assert.Equal(t, "a@x.com", seen[1].Email)

	// observers get copies
	seen[1].Email = "mutated"
	assert.Equal(t, "a@x.com", s.Current().Email)

	cancel()
	cancel()
	s.Set(nil)
	assert.Len(t, seen, 2)
	assert.Nil(t, s.Current())
}

func TestGateway_Shutdown(t *testing.T) {
	var nilGW *Gateway
	assert.NoError(t, nilGW.Shutdown())

	closed := false
	g := &Gateway{Close: func() error { closed = true; return nil }}
	assert.NoError(t, g.Shutdown())
	assert.True(t, closed)
}
