package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"voucherbot/internal/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the parts of tele.Context the middlewares touch
type fakeContext struct {
	tele.Context
	chat      *tele.Chat
	callback  *tele.Callback
	text      string
	store     map[string]interface{}
	responded bool
}

func newFakeContext(chatID int64) *fakeContext {
	return &fakeContext{chat: &tele.Chat{ID: chatID}, store: make(map[string]interface{})}
}

func (f *fakeContext) Chat() *tele.Chat         { return f.chat }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Message() *tele.Message   { return &tele.Message{Text: f.text} }
func (f *fakeContext) Get(key string) interface{} {
	return f.store[key]
}
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responded = true
	return nil
}

func TestAdminOnly(t *testing.T) {
	isAdmin := func(chatID int64) bool { return chatID == 111 }

	tests := []struct {
		name       string
		chatID     int64
		expectNext bool
	}{
		{name: "admin passes", chatID: 111, expectNext: true},
		{name: "stranger denied", chatID: 222},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled, denyCalled bool
			deny := func(tele.Context) error { denyCalled = true; return nil }
			next := func(tele.Context) error { nextCalled = true; return nil }

			err := AdminOnly(isAdmin, deny, zap.NewNop())(next)(newFakeContext(tt.chatID))

			assert.NoError(t, err)
			assert.Equal(t, tt.expectNext, nextCalled)
			assert.Equal(t, !tt.expectNext, denyCalled)
		})
	}
}

func TestLogging_SetsRequestID(t *testing.T) {
	c := newFakeContext(42)
	c.text = "/start"

	var seen interface{}
	handlerErr := errors.New("boom")
	err := Logging(zap.NewNop())(func(c tele.Context) error {
		seen = c.Get(RequestIDKey)
		return handlerErr
	})(c)

	assert.ErrorIs(t, err, handlerErr)
	id, ok := seen.(string)
	require.True(t, ok)
	assert.Len(t, id, 36)
}

func TestRecover(t *testing.T) {
	err := Recover(zap.NewNop())(func(tele.Context) error {
		panic("nil map")
	})(newFakeContext(42))

	assert.EqualError(t, err, "handler panic: nil map")
}

func TestChatLock_DropsWhenBusy(t *testing.T) {
	locker := lock.NewMemory()
	unlock, err := locker.Lock(context.Background(), 42)
	require.NoError(t, err)
	defer unlock()

	c := newFakeContext(42)
	c.callback = &tele.Callback{ID: "cb"}

	called := false
	err = ChatLock(locker, 20*time.Millisecond, zap.NewNop())(func(tele.Context) error {
		called = true
		return nil
	})(c)

	assert.NoError(t, err)
	assert.False(t, called)
	assert.True(t, c.responded)
}

func TestChatLock_ReleasesAfterHandler(t *testing.T) {
	locker := lock.NewMemory()
	mw := ChatLock(locker, time.Second, zap.NewNop())

	for i := 0; i < 3; i++ {
		called := false
		err := mw(func(tele.Context) error {
			called = true
			assert.Equal(t, 1, locker.Len())
			return nil
		})(newFakeContext(42))

		assert.NoError(t, err)
		assert.True(t, called)
	}
	assert.Equal(t, 0, locker.Len())
}
