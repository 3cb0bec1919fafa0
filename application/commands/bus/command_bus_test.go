package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCommand struct {
	Fail bool
}

func (c fakeCommand) Validate() error {
	if c.Fail {
		return errors.New("invalid")
	}
	return nil
}

func TestCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		b := NewCommandBus()
		handled := false

		err := b.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		}))
		require.NoError(t, err)

		require.NoError(t, b.Send(ctx, fakeCommand{}))
		assert.True(t, handled)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		b := NewCommandBus()
		noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

		require.NoError(t, b.Register(fakeCommand{}, noop))
		assert.Error(t, b.Register(fakeCommand{}, noop))
	})

	t.Run("fails for an unregistered command", func(t *testing.T) {
		b := NewCommandBus()
		assert.Error(t, b.Send(ctx, fakeCommand{}))
	})

	t.Run("validates before dispatch", func(t *testing.T) {
		b := NewCommandBus()
		handled := false

		require.NoError(t, b.Register(fakeCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		})))

		err := b.Send(ctx, fakeCommand{Fail: true})
		assert.Error(t, err)
		assert.False(t, handled, "an invalid command must never reach the handler")
	})
}

func TestWrap(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	handler := Wrap(
		CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			order = append(order, "handler")
			return nil
		}),
		mw("outer"), mw("inner"),
	)

	require.NoError(t, handler.Handle(context.Background(), fakeCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	wrapped := LoggingMiddleware(zap.NewNop())(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return errors.New("boom")
	}))

	err := wrapped.Handle(context.Background(), fakeCommand{})
	assert.EqualError(t, err, "boom")
}
