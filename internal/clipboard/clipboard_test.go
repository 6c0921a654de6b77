package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) backend() backend {
	return backend{
		unsupported: func() bool { return false },
		read:        func() (string, error) { return f.text, nil },
		write: func(text string) error {
			f.text = text
			return nil
		},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeClipboard{}
	ctx := withBackend(context.Background(), fake.backend())

	has, err := HasString(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, SetString(ctx, "pod 'maps'"))

	has, err = HasString(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	text, err := GetString(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pod 'maps'", text)
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	ctx := withBackend(context.Background(), backend{
		unsupported: func() bool { return true },
	})

	_, err := GetString(ctx)
	var unavailable *UnavailabilityError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "read", unavailable.Op)

	err = SetString(ctx, "x")
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "write", unavailable.Op)

	_, err = HasString(ctx)
	assert.ErrorAs(t, err, &unavailable)
}

func TestReadError(t *testing.T) {
	t.Parallel()

	ctx := withBackend(context.Background(), backend{
		unsupported: func() bool { return false },
		read:        func() (string, error) { return "", errors.New("exit status 1") },
	})

	_, err := GetString(ctx)
	assert.EqualError(t, err, "failed to read clipboard: exit status 1")
}
