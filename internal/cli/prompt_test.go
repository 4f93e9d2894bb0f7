package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes short", "y\n", true},
		{"yes long", "YES\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage is no", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(context.Background(), strings.NewReader(tt.input), &out, "Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestConfirmClosedInput(t *testing.T) {
	var out bytes.Buffer
	_, err := Confirm(context.Background(), strings.NewReader(""), &out, "Proceed?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestConfirmCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	// A blocked reader never answers; the cancelled context wins.
	blocked, release := newBlockedReader()
	t.Cleanup(release)
	_, err := Confirm(ctx, blocked, &out, "Proceed?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func newBlockedReader() (*blockedReader, func()) {
	done := make(chan struct{})
	return &blockedReader{done: done}, func() { close(done) }
}

type blockedReader struct {
	done chan struct{}
}

func (r *blockedReader) Read([]byte) (int, error) {
	<-r.done
	return 0, nil
}
