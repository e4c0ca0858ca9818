package copyerr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{want: "TransientIO", kind: TransientIO},
		{want: "CheckpointInvalid", kind: CheckpointInvalid},
		{want: "NotImplemented", kind: NotImplemented},
		{want: "Unknown", kind: Kind(0)},
		{want: "Unknown", kind: Kind(42)},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "transient", err: Transient("read", "/a", io.ErrUnexpectedEOF), want: true},
		{name: "wrapped transient", err: fmt.Errorf("attempt: %w", Transient("open", "/a", io.EOF)), want: true},
		{name: "invalid checkpoint", err: InvalidCheckpoint("/a.progress", ErrWrongSize), want: false},
		{name: "not implemented", err: Unimplemented("serve"), want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestInvalidCheckpointUnwrapsCause(t *testing.T) {
	err := InvalidCheckpoint("/dst/f.bin.progress", ErrOutOfRange)

	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.True(t, IsKind(err, CheckpointInvalid))
	assert.False(t, IsKind(err, TransientIO))
	assert.Equal(t, "checkpoint /dst/f.bin.progress: checkpoint offset outside source file", err.Error())
}

func TestUnimplemented(t *testing.T) {
	err := Unimplemented("serve")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.True(t, IsKind(err, NotImplemented))
	assert.Equal(t, "serve: not implemented", err.Error())
}

func TestErrorMessageWithoutOp(t *testing.T) {
	err := &Error{Kind: TransientIO, Path: "/x", Err: io.EOF}
	assert.Equal(t, "/x: EOF", err.Error())

	err = &Error{Kind: TransientIO, Err: io.EOF}
	assert.Equal(t, "EOF", err.Error())
}
