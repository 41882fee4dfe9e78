package manipulation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionError_Is(t *testing.T) {
	err := InvalidOption("case", "shouty")

	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.False(t, errors.Is(err, ErrInvalidParameter))
	assert.Equal(t, `invalid option "shouty" for case`, err.Error())
}

func TestInvalidParameter_Message(t *testing.T) {
	err := InvalidParameter("targetLength", -1)

	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.Equal(t, `invalid parameter "-1" for targetLength`, err.Error())
}

func TestCharsetError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unknown charset",
			err:  NewCharsetError("klingon", nil),
			want: `charset error: unknown charset "klingon"`,
		},
		{
			name: "with cause",
			err:  NewCharsetError("utf-8", errors.New("invalid byte")),
			want: "charset error (utf-8): invalid byte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrCharset))
		})
	}
}

func TestRecordError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("operation 2: %w", InvalidOption("action", "explode"))
	err := &RecordError{Index: 3, Err: inner}

	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.Equal(t, `record 3: operation 2: invalid option "explode" for action`, err.Error())

	var re *RecordError
	assert.True(t, errors.As(fmt.Errorf("batch: %w", err), &re))
	assert.Equal(t, 3, re.Index)
}
