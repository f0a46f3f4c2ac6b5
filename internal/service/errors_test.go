package service

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ymatsuda/captionize/internal/youtube"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: msgTimeout,
		},
		{
			name: "net timeout",
			err:  timeoutErr{},
			want: msgTimeout,
		},
		{
			name: "retrieval 403",
			err:  &youtube.RetrievalError{StatusCode: 403, Reason: "unexpected status"},
			want: msgBlocked,
		},
		{
			name: "retrieval 429",
			err:  &youtube.RetrievalError{StatusCode: 429, Reason: "unexpected status"},
			want: msgBlocked,
		},
		{
			name: "sign-in wall",
			err:  errors.New("Sign in to confirm you're not a bot"),
			want: msgBlocked,
		},
		{
			name: "filesystem",
			err:  &os.PathError{Op: "open", Path: "/var/task/cookies", Err: os.ErrPermission},
			want: msgInternal,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp: connection refused"),
			want: msgNetwork,
		},
		{
			name: "op error",
			err:  &net.OpError{Op: "dial", Err: errors.New("unreachable")},
			want: msgNetwork,
		},
		{
			name: "residual carries raw message",
			err:  errors.New("something odd happened"),
			want: "字幕の取得に失敗しました: something odd happened",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Equal(t, "", classifyError(nil))
}
