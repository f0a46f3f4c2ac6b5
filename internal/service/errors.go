package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/ymatsuda/captionize/internal/youtube"
)

// User-facing messages. The product surface is localized; callers show
// these verbatim.
const (
	msgEmptyURL   = "YouTubeのURLを入力してください"
	msgInvalidURL = "有効なYouTube動画のURLを入力してください"
	msgNoCaptions = "この動画には字幕がありません"
	msgTimeout    = "取得がタイムアウトしました。時間をおいてもう一度お試しください"
	msgNetwork    = "ネットワークエラーが発生しました。接続を確認してもう一度お試しください"
	msgBlocked    = "YouTubeへのアクセスが一時的に制限されています。時間をおいてもう一度お試しください"
	msgInternal   = "サーバー内部でエラーが発生しました"
	msgUnknownFmt = "字幕の取得に失敗しました: %s"
)

// noCaptionsError is a definitive outcome: the video resolved but
// yields no usable captions. It is never retried.
type noCaptionsError struct {
	reason string
}

func (e *noCaptionsError) Error() string {
	return "no captions: " + e.reason
}

// classifyError maps an exhausted-retries error onto its user-facing
// message.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}

	var retrieval *youtube.RetrievalError
	if errors.As(err, &retrieval) {
		switch retrieval.StatusCode {
		case http.StatusForbidden, http.StatusTooManyRequests:
			return msgBlocked
		}
	}
	if isBlockedMessage(err.Error()) {
		return msgBlocked
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrPermission) {
		return msgInternal
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) || isNetworkMessage(err.Error()) {
		return msgNetwork
	}

	return fmt.Sprintf(msgUnknownFmt, err.Error())
}

// isBlockedMessage recognizes YouTube's access-denial responses by
// their well-known markers.
func isBlockedMessage(msg string) bool {
	for _, marker := range []string{
		"403",
		"429",
		"Sign in to confirm",
		"captcha",
		"blocked",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isNetworkMessage(msg string) bool {
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"EOF",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
