// Package session 保存访客在请求之间的答题状态：每次答题抽到的题目序列和一次性提示消息
package session

import (
	"context"
	"errors"
)

// ErrNoSample 会话中没有该答题记录的题目序列（不是在本会话开始的，或会话已过期）
var ErrNoSample = errors.New("session: no sample for attempt")

// Store 按会话保存 attemptID -> 题目 ID 序列，以及提示消息队列
type Store interface {
	SaveSample(ctx context.Context, sessionID string, attemptID uint, questionIDs []uint) error
	LoadSample(ctx context.Context, sessionID string, attemptID uint) ([]uint, error)
	ClearSample(ctx context.Context, sessionID string, attemptID uint) error

	AddFlash(ctx context.Context, sessionID, message string) error
	PopFlashes(ctx context.Context, sessionID string) ([]string, error)

	Ping(ctx context.Context) error
}
