package tasksvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

const maxSleep = 30 * time.Second

// RegisterBuiltins binds the stock topics every server exposes:
//
//	echo   — returns the payload unchanged
//	sha256 — hex digest of the payload
//	sleep  — payload {"ms": N} pauses before completing
func RegisterBuiltins(s *Service) error {
	if err := s.Register("echo", func(ctx context.Context, task Task) (Result, error) {
		return Result{Topic: task.Topic, Payload: task.Payload}, nil
	}); err != nil {
		return err
	}
	if err := s.Register("sha256", func(ctx context.Context, task Task) (Result, error) {
		sum := sha256.Sum256(task.Payload)
		return Result{Topic: task.Topic, Payload: []byte(hex.EncodeToString(sum[:]))}, nil
	}); err != nil {
		return err
	}
	return s.Register("sleep", func(ctx context.Context, task Task) (Result, error) {
		var req struct {
			Ms int64 `json:"ms"`
		}
		_ = json.Unmarshal(task.Payload, &req)
		d := time.Duration(req.Ms) * time.Millisecond
		if d < 0 {
			d = 0
		}
		if d > maxSleep {
			d = maxSleep
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(d):
		}
		return Result{Topic: task.Topic, Payload: task.Payload}, nil
	})
}
