package game

import (
	"context"
	"time"
)

// timerHandle is a cancellable scheduled callback. Every transition that
// supersedes the state a handle was guarding must cancel it; a cancelled
// handle never fires. Stale fires are additionally filtered by sequence
// checks inside the session callbacks.
type timerHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// schedule runs fn once after d unless the handle is cancelled first.
// fn runs on its own goroutine and must take the session lock itself.
func schedule(d time.Duration, fn func()) *timerHandle {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	h := &timerHandle{ctx: ctx, cancel: cancel}
	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fn()
		}
	}()
	return h
}

// scheduleTicks runs fn every interval until the handle is cancelled.
func scheduleTicks(interval time.Duration, fn func()) *timerHandle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &timerHandle{ctx: ctx, cancel: cancel}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()
	return h
}

// Cancel stops the handle. Safe to call on nil and more than once.
func (h *timerHandle) Cancel() {
	if h == nil {
		return
	}
	h.cancel()
}
