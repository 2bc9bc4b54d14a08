// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"sync"
	"time"

	"atomicgo.dev/schedule"
)

// Task is a cancelable handle to a scheduled callback.
type Task = interface {
	Stop()
}

// Scheduler arms one-shot callbacks.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// DefaultScheduler runs callbacks on their own goroutine after d. Stopping a
// task ends its goroutine straight away.
type DefaultScheduler struct{}

// minDelay keeps the ticker interval positive.
const minDelay = time.Millisecond

func (DefaultScheduler) After(d time.Duration, fn func()) Task {
	if d < minDelay {
		d = minDelay
	}
	t := &scheduledTask{}
	t.mu.Lock()
	defer t.mu.Unlock()
	// Every only closes its stop channel when told to, unlike After which
	// closes it itself once the callback returns.
	t.task = schedule.Every(d, func() bool {
		if t.finish() {
			fn()
		}
		return false
	})
	return t
}

// scheduledTask makes a schedule.Every task one-shot. Whichever of the first
// tick or Stop comes first stops the underlying task exactly once.
type scheduledTask struct {
	mu   sync.Mutex
	task *schedule.Task
	done bool
}

// finish stops the underlying task and reports whether this call did it.
func (t *scheduledTask) finish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.task.Stop()
	return true
}

func (t *scheduledTask) Stop() { t.finish() }
