// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerRuns(t *testing.T) {
	done := make(chan struct{})
	DefaultScheduler{}.After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not run")
	}
}

func TestDefaultSchedulerStop(t *testing.T) {
	var ran atomic.Bool
	task := DefaultScheduler{}.After(20*time.Millisecond, func() { ran.Store(true) })
	task.Stop()
	task.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestDefaultSchedulerStopAfterRun(t *testing.T) {
	done := make(chan struct{})
	task := DefaultScheduler{}.After(0, func() { close(done) })
	<-done
	assert.NotPanics(t, task.Stop)
}

func TestDefaultSchedulerStopReleasesGoroutine(t *testing.T) {
	before := runtime.NumGoroutine()

	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = DefaultScheduler{}.After(time.Hour, func() {})
	}
	assert.GreaterOrEqual(t, runtime.NumGoroutine(), before+len(tasks))

	for _, task := range tasks {
		task.Stop()
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}
