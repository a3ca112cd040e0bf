// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/pipeline"
)

type fakeRunner struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRunner) Run(context.Context) (*pipeline.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Result{RunID: "run-1", Duration: time.Millisecond}, nil
}

// syncBuffer guards a bytes.Buffer shared with the service goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func servePipeline(t *testing.T, svc *PipelineService, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestPipelineService_Schedule(t *testing.T) {
	tests := []struct {
		name     string
		cfg      PipelineServiceConfig
		minCalls int32
		maxCalls int32
	}{
		{"startup only", PipelineServiceConfig{RunOnStartup: true}, 1, 1},
		{"idle", PipelineServiceConfig{}, 0, 0},
		{"ticker", PipelineServiceConfig{Interval: 20 * time.Millisecond}, 3, 10},
		{"startup and ticker", PipelineServiceConfig{RunOnStartup: true, Interval: 20 * time.Millisecond}, 4, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			svc := NewPipelineService(runner, tt.cfg, logging.NewTestLogger(&syncBuffer{}))
			err := servePipeline(t, svc, 100*time.Millisecond)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want deadline exceeded", err)
			}
			if got := runner.calls.Load(); got < tt.minCalls || got > tt.maxCalls {
				t.Errorf("runs = %d, want [%d, %d]", got, tt.minCalls, tt.maxCalls)
			}
		})
	}
}

func TestPipelineService_FailuresDoNotStopService(t *testing.T) {
	var logs syncBuffer
	runner := &fakeRunner{err: errors.New("orders source unreadable")}
	svc := NewPipelineService(runner, PipelineServiceConfig{RunOnStartup: true, Interval: 20 * time.Millisecond}, logging.NewTestLogger(&logs))

	if err := servePipeline(t, svc, 80*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve() = %v", err)
	}
	if runner.calls.Load() < 2 {
		t.Errorf("runs = %d, want retries after failure", runner.calls.Load())
	}
	if !strings.Contains(logs.String(), "keeping previous model") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestPipelineService_RunInProgressIsQuiet(t *testing.T) {
	var logs syncBuffer
	runner := &fakeRunner{err: pipeline.ErrRunInProgress}
	svc := NewPipelineService(runner, PipelineServiceConfig{RunOnStartup: true}, logging.NewTestLogger(&logs))
	_ = servePipeline(t, svc, 30*time.Millisecond)
	if strings.Contains(logs.String(), `"level":"warn"`) {
		t.Errorf("busy runner logged a warning: %s", logs.String())
	}
}

func TestPipelineService_UnderSupervisor(t *testing.T) {
	runner := &fakeRunner{}
	sup := suture.New("test", suture.Spec{Timeout: time.Second})
	sup.Add(NewPipelineService(runner, PipelineServiceConfig{RunOnStartup: true}, logging.NewTestLogger(&syncBuffer{})))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)
	if runner.calls.Load() != 1 {
		t.Errorf("runs = %d, want 1", runner.calls.Load())
	}
}
