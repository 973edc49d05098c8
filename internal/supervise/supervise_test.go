package supervise

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	live := context.Background()
	done, cancel := context.WithCancel(context.Background())
	cancel()

	other := errors.New("socket closed")
	tests := []struct {
		name    string
		ctx     context.Context
		err     error
		wantNil bool
		wantCtx bool
		is      []error
	}{
		{name: "nil", ctx: live, err: nil, wantNil: true},
		{name: "plain error passes through", ctx: live, err: other, is: []error{other}},
		{name: "stray cancel is masked", ctx: live, err: context.Canceled},
		{name: "stray deadline is masked", ctx: live, err: context.DeadlineExceeded},
		{name: "parent done wins", ctx: done, err: other, wantCtx: true},
		{
			name: "do not restart survives masking",
			ctx:  live,
			err:  errors.Join(context.Canceled, suture.ErrDoNotRestart),
			is:   []error{suture.ErrDoNotRestart},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeError(tt.ctx, tt.err)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("SanitizeError = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("SanitizeError = nil")
			}
			isCtx := errors.Is(got, context.Canceled) || errors.Is(got, context.DeadlineExceeded)
			if isCtx != tt.wantCtx {
				t.Fatalf("SanitizeError(%v) context error = %v, want %v", tt.err, isCtx, tt.wantCtx)
			}
			for _, target := range tt.is {
				if !errors.Is(got, target) {
					t.Fatalf("SanitizeError(%v) = %v, want it to wrap %v", tt.err, got, target)
				}
			}
		})
	}
}

func TestSupervisorRunsServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sup := New("test", logger)

	started := make(chan struct{})
	runs := 0
	Add(sup, NewServiceFunc("worker", func(ctx context.Context) error {
		runs++
		if runs == 1 {
			return errors.New("first run fails")
		}
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errc := sup.ServeBackground(ctx)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("service was not restarted")
	}
	cancel()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("supervisor returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestServiceFuncString(t *testing.T) {
	s := NewServiceFunc("ipc", func(context.Context) error { return nil })
	if s.String() != "ipc" {
		t.Fatalf("String() = %q", s.String())
	}
}
