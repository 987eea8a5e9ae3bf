package service

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthService_Check(t *testing.T) {
	ok := NewHealthService(pingerFunc(func(ctx context.Context) error {
		if _, has := ctx.Deadline(); !has {
			t.Fatalf("ping must run with a deadline")
		}
		return nil
	}))
	if err := ok.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}

	down := NewHealthService(pingerFunc(func(context.Context) error { return errors.New("closed") }))
	if err := down.Check(context.Background()); err == nil {
		t.Fatalf("expected error when ping fails")
	}

	if err := NewHealthService(nil).Check(context.Background()); err == nil {
		t.Fatalf("expected error without database")
	}
}
