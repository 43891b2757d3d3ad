package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestGetWorkerLimitDefault(t *testing.T) {
	if GetWorkerLimit() <= 0 {
		t.Error("expected a positive default worker limit")
	}
}

func TestGetWorkerLimitEnvOverride(t *testing.T) {
	t.Setenv("SHTK_WORKERS", "3")
	if got := GetWorkerLimit(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}

	t.Setenv("SHTK_WORKERS", "not a number")
	if GetWorkerLimit() <= 0 {
		t.Error("expected fallback for invalid override")
	}
}

func TestWorkerPoolProcessItems(t *testing.T) {
	pool := NewWorkerPool(4, func(_ context.Context, item string) (int, error) {
		return len(item), nil
	})

	items := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	results, errs := pool.ProcessItems(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, item := range items {
		if errs[i] != nil {
			t.Errorf("item %d: unexpected error %v", i, errs[i])
		}
		if results[i] != len(item) {
			t.Errorf("item %d: expected %d, got %d", i, len(item), results[i])
		}
	}
}

func TestWorkerPoolEmptyInput(t *testing.T) {
	pool := NewWorkerPool(2, func(_ context.Context, item int) (int, error) {
		return item, nil
	})
	results, errs := pool.ProcessItems(context.Background(), nil)
	if results != nil || errs != nil {
		t.Error("expected nil results for empty input")
	}
}

func TestWorkerPoolPropagatesErrors(t *testing.T) {
	sentinel := errors.New("boom")
	pool := NewWorkerPool(2, func(_ context.Context, item int) (int, error) {
		if item%2 == 0 {
			return 0, sentinel
		}
		return item, nil
	})

	_, errs := pool.ProcessItems(context.Background(), []int{0, 1, 2, 3})
	for i, err := range errs {
		if i%2 == 0 && !errors.Is(err, sentinel) {
			t.Errorf("item %d: expected sentinel error, got %v", i, err)
		}
		if i%2 == 1 && err != nil {
			t.Errorf("item %d: unexpected error %v", i, err)
		}
	}
}

func TestWorkerPoolRecoversPanic(t *testing.T) {
	pool := NewWorkerPool(2, func(_ context.Context, item int) (int, error) {
		if item == 1 {
			panic("worker exploded")
		}
		return item, nil
	})

	_, errs := pool.ProcessItems(context.Background(), []int{0, 1, 2})

	var pe *PanicError
	if !errors.As(errs[1], &pe) {
		t.Fatalf("expected PanicError, got %v", errs[1])
	}
	if pe.Value != "worker exploded" {
		t.Errorf("unexpected panic value: %v", pe.Value)
	}
	if errs[0] != nil || errs[2] != nil {
		t.Error("expected other items to succeed")
	}
}

func TestRecoverAsError(t *testing.T) {
	fn := func() (err error) {
		defer RecoverAsError(&err)
		panic(fmt.Errorf("inner"))
	}
	err := fn()
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PanicError, got %v", err)
	}
}
