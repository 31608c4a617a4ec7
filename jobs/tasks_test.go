package jobs

import (
	"context"
	"errors"
	"testing"
)

type mockBumper struct {
	calls int
	err   error
}

func (m *mockBumper) Bump(ctx context.Context) error {
	m.calls++
	return m.err
}

func TestCacheRolloverHandlerBumpsCache(t *testing.T) {
	bumper := &mockBumper{}
	handler := NewCacheRolloverHandler(bumper, nil)

	if err := handler(context.Background(), NewCacheRolloverTask()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bumper.calls != 1 {
		t.Fatalf("expected one bump, got %d", bumper.calls)
	}
}

func TestCacheRolloverHandlerPropagatesError(t *testing.T) {
	wantErr := errors.New("redis down")
	handler := NewCacheRolloverHandler(&mockBumper{err: wantErr}, nil)

	if err := handler(context.Background(), NewCacheRolloverTask()); !errors.Is(err, wantErr) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
