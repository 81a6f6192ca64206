package contextWaitGroup

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoCriticalCancelsGroup(t *testing.T) {
	c := New(context.Background())

	stopped := make(chan struct{})
	c.Go("waiter", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	})
	c.GoCritical("window", func(context.Context) error {
		return errors.New("window closed")
	})

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("group not cancelled")
	}
	c.Wait()
}

func TestGoDoesNotCancelGroup(t *testing.T) {
	c := New(context.Background())
	defer c.Cancel()

	c.Go("short", func(context.Context) error { return nil })
	c.Wait()

	if err := c.Ctx.Err(); err != nil {
		t.Fatalf("context cancelled by a non-critical loop: %v", err)
	}
}
