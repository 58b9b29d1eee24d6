package notify

import (
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/multierr"
)

type countNotify struct {
	calls atomic.Int32
	err   error
}

func (c *countNotify) Webhook(string, string) error {
	c.calls.Add(1)
	return c.err
}

func TestDispatcher_Webhook(t *testing.T) {
	boom := errors.New("boom")
	ok1, ok2, bad := &countNotify{}, &countNotify{}, &countNotify{err: boom}

	d, err := NewDispatcher(0, ok1, bad, ok2)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Release()

	err = d.Webhook("zone", "message")
	if !errors.Is(err, boom) || len(multierr.Errors(err)) != 1 {
		t.Errorf("expected only boom, got %v", err)
	}
	for i, n := range []*countNotify{ok1, bad, ok2} {
		if n.calls.Load() != 1 {
			t.Errorf("notifier %d called %d times", i, n.calls.Load())
		}
	}
	if d.Len() != 3 {
		t.Errorf("len %d", d.Len())
	}
}

func TestDispatcher_SmallPool(t *testing.T) {
	var notifiers []Notify
	for i := 0; i < 5; i++ {
		notifiers = append(notifiers, &countNotify{})
	}

	d, err := NewDispatcher(1, notifiers...)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Release()

	if err := d.Webhook("zone", "message"); err != nil {
		t.Fatal(err)
	}
	for i := range notifiers {
		if c := notifiers[i].(*countNotify).calls.Load(); c != 1 {
			t.Errorf("notifier %d called %d times", i, c)
		}
	}
}
