package notify

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
)

type Notify interface {
	Webhook(title string, content string) error
}

// Dispatcher pushes one message to every notifier concurrently.
type Dispatcher struct {
	notifiers []Notify
	pool      *ants.Pool
}

func NewDispatcher(size int, notifiers ...Notify) (*Dispatcher, error) {
	if size <= 0 {
		size = len(notifiers)
	}
	if size <= 0 {
		size = 1
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{notifiers: notifiers, pool: pool}, nil
}

func (d *Dispatcher) Webhook(title string, content string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	for i := range d.notifiers {
		n := d.notifiers[i]

		wg.Add(1)
		if err := d.pool.Submit(func() {
			defer wg.Done()

			if err := n.Webhook(title, content); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
		}
	}
	wg.Wait()

	return errs
}

func (d *Dispatcher) Len() int {
	return len(d.notifiers)
}

func (d *Dispatcher) Release() {
	d.pool.Release()
}
