// Package ddnstest provides an in-memory ddns.Client for tests.
package ddnstest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thank243/cfddns6/common/ddns"
)

var ErrInjected = errors.New("injected failure")

type Call struct {
	Op     string
	ZoneID string
	Record ddns.Record
}

// Client records every call. FailOn maps an operation name ("list",
// "create", "update", "delete") to the 1-based call number that fails.
type Client struct {
	sync.Mutex
	Records []ddns.Record
	Calls   []Call
	FailOn  map[string]int

	counts map[string]int
	nextID int
}

func (c *Client) ListRecords(_ context.Context, zoneID string, _ int) ([]ddns.Record, error) {
	c.Lock()
	defer c.Unlock()

	if err := c.record("list", zoneID, ddns.Record{}); err != nil {
		return nil, err
	}
	return append([]ddns.Record(nil), c.Records...), nil
}

func (c *Client) CreateRecord(_ context.Context, zoneID string, record ddns.Record) (ddns.Record, error) {
	c.Lock()
	defer c.Unlock()

	if err := c.record("create", zoneID, record); err != nil {
		return ddns.Record{}, err
	}
	c.nextID++
	record.ID = fmt.Sprintf("new-%d", c.nextID)
	c.Records = append(c.Records, record)
	return record, nil
}

func (c *Client) UpdateRecord(_ context.Context, zoneID string, record ddns.Record) error {
	c.Lock()
	defer c.Unlock()

	if err := c.record("update", zoneID, record); err != nil {
		return err
	}
	for i := range c.Records {
		if c.Records[i].ID == record.ID {
			c.Records[i] = record
		}
	}
	return nil
}

func (c *Client) DeleteRecord(_ context.Context, zoneID string, recordID string) error {
	c.Lock()
	defer c.Unlock()

	if err := c.record("delete", zoneID, ddns.Record{ID: recordID}); err != nil {
		return err
	}
	for i := range c.Records {
		if c.Records[i].ID == recordID {
			c.Records = append(c.Records[:i], c.Records[i+1:]...)
			break
		}
	}
	return nil
}

// CallsOf returns the calls made for one operation.
func (c *Client) CallsOf(op string) []Call {
	c.Lock()
	defer c.Unlock()

	var calls []Call
	for i := range c.Calls {
		if c.Calls[i].Op == op {
			calls = append(calls, c.Calls[i])
		}
	}
	return calls
}

func (c *Client) record(op string, zoneID string, record ddns.Record) error {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[op]++
	c.Calls = append(c.Calls, Call{Op: op, ZoneID: zoneID, Record: record})

	if n, ok := c.FailOn[op]; ok && n == c.counts[op] {
		return &ddns.Error{Op: op, Name: record.Name, Err: ErrInjected}
	}
	return nil
}
