package reconciler

import (
	"context"
	"errors"
	"net/netip"
	"reflect"
	"testing"

	"go.uber.org/multierr"

	"github.com/thank243/cfddns6/common/ddns"
	"github.com/thank243/cfddns6/common/ddns/ddnstest"
)

var testAddr = netip.MustParseAddr("2001:db8::1")

func TestCreateOrUpdate(t *testing.T) {
	cli := &ddnstest.Client{}
	r := New(cli, "zone", 0)
	names := []string{"c.example.com", "a.example.com", "b.example.com"}

	res, err := r.CreateOrUpdate(context.Background(), testAddr, names)
	if err != nil {
		t.Fatal(err)
	}

	calls := cli.CallsOf("create")
	if len(calls) != len(names) || len(cli.Calls) != len(names) {
		t.Fatalf("expected %d create calls only, got %+v", len(names), cli.Calls)
	}
	for i, call := range calls {
		if call.ZoneID != "zone" || call.Record.Name != names[i] || call.Record.Type != ddns.RecordTypeAAAA || call.Record.Content != "2001:db8::1" {
			t.Errorf("call %d: %+v", i, call)
		}
	}
	if !reflect.DeepEqual(res.Created, names) {
		t.Errorf("created: %q", res.Created)
	}
}

func TestCreateOrUpdateDoesNotDeduplicate(t *testing.T) {
	cli := &ddnstest.Client{Records: []ddns.Record{
		{ID: "1", Name: "a.example.com", Type: "AAAA", Content: "2001:db8::1"},
	}}

	if _, err := New(cli, "zone", 0).CreateOrUpdate(context.Background(), testAddr, []string{"a.example.com"}); err != nil {
		t.Fatal(err)
	}
	if len(cli.CallsOf("list")) != 0 || len(cli.CallsOf("create")) != 1 {
		t.Errorf("unexpected calls %+v", cli.Calls)
	}
}

func TestCreateOrUpdateFailFast(t *testing.T) {
	cli := &ddnstest.Client{FailOn: map[string]int{"create": 2}}
	names := []string{"1.example.com", "2.example.com", "3.example.com", "4.example.com", "5.example.com"}

	res, err := New(cli, "zone", 0).CreateOrUpdate(context.Background(), testAddr, names)
	if !errors.Is(err, ddnstest.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if got := len(cli.CallsOf("create")); got != 2 {
		t.Errorf("expected 2 create calls, got %d", got)
	}
	if !reflect.DeepEqual(res.Created, []string{"1.example.com"}) {
		t.Errorf("created: %q", res.Created)
	}
}

func TestCreateOrUpdateEmpty(t *testing.T) {
	cli := &ddnstest.Client{}
	if _, err := New(cli, "zone", 0).CreateOrUpdate(context.Background(), testAddr, nil); err != nil {
		t.Fatal(err)
	}
	if len(cli.Calls) != 0 {
		t.Errorf("expected no calls, got %+v", cli.Calls)
	}
}

func TestDeleteExactMatchOnly(t *testing.T) {
	cli := &ddnstest.Client{Records: []ddns.Record{
		{ID: "a", Name: "a.example.com", Type: "AAAA"},
		{ID: "b", Name: "b.example.com", Type: "AAAA"},
		{ID: "c", Name: "c.example.com", Type: "AAAA"},
	}}

	res, err := New(cli, "zone", 0).Delete(context.Background(), []string{"b.example.com"})
	if err != nil {
		t.Fatal(err)
	}

	deletes := cli.CallsOf("delete")
	if len(deletes) != 1 || deletes[0].Record.ID != "b" {
		t.Fatalf("expected one delete of b, got %+v", deletes)
	}
	if !reflect.DeepEqual(res.Deleted, []string{"b.example.com"}) {
		t.Errorf("deleted: %q", res.Deleted)
	}
	if len(cli.Records) != 2 {
		t.Errorf("other records must stay, got %+v", cli.Records)
	}
}

func TestDeleteNoNormalization(t *testing.T) {
	cli := &ddnstest.Client{Records: []ddns.Record{
		{ID: "upper", Name: "B.example.com", Type: "AAAA"},
		{ID: "sub", Name: "x.b.example.com", Type: "AAAA"},
		{ID: "txt", Name: "b.example.com", Type: "TXT"},
		{ID: "aaaa", Name: "b.example.com", Type: "AAAA"},
	}}

	if _, err := New(cli, "zone", 0).Delete(context.Background(), []string{"b.example.com"}); err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, call := range cli.CallsOf("delete") {
		ids = append(ids, call.Record.ID)
	}
	if !reflect.DeepEqual(ids, []string{"txt", "aaaa"}) {
		t.Errorf("deleted ids %q", ids)
	}
}

func TestDeleteListFailure(t *testing.T) {
	cli := &ddnstest.Client{
		Records: []ddns.Record{{ID: "a", Name: "a.example.com"}},
		FailOn:  map[string]int{"list": 1},
	}

	if _, err := New(cli, "zone", 0).Delete(context.Background(), []string{"a.example.com"}); !errors.Is(err, ddnstest.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(cli.CallsOf("delete")) != 0 {
		t.Error("nothing may be deleted after a failed listing")
	}
}

func TestDeleteContinuesAndCollects(t *testing.T) {
	cli := &ddnstest.Client{
		Records: []ddns.Record{
			{ID: "a", Name: "a.example.com"},
			{ID: "b", Name: "b.example.com"},
			{ID: "c", Name: "c.example.com"},
		},
		FailOn: map[string]int{"delete": 1},
	}

	res, err := New(cli, "zone", 0).Delete(context.Background(), []string{"a.example.com", "b.example.com", "c.example.com"})
	if !errors.Is(err, ddnstest.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(multierr.Errors(err)) != 1 {
		t.Errorf("expected one collected error, got %v", err)
	}
	if len(cli.CallsOf("delete")) != 3 {
		t.Errorf("every match must be attempted, got %+v", cli.CallsOf("delete"))
	}
	if !reflect.DeepEqual(res.Deleted, []string{"b.example.com", "c.example.com"}) {
		t.Errorf("deleted: %q", res.Deleted)
	}
}

func TestSync(t *testing.T) {
	cli := &ddnstest.Client{Records: []ddns.Record{
		{ID: "cur", Name: "current.example.com", Type: "AAAA", Content: "2001:0db8:0000::1"},
		{ID: "old", Name: "stale.example.com", Type: "AAAA", Content: "2001:db8::99"},
		{ID: "a", Name: "new.example.com", Type: "A", Content: "192.0.2.1"},
	}}

	names := []string{"current.example.com", "stale.example.com", "new.example.com", "new.example.com"}
	res, err := New(cli, "zone", 0).Sync(context.Background(), testAddr, names)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(res.Unchanged, []string{"current.example.com", "new.example.com"}) {
		t.Errorf("unchanged: %q", res.Unchanged)
	}
	if !reflect.DeepEqual(res.Updated, []string{"stale.example.com"}) {
		t.Errorf("updated: %q", res.Updated)
	}
	if !reflect.DeepEqual(res.Created, []string{"new.example.com"}) {
		t.Errorf("created: %q", res.Created)
	}

	updates := cli.CallsOf("update")
	if len(updates) != 1 || updates[0].Record.ID != "old" || updates[0].Record.Content != "2001:db8::1" {
		t.Errorf("unexpected updates %+v", updates)
	}
	creates := cli.CallsOf("create")
	if len(creates) != 1 || creates[0].Record.Name != "new.example.com" || creates[0].Record.Type != "AAAA" {
		t.Errorf("unexpected creates %+v", creates)
	}
	if len(cli.CallsOf("list")) != 1 {
		t.Error("sync must list once")
	}
}

func TestSyncFailFast(t *testing.T) {
	cli := &ddnstest.Client{FailOn: map[string]int{"create": 1}}

	_, err := New(cli, "zone", 0).Sync(context.Background(), testAddr, []string{"a.example.com", "b.example.com"})
	if !errors.Is(err, ddnstest.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(cli.CallsOf("create")) != 1 {
		t.Errorf("expected a single create attempt, got %+v", cli.CallsOf("create"))
	}
}
