package reconciler

import (
	"context"
	"fmt"
	"net/netip"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/thank243/cfddns6/common/ddns"
	"github.com/thank243/cfddns6/helper"
)

const DefaultPageSize = 1000

func New(client ddns.Client, zoneID string, pageSize int) *Reconciler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Reconciler{
		client:   client,
		zoneID:   zoneID,
		pageSize: pageSize,
		logger:   log.WithField("zone", zoneID),
	}
}

// CreateOrUpdate creates one AAAA record per name, in order, without looking
// at what the zone already holds. The first failure stops the run.
func (r *Reconciler) CreateOrUpdate(ctx context.Context, addr netip.Addr, names []string) (*Result, error) {
	res := new(Result)

	for _, name := range names {
		r.logger.Infof("[%s] create AAAA record -> %s", name, addr)

		if _, err := r.client.CreateRecord(ctx, r.zoneID, ddns.Record{
			Name:    name,
			Type:    ddns.RecordTypeAAAA,
			Content: addr.String(),
		}); err != nil {
			return res, fmt.Errorf("[%s] create record failure: %w", name, err)
		}
		res.Created = append(res.Created, name)
	}

	return res, nil
}

// Delete removes every record, of any type, whose name exactly matches one
// of names. A failed delete does not stop the others; all failures are
// returned together once every match was attempted.
func (r *Reconciler) Delete(ctx context.Context, names []string) (*Result, error) {
	records, err := r.client.ListRecords(ctx, r.zoneID, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("cannot list records to delete: %w", err)
	}

	var (
		res   = new(Result)
		errs  error
		wants = helper.NewSet(names)
	)
	for _, record := range records {
		if !wants.Has(record.Name) {
			continue
		}

		r.logger.Infof("[%s] delete %s record %s", record.Name, record.Type, record.ID)
		if err := r.client.DeleteRecord(ctx, r.zoneID, record.ID); err != nil {
			r.logger.Errorf("[%s] delete record failure, Error: %v", record.Name, err)
			errs = multierr.Append(errs, fmt.Errorf("[%s] delete record %s failure: %w", record.Name, record.ID, err))
			continue
		}
		res.Deleted = append(res.Deleted, record.Name)
	}

	return res, errs
}

// Sync makes every name carry an AAAA record pointing at addr, reusing
// records that already exist. The first failure stops the run.
func (r *Reconciler) Sync(ctx context.Context, addr netip.Addr, names []string) (*Result, error) {
	records, err := r.client.ListRecords(ctx, r.zoneID, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("cannot list records to sync: %w", err)
	}

	existing := make(map[string][]ddns.Record)
	for _, record := range records {
		if record.Type == ddns.RecordTypeAAAA {
			existing[record.Name] = append(existing[record.Name], record)
		}
	}

	res := new(Result)
	content := addr.String()
	for _, name := range names {
		current := existing[name]

		switch {
		case hasContent(current, addr):
			r.logger.Infof("[%s] IP %s have no change", name, content)
			res.Unchanged = append(res.Unchanged, name)
		case len(current) > 0:
			record := current[0]
			r.logger.Infof("[%s] update AAAA record %s: %s -> %s", name, record.ID, record.Content, content)
			record.Content = content
			if err := r.client.UpdateRecord(ctx, r.zoneID, record); err != nil {
				return res, fmt.Errorf("[%s] update record failure: %w", name, err)
			}
			current[0].Content = content
			res.Updated = append(res.Updated, name)
		default:
			r.logger.Infof("[%s] create AAAA record -> %s", name, content)
			record := ddns.Record{
				Name:    name,
				Type:    ddns.RecordTypeAAAA,
				Content: content,
			}
			created, err := r.client.CreateRecord(ctx, r.zoneID, record)
			if err != nil {
				return res, fmt.Errorf("[%s] create record failure: %w", name, err)
			}
			// a name listed twice must not get a second record
			record.ID = created.ID
			existing[name] = append(existing[name], record)
			res.Created = append(res.Created, name)
		}
	}

	return res, nil
}

// hasContent compares parsed addresses so different spellings of the same
// IPv6 address count as equal.
func hasContent(records []ddns.Record, addr netip.Addr) bool {
	for i := range records {
		if a, err := netip.ParseAddr(records[i].Content); err == nil && a == addr {
			return true
		}
	}
	return false
}
