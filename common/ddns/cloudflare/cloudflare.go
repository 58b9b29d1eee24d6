package cloudflare

import (
	"context"
	"time"

	"github.com/cloudflare/cloudflare-go"
	log "github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/common/ddns"
)

// Cloudflare Implementation
type Cloudflare struct {
	client  *cloudflare.API
	timeout time.Duration
}

// New authenticates with the global API key and the account email.
func New(email string, apiKey string, opts ...cloudflare.Option) (*Cloudflare, error) {
	client, err := cloudflare.New(apiKey, email, opts...)
	if err != nil {
		return nil, err
	}

	return &Cloudflare{client: client}, nil
}

// SetTimeout bounds every API call. Zero leaves the transport defaults alone.
func (cf *Cloudflare) SetTimeout(t time.Duration) {
	cf.timeout = t
}

func (cf *Cloudflare) ListRecords(ctx context.Context, zoneID string, pageSize int) ([]ddns.Record, error) {
	var records []ddns.Record

	for page := 1; ; page++ {
		reqCtx, cancel := cf.withTimeout(ctx)
		result, info, err := cf.client.ListDNSRecords(reqCtx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
			ResultInfo: cloudflare.ResultInfo{
				Page:    page,
				PerPage: pageSize,
			},
		})
		cancel()
		if err != nil {
			return nil, &ddns.Error{Op: "list records", Err: err}
		}

		for i := range result {
			records = append(records, fromDNSRecord(result[i]))
		}

		if info == nil || len(result) == 0 || page >= info.TotalPages {
			break
		}
		log.Debugf("[zone %s] listed page %d/%d", zoneID, page, info.TotalPages)
	}

	return records, nil
}

func (cf *Cloudflare) CreateRecord(ctx context.Context, zoneID string, record ddns.Record) (ddns.Record, error) {
	ctx, cancel := cf.withTimeout(ctx)
	defer cancel()

	// TTL, priority and proxied stay unset so the zone defaults apply.
	created, err := cf.client.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.CreateDNSRecordParams{
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
	})
	if err != nil {
		return ddns.Record{}, &ddns.Error{Op: "create record", Name: record.Name, Err: err}
	}

	return fromDNSRecord(created), nil
}

func (cf *Cloudflare) UpdateRecord(ctx context.Context, zoneID string, record ddns.Record) error {
	ctx, cancel := cf.withTimeout(ctx)
	defer cancel()

	_, err := cf.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateDNSRecordParams{
		ID:      record.ID,
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
	})
	if err != nil {
		return &ddns.Error{Op: "update record", Name: record.Name, Err: err}
	}
	return nil
}

func (cf *Cloudflare) DeleteRecord(ctx context.Context, zoneID string, recordID string) error {
	ctx, cancel := cf.withTimeout(ctx)
	defer cancel()

	if err := cf.client.DeleteDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), recordID); err != nil {
		return &ddns.Error{Op: "delete record", Name: recordID, Err: err}
	}
	return nil
}

func (cf *Cloudflare) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if cf.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cf.timeout)
}

func fromDNSRecord(r cloudflare.DNSRecord) ddns.Record {
	return ddns.Record{
		ID:      r.ID,
		Name:    r.Name,
		Type:    r.Type,
		Content: r.Content,
	}
}
