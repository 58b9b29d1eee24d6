package dns

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/go-resty/resty/v2"
)

const typeAAAA = 28

type DoHClient struct {
	nameserver string
	client     *resty.Client
}

type dohResp struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// New returns a client for a DNS-over-HTTPS JSON endpoint, for example
// https://cloudflare-dns.com/dns-query.
func New(server string) *DoHClient {
	return &DoHClient{
		nameserver: server,
		client:     resty.New().SetTimeout(time.Second * 20),
	}
}

// LookupAAAA returns the IPv6 addresses the nameserver answers for name.
func (d *DoHClient) LookupAAAA(name string) ([]netip.Addr, error) {
	rtn := &dohResp{}
	resp, err := d.client.R().
		SetHeader("accept", "application/dns-json").
		SetQueryParam("name", name).
		SetQueryParam("type", fmt.Sprint(typeAAAA)).
		SetResult(rtn).
		ForceContentType("application/json").
		Get(d.nameserver)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("[%s] lookup failure, status: %s", name, resp.Status())
	}

	var ips []netip.Addr
	for i := range rtn.Answer {
		if rtn.Answer[i].Type != typeAAAA {
			continue
		}
		if ip, err := netip.ParseAddr(rtn.Answer[i].Data); err == nil {
			ips = append(ips, ip)
		}
	}
	return ips, nil
}

// Resolves reports whether name already answers with addr.
func (d *DoHClient) Resolves(name string, addr netip.Addr) (bool, error) {
	ips, err := d.LookupAAAA(name)
	if err != nil {
		return false, err
	}
	for i := range ips {
		if ips[i] == addr {
			return true, nil
		}
	}
	return false, nil
}
