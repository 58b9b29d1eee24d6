package config

import (
	"net/netip"
	"time"
)

const (
	KeySkipDNS         = "SKIP_DNS"
	KeyFQDNs           = "FQDNS"
	KeyIPv6Addr        = "IPV6_ADDR"
	KeyZoneID          = "DNS_ZONE_ID"
	KeyAPIEmail        = "CF_API_EMAIL"
	KeyAPIToken        = "CF_API_TOKEN"
	KeyLogLevel        = "LOG_LEVEL"
	KeyPageSize        = "PAGE_SIZE"
	KeyTimeout         = "TIMEOUT"
	KeySchedule        = "SCHEDULE"
	KeyNotifyProviders = "NOTIFY_PROVIDERS"
	KeyPushPlusToken   = "PUSHPLUS_TOKEN"
	KeyTelegramToken   = "TELEGRAM_TOKEN"
	KeyTelegramChatID  = "TELEGRAM_CHAT_ID"
	KeyTelegramAPIHost = "TELEGRAM_API_HOST"
	KeyNameserver      = "VERIFY_NAMESERVER"
)

const (
	DefaultLogLevel        = "info"
	DefaultPageSize        = 1000
	DefaultTelegramAPIHost = "api.telegram.org"
)

type Config struct {
	SkipDNS  bool
	Domains  []string
	Addr     netip.Addr
	ZoneID   string
	LogLevel string
	PageSize int
	Timeout  time.Duration
	Schedule string
	DNS      *DNS
	Notify   *Notify

	// Nameserver is a DNS-over-HTTPS endpoint used to check the result.
	Nameserver string
}

// DNS holds the cloudflare credentials.
type DNS struct {
	Email  string
	APIKey string
}

type Notify struct {
	Providers []string
	Config    map[string]string
}
