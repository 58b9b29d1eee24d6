package config

import (
	"errors"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/thank243/cfddns6/helper"
)

var (
	viperOnce sync.Once
	v         *viper.Viper
)

// GetConfig returns the process wide viper instance. Environment variables
// always win over the optional config file.
func GetConfig() *viper.Viper {
	viperOnce.Do(func() {
		v = newConfig(".", "/etc/"+AppName, "$HOME/."+AppName)
	})

	return v
}

// newConfig looks for config.yml in paths. A missing or unreadable file is
// logged and the environment alone is used, so SKIP_DNS keeps working.
func newConfig(paths ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Errorf("ignore config file: %v", err)
			return envOnly()
		}
		log.Debug("no config file found, using environment only")
	}

	return v
}

func envOnly() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// Load reads every key once and validates it. SKIP_DNS is checked before
// anything else and an empty FQDNS list stops validation early, so neither
// case needs the remaining keys.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		LogLevel: DefaultLogLevel,
		PageSize: DefaultPageSize,
	}

	if strings.EqualFold(strings.TrimSpace(v.GetString(KeySkipDNS)), "true") {
		c.SkipDNS = true
		return c, nil
	}

	c.Domains = domains(v)
	if len(c.Domains) == 0 {
		return c, nil
	}

	if lvl := strings.TrimSpace(v.GetString(KeyLogLevel)); lvl != "" {
		if _, err := log.ParseLevel(lvl); err != nil {
			return nil, invalid(KeyLogLevel, "%v", err)
		}
		c.LogLevel = lvl
	}

	raw := strings.TrimSpace(v.GetString(KeyIPv6Addr))
	if raw == "" {
		return nil, missing(KeyIPv6Addr)
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return nil, invalid(KeyIPv6Addr, "%v", err)
	}
	if !addr.Is6() || addr.Zone() != "" {
		return nil, invalid(KeyIPv6Addr, "%s is not an IPv6 address", raw)
	}
	c.Addr = addr

	if c.ZoneID, err = required(v, KeyZoneID); err != nil {
		return nil, err
	}

	c.DNS = new(DNS)
	if c.DNS.Email, err = required(v, KeyAPIEmail); err != nil {
		return nil, err
	}
	if c.DNS.APIKey, err = required(v, KeyAPIToken); err != nil {
		return nil, err
	}

	if s := strings.TrimSpace(v.GetString(KeyPageSize)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, invalid(KeyPageSize, "%q must be a positive integer", s)
		}
		c.PageSize = n
	}

	if s := strings.TrimSpace(v.GetString(KeyTimeout)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, invalid(KeyTimeout, "%q must be a non-negative number of seconds", s)
		}
		c.Timeout = time.Second * time.Duration(n)
	}

	if s := strings.TrimSpace(v.GetString(KeySchedule)); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return nil, invalid(KeySchedule, "%v", err)
		}
		c.Schedule = s
	}

	if s := strings.TrimSpace(v.GetString(KeyNameserver)); s != "" {
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return nil, invalid(KeyNameserver, "%q is not a DNS-over-HTTPS URL", s)
		}
		c.Nameserver = s
	}

	if c.Notify, err = loadNotify(v); err != nil {
		return nil, err
	}

	return c, nil
}

func domains(v *viper.Viper) []string {
	switch val := v.Get(KeyFQDNs).(type) {
	case nil:
		return nil
	case string:
		return helper.SplitList(val)
	default:
		return helper.TrimList(v.GetStringSlice(KeyFQDNs))
	}
}

func required(v *viper.Viper, key string) (string, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return "", missing(key)
	}
	return s, nil
}

func loadNotify(v *viper.Viper) (*Notify, error) {
	providers := helper.SplitList(strings.ToLower(v.GetString(KeyNotifyProviders)))
	if len(providers) == 0 {
		return nil, nil
	}

	n := &Notify{
		Providers: providers,
		Config:    make(map[string]string),
	}
	for _, p := range providers {
		switch p {
		case "pushplus":
			token, err := required(v, KeyPushPlusToken)
			if err != nil {
				return nil, err
			}
			n.Config["pushplus_token"] = token
		case "telegram":
			token, err := required(v, KeyTelegramToken)
			if err != nil {
				return nil, err
			}
			chatID, err := required(v, KeyTelegramChatID)
			if err != nil {
				return nil, err
			}
			if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
				return nil, invalid(KeyTelegramChatID, "%q is not a chat id", chatID)
			}
			host := strings.TrimSpace(v.GetString(KeyTelegramAPIHost))
			if host == "" {
				host = DefaultTelegramAPIHost
			}
			n.Config["telegram_token"] = token
			n.Config["telegram_chatid"] = chatID
			n.Config["telegram_apihost"] = host
		default:
			return nil, invalid(KeyNotifyProviders, "unknown provider %q", p)
		}
	}

	return n, nil
}
