package controller

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/common/ddns"
	"github.com/thank243/cfddns6/common/ddns/cloudflare"
	"github.com/thank243/cfddns6/common/notify"
	"github.com/thank243/cfddns6/common/notify/pushplus"
	"github.com/thank243/cfddns6/common/notify/telegram"
)

func (s *Service) buildDdnsClient() (ddns.Client, error) {
	cf, err := cloudflare.New(s.conf.DNS.Email, s.conf.DNS.APIKey)
	if err != nil {
		return nil, fmt.Errorf("could not create API client: %w", err)
	}
	cf.SetTimeout(s.conf.Timeout)

	return cf, nil
}

func (s *Service) buildNotifier() (notify.Notify, error) {
	if s.conf.Notify == nil || len(s.conf.Notify.Providers) == 0 {
		return nil, nil
	}

	var notifiers []notify.Notify
	for _, provider := range s.conf.Notify.Providers {
		switch provider {
		case "pushplus":
			notifiers = append(notifiers, &pushplus.PushPlus{Token: s.conf.Notify.Config["pushplus_token"]})
		case "telegram":
			chatID, err := strconv.ParseInt(s.conf.Notify.Config["telegram_chatid"], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("telegram chat id: %w", err)
			}
			notifiers = append(notifiers, &telegram.Telegram{
				ApiHost: s.conf.Notify.Config["telegram_apihost"],
				ChatID:  chatID,
				Token:   s.conf.Notify.Config["telegram_token"],
			})
		default:
			return nil, fmt.Errorf("unknown notify provider %q", provider)
		}
	}

	d, err := notify.NewDispatcher(len(notifiers), notifiers...)
	if err != nil {
		return nil, err
	}
	log.Infof("%d notifiers configured: %s", d.Len(), strings.Join(s.conf.Notify.Providers, ", "))

	return d, nil
}
