package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/app/dns"
	"github.com/thank243/cfddns6/app/reconciler"
	"github.com/thank243/cfddns6/common/ddns"
	"github.com/thank243/cfddns6/common/notify"
	"github.com/thank243/cfddns6/config"
)

// ParseMode maps the command token to a mode. The token is case-insensitive
// and defaults to create. Unknown tokens are passed through and Run ignores
// them.
func ParseMode(token string) Mode {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ModeCreate
	}
	return Mode(token)
}

// New builds the provider client and the notifiers, but only when there is
// DNS work to do.
func New(c *config.Config) (*Service, error) {
	// init log level
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(l)
	log.Debugf("Log level: %s", c.LogLevel)

	s := newService(c, nil, nil)
	if c.SkipDNS || len(c.Domains) == 0 {
		return s, nil
	}

	cli, err := s.buildDdnsClient()
	if err != nil {
		s.cancel()
		return nil, err
	}
	notifier, err := s.buildNotifier()
	if err != nil {
		s.cancel()
		return nil, err
	}

	s.ddnsClient = cli
	s.reconciler = reconciler.New(cli, c.ZoneID, c.PageSize)
	s.notifier = notifier

	return s, nil
}

func newService(c *config.Config, cli ddns.Client, notifier notify.Notify) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		conf:       c,
		ddnsClient: cli,
		notifier:   notifier,
		ctx:        ctx,
		cancel:     cancel,
		cron:       cron.New(),
	}
	if cli != nil {
		s.reconciler = reconciler.New(cli, c.ZoneID, c.PageSize)
	}
	if c.Nameserver != "" {
		s.resolver = dns.New(c.Nameserver)
	}

	return s
}

// Run executes one pass of mode. Skipped runs, empty domain lists and
// unknown modes return nil without touching the provider.
func (s *Service) Run(ctx context.Context, mode Mode) error {
	if s.conf.SkipDNS {
		log.Info("Skipping DNS update!")
		return nil
	}
	if len(s.conf.Domains) == 0 {
		log.Info("No domains to update")
		return nil
	}

	var (
		res *reconciler.Result
		err error
	)
	switch mode {
	case ModeCreate:
		log.Infof("Creating %d records pointing to %s", len(s.conf.Domains), s.conf.Addr)
		res, err = s.reconciler.CreateOrUpdate(ctx, s.conf.Addr, s.conf.Domains)
	case ModeDelete:
		log.Infof("Deleting %d records pointing to %s", len(s.conf.Domains), s.conf.Addr)
		res, err = s.reconciler.Delete(ctx, s.conf.Domains)
	case ModeSync:
		log.Infof("Syncing %d records pointing to %s", len(s.conf.Domains), s.conf.Addr)
		res, err = s.reconciler.Sync(ctx, s.conf.Addr, s.conf.Domains)
	default:
		log.Warnf("Unknown command %q, nothing to do", mode)
		return nil
	}

	if err == nil {
		log.Infof("Done: %s", summary(mode, res, nil))
		if mode != ModeDelete {
			s.verify()
		}
	}
	s.pushMessage(mode, res, err)

	return err
}

// Start runs mode once, then on every tick of the configured schedule.
func (s *Service) Start(mode Mode) error {
	s.mode = mode
	if mode == ModeCreate {
		log.Warn("Scheduled create adds a record on every tick, use sync to keep one record per domain")
	}

	if _, err := s.cron.AddFunc(s.conf.Schedule, s.task); err != nil {
		return err
	}
	s.cron.Start()
	log.Warnln(config.AppName, "Started")

	s.task()
	return nil
}

func (s *Service) task() {
	if !s.cronRunning.CompareAndSwap(false, true) {
		log.Debug("previous run still in progress, skip")
		return
	}
	defer s.cronRunning.Store(false)

	if err := s.Run(s.ctx, s.mode); err != nil {
		log.Error(err)
	}
}

func (s *Service) Close() {
	log.Infoln(config.AppName, "Closing..")
	<-s.cron.Stop().Done()
	s.cancel()

	if r, ok := s.notifier.(interface{ Release() }); ok {
		r.Release()
	}
}

// verify asks the nameserver whether every domain already answers with the
// address. Caches and propagation delay make a miss expected, so it only logs.
func (s *Service) verify() {
	if s.resolver == nil {
		return
	}

	for _, name := range s.conf.Domains {
		ok, err := s.resolver.Resolves(name, s.conf.Addr)
		switch {
		case err != nil:
			log.Errorf("[%s] verify failure, Error: %v", name, err)
		case ok:
			log.Infof("[%s] resolves to %s", name, s.conf.Addr)
		default:
			log.Warnf("[%s] does not resolve to %s yet", name, s.conf.Addr)
		}
	}
}

// push message
func (s *Service) pushMessage(mode Mode, res *reconciler.Result, runErr error) {
	if s.notifier == nil {
		return
	}

	title := fmt.Sprintf("#%s %s", config.AppName, s.conf.ZoneID)
	if err := s.notifier.Webhook(title, summary(mode, res, runErr)); err != nil {
		log.Errorf("push message failure: %v", err)
	} else {
		log.Debug("push message success")
	}
}

func summary(mode Mode, res *reconciler.Result, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", mode)

	if res != nil {
		for _, part := range []struct {
			label string
			names []string
		}{
			{"created", res.Created},
			{"updated", res.Updated},
			{"deleted", res.Deleted},
			{"unchanged", res.Unchanged},
		} {
			if len(part.names) > 0 {
				fmt.Fprintf(&b, "\n%s: %s", part.label, strings.Join(part.names, ", "))
			}
		}
	}

	if err != nil {
		fmt.Fprintf(&b, "\nfailed: %v", err)
	}
	return b.String()
}
