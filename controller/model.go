package controller

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/thank243/cfddns6/app/dns"
	"github.com/thank243/cfddns6/app/reconciler"
	"github.com/thank243/cfddns6/common/ddns"
	"github.com/thank243/cfddns6/common/notify"
	"github.com/thank243/cfddns6/config"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeDelete Mode = "delete"
	ModeSync   Mode = "sync"
)

type Service struct {
	conf       *config.Config
	ddnsClient ddns.Client
	notifier   notify.Notify
	reconciler *reconciler.Reconciler
	resolver   *dns.DoHClient

	mode        Mode
	ctx         context.Context
	cancel      context.CancelFunc
	cron        *cron.Cron
	cronRunning atomic.Bool
}
