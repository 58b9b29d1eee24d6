package main

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/config"
	"github.com/thank243/cfddns6/controller"
)

const reloadDelay = time.Second * 3

// reloader swaps the running service when the config file changes. Events
// closer than reloadDelay to the previous one are dropped, whether or not
// the previous reload succeeded.
type reloader struct {
	mu      sync.Mutex
	mode    controller.Mode
	service *controller.Service
	load    func() (*config.Config, error)
	last    time.Time

	finished bool
	err      error
	done     chan struct{}
}

func newReloader(s *controller.Service, mode controller.Mode, load func() (*config.Config, error)) *reloader {
	return &reloader{
		mode:    mode,
		service: s,
		load:    load,
		last:    time.Now(),
		done:    make(chan struct{}),
	}
}

func (r *reloader) onChange(e fsnotify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	skip := now.Before(r.last.Add(reloadDelay))
	r.last = now
	if skip || r.finished {
		return
	}

	log.Println("Config file changed:", e.Name)
	newConf, err := r.load()
	if err != nil {
		log.Errorf("keep running with the previous config: %v", err)
		return
	}
	newService, err := controller.New(newConf)
	if err != nil {
		log.Errorf("keep running with the previous config: %v", err)
		return
	}

	// release server resource
	r.service.Close()
	r.service = newService

	if newConf.Schedule == "" {
		log.Warn("Schedule removed from config, running once and exiting")
		r.err = r.service.Run(context.Background(), r.mode)
		r.finish()
		return
	}
	if err := r.service.Start(r.mode); err != nil {
		log.Errorf("scheduled service not started, exiting: %v", err)
		r.err = err
		r.finish()
	}
}

// close stops the current service; it is a no-op once the reloader finished.
func (r *reloader) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.finished {
		r.finish()
	}
}

// finish must be called with r.mu held.
func (r *reloader) finish() {
	r.service.Close()
	r.finished = true
	close(r.done)
}

func (r *reloader) wait() error {
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
