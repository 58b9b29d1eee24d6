package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/config"
	"github.com/thank243/cfddns6/controller"
)

func main() {
	config.ShowVersion()

	printVersion := flag.Bool("version", false, "show version")
	flag.Parse()
	if *printVersion {
		return
	}
	mode := controller.ParseMode(flag.Arg(0))

	// init config
	getConfig := config.GetConfig()
	c, err := config.Load(getConfig)
	if err != nil {
		log.Fatal(err)
	}

	s, err := controller.New(c)
	if err != nil {
		log.Fatal(err)
	}

	if c.Schedule == "" {
		err := s.Run(context.Background(), mode)
		s.Close()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	// start service
	if err := s.Start(mode); err != nil {
		log.Fatal(err)
	}

	// hot reload configure
	r := newReloader(s, mode, func() (*config.Config, error) {
		return config.Load(getConfig)
	})
	if getConfig.ConfigFileUsed() != "" {
		getConfig.OnConfigChange(r.onChange)
		getConfig.WatchConfig()
	}

	// Running backend
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-osSignals
		r.close()
	}()

	if err := r.wait(); err != nil {
		log.Fatal(err)
	}
}
