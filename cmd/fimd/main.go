// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command fimd serves a topology model over the REST interface in
// the restserver package.  The model can be in memory or in
// PostgreSQL, and can be seeded with slices from a YAML file at
// startup:
//
//     fimd -backend memory -topology testbed.yaml -http :5980
//
// Prometheus metrics describing the served slices are at /metrics.
package main

import (
	"flag"
	"time"

	"github.com/diffeo/go-fablib/backend"
	"github.com/sirupsen/logrus"
)

func main() {
	var err error

	httpBind := flag.String("http", ":5980",
		"[ip]:port for HTTP REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the topology model")
	topology := flag.String("topology", "", "YAML file of slices to create at startup")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	interval := flag.Duration("metrics-interval", 15*time.Second,
		"how often to recount slices for metrics")
	flag.Parse()

	orchestrator, err := backend.Orchestrator()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create topology backend")
		return
	}

	if *topology != "" {
		seed, err := loadSeed(*topology)
		if err == nil {
			err = seed.Apply(orchestrator)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err":      err,
				"topology": *topology,
			}).Fatal("Could not load seed topology")
			return
		}
		logrus.WithFields(logrus.Fields{
			"slices": len(seed.Slices),
		}).Info("Seeded topology")
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	go observe(orchestrator, *interval)
	server := &HTTP{orchestrator: orchestrator, laddr: *httpBind, logger: reqLogger}
	if err = server.Serve(); err != nil {
		logrus.WithFields(logrus.Fields{
			"err":  err,
			"bind": *httpBind,
		}).Fatal("HTTP server failed")
	}
}
