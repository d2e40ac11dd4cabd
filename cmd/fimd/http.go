// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// HTTP serves the topology REST interface.
type HTTP struct {
	orchestrator fim.Orchestrator
	laddr        string

	// logger, if non-nil, receives one debug line per request.
	logger *logrus.Logger
}

// Handler builds the complete handler stack: panic recovery,
// optional request logging, then the REST routes and /metrics.
func (h *HTTP) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	restserver.PopulateRouter(r, h.orchestrator)

	n := negroni.New()
	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	n.Use(recovery)
	if h.logger != nil {
		n.UseFunc(h.logRequest)
	}
	n.UseHandler(r)
	return n
}

// Serve runs an HTTP server on the configured local address.  This
// serves connections until the listener fails.
func (h *HTTP) Serve() error {
	return http.ListenAndServe(h.laddr, h.Handler())
}

func (h *HTTP) logRequest(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(rw, req)
	status := 0
	if nrw, ok := rw.(negroni.ResponseWriter); ok {
		status = nrw.Status()
	}
	h.logger.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   status,
		"duration": time.Since(start),
	}).Debug("request")
}
