// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kushti/mpt/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = time.Second
	shutdownTimeout   = 3 * time.Second
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "metrics"))

// Server is a metrics http server
type Server struct {
	server   *http.Server
	listener net.Listener
	done     chan error
}

// NewServer is a constructor for metrics server, serving the
// metrics of the gatherer given on the /metrics path.
func NewServer(address string, gatherer prometheus.Gatherer) (s *Server) {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{
		server: &http.Server{
			Addr:              address,
			Handler:           m,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start listens on the server address and serves
// metrics in a goroutine until Stop is called.
func (s *Server) Start() (err error) {
	s.listener, err = net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}

	logger.Infof("Starting metrics server at http://%s/metrics", s.listener.Addr())

	s.done = make(chan error, 1)
	go func() {
		err := s.server.Serve(s.listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	return nil
}

// Address returns the address the server listens on.
// It is only valid after Start returned without error.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Stop will stop the metrics server
func (s *Server) Stop() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutting down metrics server: %w", err)
	}

	err = <-s.done
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
