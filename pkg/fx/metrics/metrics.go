/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics provides the application's prometheus registry as an fx module.
//
// The registry is provided as both a prometheus.Registerer and a prometheus.Gatherer. If an address is configured,
// then the metrics are exposed over HTTP for scraping.
package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Metrics events
const (
	ScrapeError eventlog.Event = "01EJ7C2M7W4N6D1Y2Z9V0K8QXA"
	ServerError eventlog.Event = "01EJ7C2TBQ0S5H4R8J3E6W1NDP"
	Serving     eventlog.Event = "01EJ7C31XK2F9A7G5T0M4C8YVB"
)

// Opts are used to configure the metrics module
type Opts struct {
	// Addr is the HTTP server listen address. If blank, then metrics are not exposed over HTTP.
	Addr string
	// ReadTimeout defaults to 1 sec
	ReadTimeout time.Duration
	// WriteTimeout defaults to 5 secs
	WriteTimeout time.Duration
	// Endpoint defaults to /metrics
	Endpoint string
}

func (opts Opts) readTimeout() time.Duration {
	if opts.ReadTimeout <= 0 {
		return time.Second
	}
	return opts.ReadTimeout
}

func (opts Opts) writeTimeout() time.Duration {
	if opts.WriteTimeout <= 0 {
		return 5 * time.Second
	}
	return opts.WriteTimeout
}

func (opts Opts) endpoint() string {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return "/metrics"
	}
	return endpoint
}

// Registry is the fx result that provides the registry
type Registry struct {
	fx.Out

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRegistry returns a new registry with the Go runtime and process collectors registered
func NewRegistry() (Registry, error) {
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return Registry{}, errors.Wrap(err, "failed to register collector")
		}
	}
	return Registry{Registerer: registry, Gatherer: registry}, nil
}

// Module provides the registry, and runs the metrics HTTP server when Opts.Addr is set.
//
// The module requires a *zerolog.Logger.
func Module(opts Opts) fx.Option {
	options := []fx.Option{fx.Provide(NewRegistry)}
	if strings.TrimSpace(opts.Addr) != "" {
		options = append(options, fx.Invoke(func(lc fx.Lifecycle, gatherer prometheus.Gatherer, logger *zerolog.Logger) {
			runServer(lc, opts, gatherer, eventlog.ForComponent(logger, "metrics"))
		}))
	}
	return fx.Options(options...)
}

// Handler returns the scrape handler
func Handler(gatherer prometheus.Gatherer, logger *zerolog.Logger) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:            scrapeErrorLog(ScrapeError.NewErrorLogger(logger)),
		ErrorHandling:       promhttp.ContinueOnError,
		MaxRequestsInFlight: 5,
	})
}

func runServer(lc fx.Lifecycle, opts Opts, gatherer prometheus.Gatherer, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(opts.endpoint(), Handler(gatherer, logger))
	server := &http.Server{
		Handler:        mux,
		ReadTimeout:    opts.readTimeout(),
		WriteTimeout:   opts.writeTimeout(),
		MaxHeaderBytes: 1024,
	}
	logServerError := ServerError.NewErrorLogger(logger)
	logServing := Serving.NewLogger(logger, zerolog.InfoLevel)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			listener, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on metrics address: %s", opts.Addr)
			}
			logServing(eventlog.Fields{"addr": listener.Addr().String(), "endpoint": opts.endpoint()}, "serving metrics")
			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logServerError(nil, err, "metrics HTTP server has exited with an error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

type scrapeErrorLog eventlog.ErrorLogger

func (log scrapeErrorLog) Println(v ...interface{}) {
	log(nil, errors.New(fmt.Sprint(v...)), "metrics scrape error")
}
