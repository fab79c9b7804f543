/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package prometheus

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/netobserv/labeltree/pkg/config"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

const (
	defaultAddress = "0.0.0.0"
	defaultPort    = 9090
)

var plog = logrus.WithField("component", "prometheus")

// InitializePrometheus starts the global Prometheus server, used for operational metrics
func InitializePrometheus(settings *config.MetricsSettings) *http.Server {
	if settings.DisableGlobalServer {
		plog.Info("Disabled global Prometheus server - no operational metrics will be available")
		return nil
	}
	address := settings.Address
	if address == "" {
		address = defaultAddress
	}
	port := settings.Port
	if port == 0 {
		port = defaultPort
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(filteredGatherer(settings), promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", address, port),
		Handler: mux,
	}
	go startServer(settings, server)
	return server
}

func startServer(settings *config.MetricsSettings, server *http.Server) {
	plog.Infof("Prometheus server: addr = %s", server.Addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		plog.Errorf("error in http.ListenAndServe: %v", err)
		if !settings.NoPanic {
			panic(err)
		}
	}
}

func isRuntimeMetric(name string) bool {
	return strings.HasPrefix(name, "go_") || strings.HasPrefix(name, "process_") || strings.HasPrefix(name, "promhttp_")
}

// filteredGatherer applies the metric prefix to the application metrics and optionally drops the Go runtime ones.
func filteredGatherer(settings *config.MetricsSettings) prom.Gatherer {
	return prom.GathererFunc(func() ([]*dto.MetricFamily, error) {
		families, err := prom.DefaultGatherer.Gather()
		if err != nil {
			return nil, err
		}
		out := families[:0]
		for _, mf := range families {
			name := mf.GetName()
			if isRuntimeMetric(name) {
				if settings.SuppressGoMetrics {
					continue
				}
			} else if settings.Prefix != "" {
				prefixed := settings.Prefix + name
				mf.Name = &prefixed
			}
			out = append(out, mf)
		}
		return out, nil
	})
}
