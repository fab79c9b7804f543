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
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/operational"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCounter = operational.NewCounter(prom.CounterOpts{
	Name: "prom_server_test_total",
	Help: "Counter used by the server tests",
})

func getMetrics(t *testing.T, serverURL string) string {
	httpClient := &http.Client{}

	// wait for our test http server to come up
	checkHTTPReady(httpClient, serverURL)

	r, err := http.NewRequest("GET", serverURL+"/metrics", nil)
	require.NoError(t, err)

	resp, err := httpClient.Do(r)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(bodyBytes)
}

func TestStartPromServer(t *testing.T) {
	testCounter.Inc()
	srv := InitializePrometheus(&config.MetricsSettings{})
	defer func() { _ = srv.Shutdown(context.Background()) }()

	body := getMetrics(t, "http://0.0.0.0:9090")
	require.Contains(t, body, "go_gc_duration_seconds")
	require.Contains(t, body, "prom_server_test_total 1")
}

func TestStartPromServer_PrefixAndSuppress(t *testing.T) {
	srv := InitializePrometheus(&config.MetricsSettings{
		PromConnectionInfo: config.PromConnectionInfo{Port: 9091},
		Prefix:             "labeltree_",
		SuppressGoMetrics:  true,
	})
	defer func() { _ = srv.Shutdown(context.Background()) }()

	body := getMetrics(t, "http://0.0.0.0:9091")
	assert.NotContains(t, body, "go_gc_duration_seconds")
	assert.Contains(t, body, "labeltree_prom_server_test_total")
}

func TestStartPromServer_Disabled(t *testing.T) {
	assert.Nil(t, InitializePrometheus(&config.MetricsSettings{DisableGlobalServer: true}))
}

func TestStartPromServer_HeadersLimit(t *testing.T) {
	srv := InitializePrometheus(&config.MetricsSettings{PromConnectionInfo: config.PromConnectionInfo{Port: 9092}})
	defer func() { _ = srv.Shutdown(context.Background()) }()

	serverURL := "http://0.0.0.0:9092"
	httpClient := &http.Client{}
	checkHTTPReady(httpClient, serverURL)

	r, err := http.NewRequest("GET", serverURL+"/metrics", nil)
	require.NoError(t, err)

	// Set many headers
	oneKBString := strings.Repeat(".", 1024)
	for i := 0; i < 1025; i++ {
		r.Header.Set(fmt.Sprintf("test-header-%d", i), oneKBString)
	}

	resp, err := httpClient.Do(r)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestHeaderFieldsTooLarge, resp.StatusCode)
}

func checkHTTPReady(httpClient *http.Client, url string) {
	for i := 0; i < 60; i++ {
		if r, err := httpClient.Get(url); err == nil {
			r.Body.Close()
			break
		}
		time.Sleep(time.Second)
	}
}
