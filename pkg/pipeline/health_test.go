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

package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/mariomac/guara/pkg/test"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/operational"
	"github.com/stretchr/testify/require"
)

func TestNewHealthServer(t *testing.T) {
	readyPath := "/ready"
	livePath := "/live"

	type args struct {
		running bool
		failed  bool
		address string
	}
	type want struct {
		readyCode int
		liveCode  int
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{name: "pipeline running", args: args{running: true, address: "0.0.0.0"}, want: want{readyCode: 200, liveCode: 200}},
		{name: "pipeline not running", args: args{running: false, address: "0.0.0.0"}, want: want{readyCode: 503, liveCode: 200}},
		{name: "pipeline failed", args: args{failed: true, address: "0.0.0.0"}, want: want{readyCode: 503, liveCode: 503}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{}
			p.running.Store(tt.args.running)
			p.failed.Store(tt.args.failed)

			port, err := test.FreeTCPPort()
			require.NoError(t, err)
			opts := config.Options{Health: config.Health{Port: strconv.Itoa(port), Address: tt.args.address}}
			expectedAddr := fmt.Sprintf("%s:%s", opts.Health.Address, opts.Health.Port)
			server := operational.NewHealthServer(&opts, p.IsAlive(), p.IsReady())
			require.NotNil(t, server)
			require.Equal(t, expectedAddr, server.Addr)
			defer server.Close()

			client := &http.Client{}

			time.Sleep(time.Second)
			readyURL := url.URL{Scheme: "http", Host: expectedAddr, Path: readyPath}
			resp, err := client.Get(readyURL.String())
			require.NoError(t, err)
			require.Equal(t, tt.want.readyCode, resp.StatusCode)
			resp.Body.Close()

			liveURL := url.URL{Scheme: "http", Host: expectedAddr, Path: livePath}
			resp, err = client.Get(liveURL.String())
			require.NoError(t, err)
			require.Equal(t, tt.want.liveCode, resp.StatusCode)
			resp.Body.Close()
		})
	}
}
