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

package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/labeltree/pkg/config"
	"github.com/netobserv/labeltree/pkg/pipeline"
	"github.com/stretchr/testify/require"
)

func TestTheMain(t *testing.T) {
	if os.Getenv("BE_CRASHER") == "1" {
		main()
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=TestTheMain")
	cmd.Env = append(os.Environ(), "BE_CRASHER=1")
	err := cmd.Run()
	var castErr *exec.ExitError
	if errors.As(err, &castErr) && !castErr.Success() {
		return
	}
	t.Fatalf("process ran with err %v, want exit status 1", err)
}

func TestPipelineConfigSetup(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.txt")
	require.NoError(t, os.WriteFile(train, []byte("1,2 | a b\n3 | c\n"), 0o644))

	js := `{
    "Parameters": "{\"ingest\":{\"type\":\"file\",\"file\":{\"filename\":\"` + train + `\"}},\"tree\":{\"maxLabels\":16,\"kary\":4,\"policy\":\"best_prediction\"},\"learner\":{\"bits\":20},\"model\":{\"finalModel\":\"` + filepath.Join(dir, "model.bin") + `\"}}",
    "Health": {
        "Port": "8080"
    },
    "Profile": {
        "Port": 0
    }
}`
	var opts config.Options
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	require.NoError(t, json.Unmarshal([]byte(js), &opts))
	cfg, err := config.ParseConfig(&opts)
	require.NoError(t, err)
	require.NoError(t, dumpConfig(&cfg, "yaml"))
	require.Error(t, dumpConfig(&cfg, "toml"))

	mainPipeline, err := pipeline.NewPipeline(context.Background(), &cfg)
	require.NoError(t, err)
	require.NoError(t, mainPipeline.Run(context.Background()))
	require.Equal(t, 3, mainPipeline.Model().Tree().LeafCount())
	require.FileExists(t, filepath.Join(dir, "model.bin"))
}
