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

package utils

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SetupElegantExit(t *testing.T) {
	SetupElegantExit()
	require.Equal(t, 0, len(registeredChannels))
	ch1 := make(chan struct{})
	ch2 := make(chan struct{})
	RegisterExitChannel(ch1)
	require.Equal(t, 1, len(registeredChannels))
	RegisterExitChannel(ch2)
	require.Equal(t, 2, len(registeredChannels))
	ctx, cancel := ExitContext(context.Background())
	defer cancel()
	require.Equal(t, 3, len(registeredChannels))

	select {
	case <-ch1:
		t.Fatal("channel should have been open")
	default:
	}
	require.NoError(t, ctx.Err())

	// send signal and see that it is propagated
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ch1:
	case <-time.After(5 * time.Second):
		t.Fatal("channel should have been closed")
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context should have been cancelled")
	}
}

func TestExitContextCancel(t *testing.T) {
	ctx, cancel := ExitContext(context.Background())
	cancel()
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
