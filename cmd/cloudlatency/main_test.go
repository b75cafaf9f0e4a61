/*
 * Copyright 2025 Carver Automation Corporation.
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
 */

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/carverauto/cloudlatency/pkg/config"
	"github.com/carverauto/cloudlatency/pkg/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMissingConfigExitsCleanly(t *testing.T) {
	err := run(context.Background(), filepath.Join(t.TempDir(), "config.yml"))
	assert.NoError(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("tsdb_prefix: \"\"\ntest_interval: 0\n"), 0o600))

	err := run(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
tsdb_prefix: "test"
test_interval: 60
grafana_address: "127.0.0.1"
grafana_port: "1"
`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, path))
}

func TestRootCmdConfigFlag(t *testing.T) {
	cmd := newRootCmd()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, defaultConfigPath, flag.DefValue)

	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yml")})
	assert.NoError(t, cmd.Execute())
}

func TestNewResolver(t *testing.T) {
	_, isSystem := newResolver(&config.ResolverConfig{}).(*scan.NetResolver)
	assert.True(t, isSystem)

	r, ok := newResolver(&config.ResolverConfig{Nameserver: "192.0.2.53", Network: "udp"}).(*scan.DNSResolver)
	require.True(t, ok)
	assert.Equal(t, "192.0.2.53:53", r.Server())
}
