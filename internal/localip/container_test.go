package localip

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInContainer(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	cases := []struct {
		name     string
		probe    *containerProbe
		expected bool
	}{
		{
			name: "marker_file",
			probe: &containerProbe{
				markerPath: writeFile(t, "dockerenv", ""),
				cgroupPath: missing,
			},
			expected: true,
		},
		{
			name: "docker_cgroup",
			probe: &containerProbe{
				markerPath: missing,
				cgroupPath: writeFile(t, "cgroup", "12:pids:/docker/deadbeef\n"),
			},
			expected: true,
		},
		{
			name: "containerd_cgroup",
			probe: &containerProbe{
				markerPath: missing,
				cgroupPath: writeFile(t, "cgroup", "0::/system.slice/containerd.service\n"),
			},
			expected: true,
		},
		{
			name: "bare_host",
			probe: &containerProbe{
				markerPath: missing,
				cgroupPath: writeFile(t, "cgroup", "0::/init.scope\n"),
			},
			expected: false,
		},
		{
			name: "unreadable_cgroup",
			probe: &containerProbe{
				markerPath: missing,
				cgroupPath: missing,
			},
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.probe.inContainer())
		})
	}
}

func TestContainerProbeSkipsOnBareHost(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	probe := &containerProbe{
		markerPath: missing,
		cgroupPath: missing,
		resolver:   net.DefaultResolver,
	}

	addr, err := probe.Probe(context.Background())
	require.NoError(t, err)
	require.False(t, addr.IsValid())
}

// A detected container with an unresolvable host gateway must fail the
// whole resolution, never fall through to another probe.
func TestContainerGatewayUnresolvable(t *testing.T) {
	probe := &containerProbe{
		markerPath: writeFile(t, "dockerenv", ""),
		cgroupPath: filepath.Join(t.TempDir(), "missing"),
		resolver: &net.Resolver{
			PreferGo: true,
			Dial: func(_ context.Context, _, _ string) (net.Conn, error) {
				return nil, errors.New("no dns here")
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fallback := &stubProbe{name: "never", addr: "192.168.1.10"}
	_, err := NewResolverWithProbes(probe, fallback).Resolve(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoAddress)
	require.False(t, fallback.called)
}
