package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	preset, configFile, params, options = "", "", nil, nil
	cmd := &cobra.Command{Use: "test"}
	addSceneFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(flags))
	return cmd
}

func TestSplitKV(t *testing.T) {
	name, v, err := splitKV(" count = 12 ")
	require.NoError(t, err)
	assert.Equal(t, "count", name)
	assert.Equal(t, "12", v)

	_, _, err = splitKV("count")
	assert.Error(t, err)
	_, _, err = splitKV("=3")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json", "logfmt"} {
		_, err := newLogger("debug", format)
		assert.NoError(t, err, format)
	}
	_, err := newLogger("loud", "text")
	assert.Error(t, err)
	_, err = newLogger("info", "xml")
	assert.Error(t, err)
}

func TestBuildConfigFlags(t *testing.T) {
	cmd := sceneCmd(t, "--seed", "7", "--dt", "0.02", "--param", "count=12", "--option", "style=binary", "--isolate")
	cfg, err := buildConfig(cmd, []string{"swarm"})
	require.NoError(t, err)

	assert.Equal(t, "swarm", cfg.Scene)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 0.02, cfg.Dt)
	assert.Equal(t, 12.0, cfg.Params["count"])
	assert.Equal(t, "binary", cfg.Options["style"])
	assert.True(t, cfg.IsolateFailures)
}

func TestBuildConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: matrix_rain\nseed: 3\ndt: 0.04\n"), 0644))

	cmd := sceneCmd(t, "--preset", "downpour", "--dt", "0.01")
	configFile = path
	defer func() { configFile = "" }()

	cfg, err := buildConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "matrix_rain", cfg.Scene, "scene comes from the file")
	assert.Equal(t, 900.0, cfg.Particle.VY, "preset applies")
	assert.Equal(t, int64(3), cfg.Seed, "file beats defaults")
	assert.Equal(t, 0.01, cfg.Dt, "changed flags beat the file")
}

func TestBuildConfigErrors(t *testing.T) {
	_, err := buildConfig(sceneCmd(t), []string{"nonexistent"})
	assert.Error(t, err)

	_, err = buildConfig(sceneCmd(t, "--preset", "nonexistent"), []string{"matrix_rain"})
	assert.ErrorContains(t, err, "available")

	_, err = buildConfig(sceneCmd(t, "--param", "count=many"), []string{"swarm"})
	assert.Error(t, err)

	_, err = buildConfig(sceneCmd(t, "--dt", "-1"), []string{"swarm"})
	assert.Error(t, err)
}
