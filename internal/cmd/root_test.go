package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	cmd := NewRootCmd(e.cfg, e.logger(), "1.0.0")

	assert.NotNil(t, cmd)
	assert.Equal(t, "vcfind", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"find", "select", "doctor", "history", "completion", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_DispatchesFind(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	completeVS2017(t, e.fs, "/vs/2017", "vcvars64.bat")
	e.withVSWhere(t)
	e.report = "<instances><instance><installationPath>/vs/2017</installationPath>" +
		"<installationVersion>15.9.28307.1</installationVersion><isPrerelease>0</isPrerelease></instance></instances>"

	cmd := NewRootCmdWithDeps(e.cfg, e.logger(), "1.0.0", e.deps())
	stdout, _, err := run(cmd, "find", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"version": "v141"`)
}
