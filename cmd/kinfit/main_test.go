// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bsFile = filepath.Join("..", "..", "config", "testdata", "bs.yaml")

// run executes the CLI with telemetry disabled.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runRaw(t, append(args, "--trace-exporter", "none", "--metrics-exporter", "none")...)
}

func runRaw(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd, a := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := execute(context.Background(), cmd, a)
	return out.String(), errOut.String(), err
}

func TestFit_JSON(t *testing.T) {
	out, _, err := run(t, "fit", bsFile, bsFile, "--json", "--parallel", "2")
	require.NoError(t, err)

	var reports []report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	r := reports[0]
	assert.Equal(t, "Bs", r.Decay)
	assert.Equal(t, "JPsi", r.Group)
	assert.Equal(t, "fixed-mass", r.Constraint)
	assert.Equal(t, "valid", r.Status)
	assert.True(t, r.Valid)
	require.NotNil(t, r.Vertex)
	assert.InDelta(t, 1.0, r.Vertex.Z, 1e-9)
	assert.Greater(t, r.Vertex.SigmaZ, 0.0)
	assert.Equal(t, reports[0], reports[1])
}

func TestFit_FlagsOverrideFile(t *testing.T) {
	out, _, err := run(t, "fit", bsFile, "--json", "--group", "", "--mass", "5.36688", "--sigma", "0.001")
	require.NoError(t, err)

	var reports []report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "multi-track-mass", reports[0].Constraint)
	assert.InDelta(t, 5.36688, reports[0].Mass, 1e-6)
}

func TestFit_TextAndLogs(t *testing.T) {
	out, _, err := run(t, "fit", bsFile, "--group", "Phi", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "group_not_found")
	assert.Contains(t, out, "FILE")
}

func TestFit_Errors(t *testing.T) {
	_, _, err := run(t, "fit", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "fit", bsFile, "--log-format", "xml")
	assert.Error(t, err)
}

func TestFit_FailureFlushesSpans(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, errOut, err := runRaw(t, "fit", missing, "--trace-exporter", "stdout", "--metrics-exporter", "none")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, errOut, `"Name": "kinfit.fit"`, "span exported although the command failed")
	assert.Contains(t, errOut, missing)
}

func TestFit_PrometheusDumpOnSuccess(t *testing.T) {
	_, errOut, err := runRaw(t, "fit", bsFile, "--trace-exporter", "none", "--metrics-exporter", "prometheus")
	require.NoError(t, err)
	assert.Contains(t, errOut, "kinfit_fits_total")
}

func TestValidate(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: B"), 0o600))

	out, _, err := run(t, "validate", bsFile, bad)
	assert.ErrorIs(t, err, errInvalidFiles)
	assert.Contains(t, out, "ok   "+bsFile)
	assert.Contains(t, out, "FAIL")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "kinfit dev\n", out)
}
