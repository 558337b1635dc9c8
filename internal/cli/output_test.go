package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"vertices": 7}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_SuccessText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Success("vertices: 7"))
	assert.Equal(t, "vertices: 7\n", buf.String())
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeNotFound, "no such file", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "no such file", resp.Error.Message)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errw bytes.Buffer

	quiet := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errw}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, errw.String())

	verbose := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errw, Verbose: true}
	verbose.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errw.String())
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	wrapped := WrapExitError(ExitFailure, "check failed", errors.New("cause"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "cause")
}
