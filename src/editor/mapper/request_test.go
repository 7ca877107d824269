package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
)

type sampleParams struct {
	Path string `json:"path"`
}

func TestRequestToParams(t *testing.T) {
	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), "editor/openFile", sampleParams{Path: "a.yaml"})
	require.NoError(t, err)

	got, err := RequestToParams[sampleParams](req)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", got.Path)
}

func TestRequestToParamsEmpty(t *testing.T) {
	req, err := jsonrpc2.NewNotification("editor/unmount", nil)
	require.NoError(t, err)

	got, err := RequestToParams[sampleParams](req)
	require.NoError(t, err)
	assert.Equal(t, sampleParams{}, *got)
}

func TestRequestToParamsInvalid(t *testing.T) {
	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), "editor/openFile", json.RawMessage(`["not", "an", "object"]`))
	require.NoError(t, err)

	_, err = RequestToParams[sampleParams](req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), jsonrpc2.ErrParse.Error())
}
