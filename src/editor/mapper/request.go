package mapper

import (
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
)

// RequestToParams maps the parameters from a jsonrpc2.Request into T.
func RequestToParams[T any](req jsonrpc2.Request) (*T, error) {
	var params T
	raw := req.Params()
	if len(raw) == 0 {
		return &params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
