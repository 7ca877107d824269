package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/arena-editor/src/editor/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_errInvalidEntry = "type error or missing field for key %q"

	_infoKeyPID             = "pid"
	_infoKeyFileSource      = "file-source"
	_infoKeyLanguageSession = "language-session"

	_configKeyEditor          = "editor"
	_configKeyFileSource      = "fileSource"
	_configKeyLanguageSession = "languageSession"
	_configKeyEnabled         = "enabled"

	_defaultFileSource = "arena"
)

// Output process details that let presentation clients tell which editor they attached to.
// Listener addresses are written independently by the JSON-RPC and HTTP modules once they are bound.
func outputProcessInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	fields := map[string]string{
		_infoKeyPID: strconv.Itoa(os.Getpid()),
	}

	var editorData map[string]interface{}
	if err := cfg.Get(_configKeyEditor).Populate(&editorData); err != nil {
		return fmt.Errorf("loading editor config: %v", err)
	}
	fields[_infoKeyFileSource] = _defaultFileSource
	if raw, ok := editorData[_configKeyFileSource]; ok {
		source, ok := raw.(string)
		if !ok {
			return fmt.Errorf(_errInvalidEntry, _configKeyFileSource)
		}
		fields[_infoKeyFileSource] = source
	}

	var sessionData map[string]interface{}
	if err := cfg.Get(_configKeyLanguageSession).Populate(&sessionData); err != nil {
		return fmt.Errorf("loading languageSession config: %v", err)
	}
	enabled := false
	if raw, ok := sessionData[_configKeyEnabled]; ok {
		if enabled, ok = raw.(bool); !ok {
			return fmt.Errorf(_errInvalidEntry, _configKeyEnabled)
		}
	}
	fields[_infoKeyLanguageSession] = strconv.FormatBool(enabled)

	for key, value := range fields {
		if err := infofile.UpdateField(key, value); err != nil {
			return fmt.Errorf("outputting %q to info file: %w", key, err)
		}
	}
	return nil
}
