package serverinfofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"sync"

	"github.com/uber/arena-editor/src/editor/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyInfoFile = "serverInfoFilePath"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile manages the contents of a single JSON file describing where the service listens.
// Presentation clients read it to discover the editor endpoints.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
	Fields() map[string]string
}

type module struct {
	infofile     string
	fs           fs.EditorFS
	logger       *zap.SugaredLogger
	fileContents map[string]string
	mu           sync.Mutex
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.EditorFS
}

// New creates a new ServerInfoFile. The file is removed when the application stops.
func New(p Params) (ServerInfoFile, error) {
	m := module{
		fs:           p.FS,
		logger:       p.Logger,
		fileContents: make(map[string]string),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})

	return &m, nil
}

func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.Remove(m.infofile); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	return nil
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fileContents[key] = value
	jsonOutput, err := json.Marshal(m.fileContents)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := m.fs.WriteFile(m.infofile, jsonOutput); err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	m.logger.Infow("connection info saved", "file", m.infofile, key, value)
	return nil
}

func (m *module) Fields() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.fileContents))
	for k, v := range m.fileContents {
		out[k] = v
	}
	return out
}

func (m *module) processConfig(cfg config.Provider) error {
	if err := cfg.Get(_configKeyInfoFile).Populate(&m.infofile); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}

	if m.infofile == "" {
		return fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	return nil
}
