package handler

import (
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/arena-editor/src/editor/factory"
	"github.com/uber/arena-editor/src/editor/internal/serverinfofile/serverinfofilemock"
	"go.uber.org/mock/gomock"
)

func TestOutputProcessInfo(t *testing.T) {
	pid := strconv.Itoa(os.Getpid())

	tests := []struct {
		name       string
		yaml       string
		wantFields map[string]string
		updateErr  error
		wantErr    bool
	}{
		{
			name: "configured values",
			yaml: "editor:\n  fileSource: local\nlanguageSession:\n  enabled: true\n",
			wantFields: map[string]string{
				_infoKeyPID:             pid,
				_infoKeyFileSource:      "local",
				_infoKeyLanguageSession: "true",
			},
		},
		{
			name: "defaults",
			yaml: "editor:\n  maxFileSizeBytes: 10\nlanguageSession:\n  url: ws://localhost\n",
			wantFields: map[string]string{
				_infoKeyPID:             pid,
				_infoKeyFileSource:      "arena",
				_infoKeyLanguageSession: "false",
			},
		},
		{
			name:    "invalid file source",
			yaml:    "editor:\n  fileSource:\n    nested: true\nlanguageSession:\n  enabled: true\n",
			wantErr: true,
		},
		{
			name:    "invalid enabled flag",
			yaml:    "editor:\n  fileSource: arena\nlanguageSession:\n  enabled: [1]\n",
			wantErr: true,
		},
		{
			name:      "info file failure",
			yaml:      "editor:\n  fileSource: arena\nlanguageSession:\n  enabled: false\n",
			updateErr: errors.New("read-only file system"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			infofile := serverinfofilemock.NewMockServerInfoFile(ctrl)

			got := make(map[string]string)
			infofile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).DoAndReturn(func(key, value string) error {
				got[key] = value
				return tt.updateErr
			}).AnyTimes()

			err := outputProcessInfo(factory.Config(tt.yaml), infofile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
