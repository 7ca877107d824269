package mapper

import (
	"path"
	"strings"

	"github.com/uber/arena-editor/src/editor/entity"
	"go.lsp.dev/uri"
)

const _fileScheme = "file://"

// DocumentRoot returns the base directory of a project inside a language server document root.
// root may be given as a file URI or a plain absolute path.
func DocumentRoot(root string, scope entity.SessionScope) string {
	base := strings.TrimPrefix(root, _fileScheme)
	if base == "" {
		base = "/"
	}
	return path.Join("/", base, scope.Workspace, scope.ProjectID)
}

// PathToURI maps a project relative file path to the document URI announced to the language server.
func PathToURI(root string, scope entity.SessionScope, filePath string) uri.URI {
	rel := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	return uri.File(path.Join(DocumentRoot(root, scope), rel))
}

// URIToPath maps a document URI back to a project relative file path.
// It returns false for URIs outside the project.
func URIToPath(root string, scope entity.SessionScope, u uri.URI) (string, bool) {
	if !strings.HasPrefix(string(u), _fileScheme) {
		return "", false
	}
	filename, ok := uriFilename(u)
	if !ok {
		return "", false
	}
	filename = path.Clean(filename)
	prefix := DocumentRoot(root, scope) + "/"
	if !strings.HasPrefix(filename, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(filename, prefix)
	if rel == "" {
		return "", false
	}
	return rel, true
}

// uriFilename guards against Filename panicking on malformed file URIs.
func uriFilename(u uri.URI) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	return u.Filename(), true
}
