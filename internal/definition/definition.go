// internal/definition/definition.go
//
// Layout templates: document loader.
//
// Context
//   Templates are authored as YAML (or JSON) documents, one template per
//   file.  At startup the daemon parses the embedded built-in set, then
//   every "*.yaml", "*.yml", and "*.json" under the configured template
//   directories, and hands the results to the engine.  The CLI uses the
//   same entry points to validate files before they ship.
//
// Workflow
//   •  Parse decodes one document; the extension picks the codec.
//   •  LoadFile reads and parses a single path.
//   •  LoadDirs walks one or more base directories.  Directories are
//      ordered by precedence, highest first; the first document seen for
//      an id wins and later duplicates are skipped.
//   •  LoadFS does the same for an fs.FS, used for the embedded set.
//
// Notes
//   Parsing never validates structure.  Drafts load fine and are reported
//   by engine.Validate when the caller asks.  A document without an id is
//   the one thing rejected here, because it cannot be registered.
//
//------------------------------------------------------------------------------

package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/layoutkit/internal/layout"
)

// ErrMissingID is returned for documents that do not declare an id.
var ErrMissingID = errors.New("template document has no id")

// Parse decodes raw as YAML or JSON according to ext (".yaml", ".yml",
// ".json").  Unknown extensions are treated as YAML, which also accepts
// JSON input.
func Parse(raw []byte, ext string) (*layout.Template, error) {
	var t layout.Template
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	}
	if t.ID == "" {
		return nil, ErrMissingID
	}
	return &t, nil
}

// LoadFile reads one template document from disk.
func LoadFile(p string) (*layout.Template, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read template file %s: %w", p, err)
	}
	t, err := Parse(raw, filepath.Ext(p))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", p, err)
	}
	return t, nil
}

// LoadDirs walks baseDirs in order and returns every template found.
// Missing directories are skipped; parse errors fail fast so problems
// surface loudly at boot.
//
// Example:
//
//	tpls, err := definition.LoadDirs([]string{
//	    "/var/layoutd/templates/site", // overrides
//	    "/var/layoutd/templates",      // defaults
//	})
func LoadDirs(baseDirs []string) ([]*layout.Template, error) {
	if len(baseDirs) == 0 {
		return nil, errors.New("LoadDirs: no base directories provided")
	}

	seen := make(map[string]struct{})
	var out []*layout.Template
	for _, base := range baseDirs {
		err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !isDocument(d.Name()) {
				return nil
			}
			t, err := LoadFile(p)
			if err != nil {
				return err
			}
			out = appendFirst(out, seen, t)
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return out, nil
}

// LoadFS walks root inside fsys and returns every template found.
func LoadFS(fsys fs.FS, root string) ([]*layout.Template, error) {
	seen := make(map[string]struct{})
	var out []*layout.Template
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isDocument(d.Name()) {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read template file %s: %w", p, err)
		}
		t, err := Parse(raw, path.Ext(p))
		if err != nil {
			return fmt.Errorf("template %s: %w", p, err)
		}
		out = appendFirst(out, seen, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Encode renders t as YAML, the format the CLI prints.
func Encode(t *layout.Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// appendFirst keeps the first template seen for each id.
func appendFirst(out []*layout.Template, seen map[string]struct{}, t *layout.Template) []*layout.Template {
	if _, dup := seen[t.ID]; dup {
		return out
	}
	seen[t.ID] = struct{}{}
	return append(out, t)
}
