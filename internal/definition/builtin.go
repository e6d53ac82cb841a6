package definition

import (
	"embed"

	"github.com/yanizio/layoutkit/internal/layout"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtins returns the stock templates shipped with the binary.
func Builtins() ([]*layout.Template, error) {
	return LoadFS(builtinFS, "builtin")
}
