package axe

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/a11ycrawl"
)

// Ensure FileSource implements a11ycrawl.ScriptSource at compile time.
var _ a11ycrawl.ScriptSource = FileSource("")

// FileSource loads the axe-core script from a local file, typically
// node_modules/axe-core/axe.min.js.
type FileSource string

// Load reads the file.
func (s FileSource) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(string(s))
	if os.IsNotExist(err) {
		return "", a11ycrawl.Errorf(a11ycrawl.ENOTFOUND, "axe script not found: %s", string(s))
	} else if err != nil {
		return "", fmt.Errorf("reading axe script: %w", err)
	}
	return string(b), nil
}
