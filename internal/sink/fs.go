package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/file-or-pattern/fop/fop"
)

// FSSink persists each Fop's content as a file under Root, mirroring
// the sanitized key as a relative path.
type FSSink struct {
	Root string
}

// NewFSSink constructs an FSSink rooted at root, creating it if
// necessary.
func NewFSSink(root string) (*FSSink, error) {
	if root == "" {
		return nil, fmt.Errorf("sink: fs sink requires a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("sink: create root %q: %w", root, err)
	}
	return &FSSink{Root: root}, nil
}

// Put implements Sink.
func (s *FSSink) Put(_ context.Context, f fop.Fop) error {
	data, err := contentBytes(f)
	if err != nil {
		return err
	}

	dest := filepath.Join(s.Root, filepath.FromSlash(keyFor(f)))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("sink: create parent dir for %q: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("sink: write %q: %w", dest, err)
	}
	return nil
}

// Close implements Sink. FSSink holds no resources to release.
func (s *FSSink) Close() error { return nil }

var _ Sink = (*FSSink)(nil)
