package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
)

func sourceOf(values ...string) <-chan fop.Fop {
	ch := make(chan fop.Fop, len(values))
	for _, v := range values {
		ch <- fop.Fop{FileOrPattern: v}
	}
	close(ch)
	return ch
}

func drain(t *testing.T, out <-chan fop.Fop, errs <-chan error, timeout time.Duration) ([]fop.Fop, error) {
	t.Helper()
	var results []fop.Fop
	deadline := time.After(timeout)
	for {
		select {
		case f, ok := <-out:
			if !ok {
				out = nil
			} else {
				results = append(results, f)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
			} else if err != nil {
				return results, err
			}
		case <-deadline:
			t.Fatal("timed out draining pipeline")
		}
		if out == nil && errs == nil {
			return results, nil
		}
	}
}

func TestSimpleReadsMatchedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, "a.txt"), "one"))
	require.NoError(t, writeFile(filepath.Join(dir, "b.txt"), "two"))

	p := Simple(SimpleConfig{AsText: true, RecordEncoding: true})
	out, errs := p(context.Background(), sourceOf(filepath.Join(dir, "*.txt")))
	results, err := drain(t, out, errs, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, f := range results {
		require.NotNil(t, f.Content)
		assert.True(t, f.Content.IsText)
	}
}

func TestSimpleLiteralFileSkipsGlobbing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.txt")
	require.NoError(t, writeFile(path, "hello"))

	p := Simple(SimpleConfig{AsText: true})
	out, errs := p(context.Background(), sourceOf(path))
	results, err := drain(t, out, errs, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hello", results[0].Content.Text)
}

func TestSimpleFailFastStopsOnConfigError(t *testing.T) {
	p := Simple(SimpleConfig{GuardMode: true, FailFast: true})
	out, errs := p(context.Background(), sourceOf(""))
	_, err := drain(t, out, errs, 2*time.Second)
	require.Error(t, err)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
