package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalk(t *testing.T) {
	root := makeTree(t,
		"App.tsx",
		"constants.ts",
		"README.md",
		"components/Header.TSX",
		"components/ui/button.tsx",
		"types/global.d.ts",
		"node_modules/pkg/index.ts",
		"scripts/build.cjs",
	)

	files, err := Walk(context.Background(), Options{
		Root:       root,
		Extensions: []string{".ts", ".tsx"},
		Exclude:    []string{"**/node_modules/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"App.tsx",
		"components/Header.TSX",
		"components/ui/button.tsx",
		"constants.ts",
		"types/global.d.ts",
	}, relAll(t, root, files))
}

func TestWalkExcludeFiles(t *testing.T) {
	root := makeTree(t, "a.ts", "gen/b.ts", "c.generated.ts")

	files, err := Walk(context.Background(), Options{
		Root:       root,
		Extensions: []string{".ts"},
		Exclude:    []string{"gen", "**/*.generated.ts"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, relAll(t, root, files))
}

func TestWalkRootErrors(t *testing.T) {
	_, err := Walk(context.Background(), Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	root := makeTree(t, "a.ts")
	_, err = Walk(context.Background(), Options{Root: filepath.Join(root, "a.ts")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestWalkSymlinkedRoot(t *testing.T) {
	target := makeTree(t, "a.ts", "lib/b.ts")
	link := filepath.Join(t.TempDir(), "src")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := Walk(context.Background(), Options{Root: link, Extensions: []string{".ts"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(link, "a.ts"),
		filepath.Join(link, "lib", "b.ts"),
	}, files)
}

func TestWalkSymlinkedFiles(t *testing.T) {
	shared := makeTree(t, "shared.ts", "pkg/c.ts")
	root := makeTree(t, "a.ts")
	if err := os.Symlink(filepath.Join(shared, "shared.ts"), filepath.Join(root, "linked.ts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(shared, "missing.ts"), filepath.Join(root, "dangling.ts")))
	require.NoError(t, os.Symlink(filepath.Join(shared, "pkg"), filepath.Join(root, "pkg.ts")))

	files, err := Walk(context.Background(), Options{Root: root, Extensions: []string{".ts"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "linked.ts"}, relAll(t, root, files))
}

func TestWalkCancelled(t *testing.T) {
	root := makeTree(t, "a.ts")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, Options{Root: root, Extensions: []string{".ts"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasExtension(t *testing.T) {
	exts := []string{".ts", ".tsx"}
	assert.True(t, HasExtension("a/b.ts", exts))
	assert.True(t, HasExtension("a/B.TSX", exts))
	assert.True(t, HasExtension("x.d.ts", exts))
	assert.False(t, HasExtension("a/b.js", exts))
	assert.False(t, HasExtension("a/b.ts", nil))
}

func TestIsExcluded(t *testing.T) {
	patterns := []string{"**/node_modules/**", "dist"}
	assert.True(t, IsExcluded("node_modules/x/y.ts", patterns))
	assert.True(t, IsExcluded("src/node_modules/x.ts", patterns))
	assert.True(t, IsExcluded("dist/", patterns))
	assert.False(t, IsExcluded("src/app.ts", patterns))
	assert.False(t, IsExcluded("src/app.ts", nil))
}
