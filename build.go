package spacetraveling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Build prepares the listing once and writes a static copy of the site to
// outDir: index.html, posts.json and the embedded assets. A failed upstream
// query fails the build and nothing is written.
func (a *App) Build(ctx context.Context, outDir string) error {
	page, err := a.Preparer.Prepare(ctx)
	if err != nil {
		return fmt.Errorf("prepare posts: %w", err)
	}

	var html bytes.Buffer
	if err := a.Views.Home(a.viewConfig(), page).Render(ctx, &html); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "index.html"), html.Bytes()); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "posts.json"), data); err != nil {
		return err
	}
	if err := copyAssets(outDir); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "site built", "out", outDir, "posts", len(page.Results), "has_next", page.HasNext())
	return nil
}

func copyAssets(outDir string) error {
	root := "embedded"
	return fs.WalkDir(EmbeddedAssets, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, relPath)
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}
		content, err := EmbeddedAssets.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return writeFile(outPath, content)
	})
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
