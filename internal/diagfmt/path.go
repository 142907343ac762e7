package diagfmt

import (
	"os"
	"path/filepath"

	"tomlfmt/internal/source"
)

func displayPath(path string, mode PathMode, baseDir string) string {
	if path == "" || path == "-" || path == "<stdin>" {
		return path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return source.BaseName(path)
	case PathModeAuto:
		if !filepath.IsAbs(path) {
			return filepath.ToSlash(path)
		}
		if wd, err := os.Getwd(); err == nil {
			if rel, err := source.RelativePath(path, wd); err == nil {
				return rel
			}
		}
	}
	return filepath.ToSlash(path)
}
