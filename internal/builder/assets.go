package builder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// stageCopyAssets copies static files byte-for-byte into the staging tree:
// non-Markdown files from the content tree (keeping their relative location)
// and everything under the static directory (at the output root). A sha256
// comparison against the previous generation tracks how much actually changed.
func stageCopyAssets(_ context.Context, bs *BuildState) error {
	for _, asset := range bs.Assets {
		if err := copyAsset(bs, asset.SourcePath, asset.RelativePath); err != nil {
			return err
		}
	}

	staticDir := bs.Generator.cfg.Content.StaticDir
	if staticDir == "" {
		return nil
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}

	err := filepath.WalkDir(staticDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != staticDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(staticDir, p)
		if err != nil {
			return err
		}
		return copyAsset(bs, p, filepath.ToSlash(rel))
	})
	if err != nil {
		if se, ok := err.(*StageError); ok {
			return se
		}
		return newFatalStageError(StageCopyAssets, serrors.IOFailure("walk", staticDir, err))
	}
	return nil
}

func copyAsset(bs *BuildState, sourcePath, outputPath string) error {
	if prior, ok := bs.claimOutput(outputPath, sourcePath); !ok {
		return newFatalStageError(StageCopyAssets, serrors.OutputCollision(outputPath, prior, sourcePath))
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return newFatalStageError(StageCopyAssets, serrors.IOFailure("read", sourcePath, err))
	}

	if unchangedSincePreviousBuild(bs.Generator.outputDir, outputPath, data) {
		bs.Report.AssetsUnchanged++
	} else {
		bs.Report.AssetsCopied++
	}

	if err := bs.Generator.writeStaged(outputPath, data); err != nil {
		return newFatalStageError(StageCopyAssets, serrors.IOFailure("write", outputPath, err))
	}
	return nil
}

// unchangedSincePreviousBuild compares content hashes against the file in the
// current (about to be replaced) output tree.
func unchangedSincePreviousBuild(outputDir, outputPath string, data []byte) bool {
	prev, err := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(outputPath)))
	if err != nil {
		return false
	}
	if len(prev) != len(data) {
		return false
	}
	a := sha256.Sum256(prev)
	b := sha256.Sum256(data)
	same := bytes.Equal(a[:], b[:])
	if same {
		slog.Debug("Asset unchanged since previous build", "path", outputPath)
	}
	return same
}
