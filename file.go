package edds2dds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath returns the DDS path for an EDDS source: the extension is
// replaced with ".dds" and, when outDir is set, the file moves there.
func OutputPath(src, outDir string) string {
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".dds"
	if outDir != "" {
		dst = filepath.Join(outDir, filepath.Base(dst))
	}

	return dst
}

// ConvertFile reads an EDDS file, decodes it and writes the DDS stream to dst.
// Nothing is written when decoding fails.
func ConvertFile(src, dst string, opts *Options) (*Result, error) {
	input, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, src, err)
	}

	res, err := DecodeWithOptions(input, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	if err := os.WriteFile(dst, res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCreateFile, dst, err)
	}

	return res, nil
}
