package transform

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// binarySniffLen is how much of a file's head is inspected for binary content.
const binarySniffLen = 8192

// binaryExtensions contains common binary file extensions
//
//nolint:gochecknoglobals // This is a read-only lookup table
var binaryExtensions = map[string]bool{
	// Images
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".ico": true, ".webp": true, ".tiff": true,

	// Archives
	".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".bz2": true, ".xz": true, ".7z": true, ".rar": true,

	// Executables and objects
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".a": true, ".o": true, ".class": true, ".pyc": true, ".wasm": true,

	// Media
	".mp3": true, ".mp4": true, ".mov": true, ".wav": true, ".ogg": true,

	// Documents and fonts
	".pdf": true, ".docx": true, ".xlsx": true, ".pptx": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,

	// Other
	".jar": true, ".db": true, ".sqlite": true,
}

// IsBinary checks if a file is likely binary based on its extension and content.
//
// Content is binary when the first 8 KiB contain a NUL byte or more than 30%
// control bytes or invalid UTF-8 sequences.
func IsBinary(filePath string, content []byte) bool {
	if binaryExtensions[strings.ToLower(filepath.Ext(filePath))] {
		return true
	}
	return isBinaryContent(content)
}

func isBinaryContent(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > binarySniffLen {
		sample = sample[:binarySniffLen]
	}

	nonText := 0
	for i := 0; i < len(sample); {
		b := sample[i]
		if b == 0 {
			return true
		}
		if b < utf8.RuneSelf {
			if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
				nonText++
			}
			i++
			continue
		}

		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size == 1 {
			nonText++
		}
		i += size
	}

	return nonText > len(sample)*30/100
}

// binaryGuard stops the chain for binary files.
type binaryGuard struct{}

// NewBinaryGuard creates a transformer that ends the chain with
// ErrSkipContent when the content is binary.
func NewBinaryGuard() Transformer {
	return &binaryGuard{}
}

// Name returns the name of this transformer
func (b *binaryGuard) Name() string {
	return "binary-file-skipper"
}

// Transform returns ErrSkipContent for binary content and passes text through.
func (b *binaryGuard) Transform(content []byte, ctx Context) ([]byte, error) {
	if IsBinary(ctx.FilePath, content) {
		return content, fmt.Errorf("%w: %s is binary", ErrSkipContent, ctx.FilePath)
	}
	return content, nil
}
