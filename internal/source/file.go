package source

import (
	"crypto/sha256"
	"os"
	"path/filepath"
)

// FileFlags encodes metadata about a loaded script.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin, editor buffer).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
)

// File is one script: its path, its text and a lazily built line index.
// CRLF is kept as-is; the scanner and LineIndex both understand it, and
// editors expect offsets into the text they sent.
type File struct {
	Path    string
	Content string
	Hash    [32]byte
	Flags   FileFlags

	lines *LineIndex
}

// Load reads a script from disk and strips a UTF-8 BOM.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return newFile(normalizePath(path), string(content), flags), nil
}

// NewVirtual wraps in-memory text (stdin, tests, LSP documents).
func NewVirtual(name, content string) *File {
	return newFile(name, content, FileVirtual)
}

func newFile(path, content string, flags FileFlags) *File {
	return &File{
		Path:    path,
		Content: content,
		Hash:    sha256.Sum256([]byte(content)),
		Flags:   flags,
	}
}

// Lines returns the file's line index, building it on first use.
func (f *File) Lines() *LineIndex {
	if f.lines == nil {
		f.lines = NewLineIndex(f.Content)
	}
	return f.lines
}

// Text returns the source text covered by span, clamped to the content.
func (f *File) Text(span Span) string {
	n := f.Lines().size()
	start, end := min(span.Start, n), min(span.End, n)
	if end < start {
		end = start
	}
	return f.Content[start:end]
}

// DisplayPath shortens long absolute paths to their base name.
func (f *File) DisplayPath() string {
	if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
		return f.Path
	}
	return filepath.Base(f.Path)
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
