// Package validation checks the files handed to the command line before
// they reach the hydration and content layers.
package validation

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// Limits on accepted inputs.
const (
	// MaxFileSize is the largest input file accepted (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the longest path accepted.
	MaxPathLength = 4096
)

var (
	ErrEmptyPath        = stderrors.New("path cannot be empty")
	ErrPathTooLong      = stderrors.New("path too long")
	ErrInvalidCharacter = stderrors.New("invalid character in path")
	ErrTooLarge         = stderrors.New("file too large")
	ErrTypeMismatch     = stderrors.New("unexpected file type")
)

// ValidatePath rejects empty, overlong and control-character paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// FileType is the detected kind of an input file.
type FileType string

const (
	FileTypeJSON    FileType = "json"
	FileTypeXZ      FileType = "xz"
	FileTypeXML     FileType = "xml"
	FileTypeText    FileType = "text"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeUnknown FileType = "unknown"
)

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
}

// DetectFileType reads the head of r and classifies it by magic bytes,
// falling back to the shape of the first non-blank character for text.
func DetectFileType(r io.Reader) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, err
	}
	buf = buf[:n]

	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType, nil
		}
	}
	if !isLikelyText(buf) {
		return FileTypeUnknown, nil
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")), " \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FileTypeXML, nil
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FileTypeJSON, nil
	default:
		return FileTypeText, nil
	}
}

// CheckFile validates path and verifies that the file is no larger than
// MaxFileSize and is one of the wanted types. field names the setting the
// path came from.
func CheckFile(field, path string, want ...FileType) (FileType, error) {
	if err := ValidatePath(path); err != nil {
		return FileTypeUnknown, invalid(field, path, err.Error(), err)
	}
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileTypeUnknown, errors.NewIO("stat", path, err)
	}
	if info.Size() > MaxFileSize {
		return FileTypeUnknown, invalid(field, path,
			fmt.Sprintf("%d bytes exceeds the %d byte limit", info.Size(), MaxFileSize), ErrTooLarge)
	}

	got, err := DetectFileType(f)
	if err != nil {
		return FileTypeUnknown, errors.NewIO("read", path, err)
	}
	for _, w := range want {
		if got == w {
			return got, nil
		}
	}
	return got, invalid(field, path,
		fmt.Sprintf("%s is %s, expected %s", filepath.Base(path), got, join(want)), ErrTypeMismatch)
}

// CheckDatabase accepts a path that does not exist yet, an empty file or an
// existing SQLite database.
func CheckDatabase(field, path string) error {
	if err := ValidatePath(path); err != nil {
		return invalid(field, path, err.Error(), err)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return invalid(field, path, "is a directory", ErrTypeMismatch)
	}
	if info.Size() == 0 {
		return nil
	}
	_, err = CheckFile(field, path, FileTypeSQLite)
	return err
}

func invalid(field, path, message string, err error) error {
	return &errors.ValidationError{Field: field, Value: path, Message: message, Err: err}
}

func join(types []FileType) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = string(t)
	}
	return strings.Join(s, " or ")
}

// isLikelyText reports whether buf has no NUL bytes and is nearly all
// printable.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
