package validation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreerrors "github.com/FocuswithJustin/JuniperCanon/core/errors"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"relative", "data/kjv.json", nil},
		{"absolute", "/var/lib/canon/kjv.json.xz", nil},
		{"empty", "", ErrEmptyPath},
		{"null byte", "kjv\x00.json", ErrInvalidCharacter},
		{"newline", "kjv\n.json", ErrInvalidCharacter},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    FileType
	}{
		{"json", []byte(`{"books": []}`), FileTypeJSON},
		{"json after whitespace", []byte("\n  {\"books\": []}"), FileTypeJSON},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00, 0x04}, FileTypeXZ},
		{"osis", []byte(`<?xml version="1.0"?><osis/>`), FileTypeXML},
		{"osis with bom", []byte("\xef\xbb\xbf<osis/>"), FileTypeXML},
		{"tsv", []byte("1001001\tIn the beginning\n"), FileTypeText},
		{"sqlite", []byte("SQLite format 3\x00\x10\x00"), FileTypeSQLite},
		{"binary", []byte{0x00, 0x01, 0x02, 0x03}, FileTypeUnknown},
		{"empty", nil, FileTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(bytes.NewReader(tt.content))
			if err != nil {
				t.Fatalf("DetectFileType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	dataset := writeFile(t, "kjv.json", []byte(`{"books": []}`))
	got, err := CheckFile("data.dataset", dataset, FileTypeJSON, FileTypeXZ)
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}
	if got != FileTypeJSON {
		t.Errorf("CheckFile() = %s, want json", got)
	}

	_, err = CheckFile("data.osis", dataset, FileTypeXML)
	var verr *coreerrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CheckFile() error = %v, want ValidationError", err)
	}
	if verr.Field != "data.osis" || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("CheckFile() error = %+v", verr)
	}

	_, err = CheckFile("data.dataset", filepath.Join(t.TempDir(), "absent.json"), FileTypeJSON)
	var ioErr *coreerrors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("CheckFile() on missing file = %v, want IOError", err)
	}

	_, err = CheckFile("data.dataset", "", FileTypeJSON)
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("CheckFile(\"\") = %v, want ErrEmptyPath", err)
	}
}

func TestCheckDatabase(t *testing.T) {
	if err := CheckDatabase("content.database", filepath.Join(t.TempDir(), "new.db")); err != nil {
		t.Errorf("new database: %v", err)
	}
	if err := CheckDatabase("content.database", writeFile(t, "empty.db", nil)); err != nil {
		t.Errorf("empty database: %v", err)
	}
	if err := CheckDatabase("content.database", writeFile(t, "text.db", []byte("SQLite format 3\x00"))); err != nil {
		t.Errorf("sqlite database: %v", err)
	}
	if err := CheckDatabase("content.database", writeFile(t, "notes.db", []byte("not a database"))); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("text file as database = %v, want ErrTypeMismatch", err)
	}
	if err := CheckDatabase("content.database", t.TempDir()); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("directory as database = %v, want ErrTypeMismatch", err)
	}
}
