package errors

import (
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "frame_000001.png", false},
		{"jpeg upper", "IMG_0042.JPG", false},
		{"spaces", "my frame.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"with path /", "frames/a.png", true},
		{"with path \\", "frames\\a.png", true},
		{"hidden file", ".DS_Store", true},
		{"null byte", "a\x00.png", true},
		{"newline", "a\n.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateFilename(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	allowed := []string{".png", ".jpg", "jpeg"}
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"exact", ".png", false},
		{"no dot", "png", false},
		{"upper", ".PNG", false},
		{"allowed without dot", ".jpeg", false},

		{"empty", "", true},
		{"dot only", ".", true},
		{"unsupported", ".gif", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtension(tt.input, allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtension(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateExtension(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		"png":    ".png",
		".PNG":   ".png",
		" .Jpg ": ".jpg",
		"":       "",
	}
	for in, want := range tests {
		if got := NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidConfig,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeDegenerateFrame,
		ErrCodeDecode,
		ErrCodeEncode,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
