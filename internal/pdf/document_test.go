package pdf

import (
	"errors"
	"testing"
)

func TestCheckInput(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, true},
		{"just below header floor", MinInputBytes - 1, true},
		{"at header floor", MinInputBytes, false},
		{"well above floor", 4096, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInput(make([]byte, tt.size))
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckInput(%d bytes) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v is not ErrInvalidInput", err)
			}
		})
	}
}

func TestOpenBytesGarbage(t *testing.T) {
	_, err := OpenBytes([]byte("definitely not a pdf, but long enough to pass any header check......."))
	if err == nil {
		t.Fatal("OpenBytes should fail on garbage input")
	}
	if !errors.Is(err, ErrDocumentOpen) {
		t.Errorf("error %v is not ErrDocumentOpen", err)
	}
}
