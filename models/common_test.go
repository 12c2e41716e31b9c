package models

import "testing"

func TestIsValidDocumentType(t *testing.T) {
	cases := []struct {
		mimeType string
		valid    bool
	}{
		{"application/pdf", true},
		{"application/msword", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"image/png", false},
		{"text/html", false},
	}

	for _, tc := range cases {
		f := FileUpload{MimeType: tc.mimeType}
		if got := f.IsValidDocumentType(); got != tc.valid {
			t.Fatalf("%s: expected %v, got %v", tc.mimeType, tc.valid, got)
		}
	}
}

func TestGetFileSizeInMB(t *testing.T) {
	f := FileUpload{FileSize: 5 * 1024 * 1024}
	if got := f.GetFileSizeInMB(); got != 5.0 {
		t.Fatalf("expected 5.0, got %f", got)
	}
}
