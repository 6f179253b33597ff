package constants

import (
	"testing"

	"station-api/internal/config"

	"github.com/stretchr/testify/assert"
)

func testEngine() *ValidationEngine {
	return NewValidationEngine(config.AttachmentValidationConfig{
		DefaultMaxSize: "1KB",
		DefaultAction:  "allow",
		Rules: []config.ValidationRule{
			{Name: "executables", Extensions: []string{"exe", ".bat"}, Allow: false},
			{Name: "images", MimeTypes: []string{"image/*"}, MaxSize: "2KB", Allow: true},
			{Name: "scans", Patterns: []string{"scan_*.pdf"}, MaxSize: "bogus", Allow: true},
		},
	})
}

func TestValidateFileRules(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name     string
		filename string
		mimetype string
		size     int64
		allowed  bool
		rule     string
	}{
		{"blocked by extension", "virus.EXE", "application/octet-stream", 10, false, "executables"},
		{"blocked by dotted extension", "run.bat", "text/plain", 10, false, "executables"},
		{"image under rule limit", "photo.png", "image/png", 2000, true, "images"},
		{"image over rule limit", "photo.png", "image/png", 3000, false, "images"},
		{"pattern with broken limit", "SCAN_01.pdf", "application/pdf", 10, false, "scans"},
		{"default allows small", "notes.txt", "text/plain", 100, true, "Default Action"},
		{"default rejects large", "notes.txt", "text/plain", 2048, false, "Default Action"},
		{"no extension", "attachment", "application/octet-stream", 10, true, "Default Action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ValidateFile(tt.filename, tt.mimetype, tt.size)
			assert.Equal(t, tt.allowed, result.IsAllowed, result.Reason)
			assert.Equal(t, tt.rule, result.RuleName)
		})
	}
}

func TestValidateFileDefaultBlock(t *testing.T) {
	engine := NewValidationEngine(config.AttachmentValidationConfig{DefaultMaxSize: "1MB", DefaultAction: "block"})

	result := engine.ValidateFile("a.txt", "text/plain", 1)
	assert.False(t, result.IsAllowed)
	assert.Contains(t, result.Reason, "default action is to block")
}

func TestCheck(t *testing.T) {
	engine := testEngine()

	assert.NoError(t, engine.Check("photo.png", "image/png", 10))
	assert.Error(t, engine.Check("virus.exe", "application/octet-stream", 10))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "16.0 MB", FormatFileSize(16*1024*1024))
}
