package constants

import (
	"fmt"
	"regexp"
	"strings"

	"station-api/internal/config"
	"station-api/internal/utils"

	"github.com/kerimovok/go-pkg-utils/errors"
)

// ValidationResult contains the result of attachment validation
type ValidationResult struct {
	IsAllowed   bool
	MaxSize     int64
	RuleName    string
	Reason      string
	MatchedRule *config.ValidationRule
}

// ValidationEngine checks decoded attachments against the configured rules
type ValidationEngine struct {
	config config.AttachmentValidationConfig
}

// NewValidationEngine creates a new validation engine
func NewValidationEngine(config config.AttachmentValidationConfig) *ValidationEngine {
	return &ValidationEngine{
		config: config,
	}
}

// ValidateFile validates an attachment based on the configured rules
func (e *ValidationEngine) ValidateFile(filename, mimeType string, fileSize int64) *ValidationResult {
	ext := utils.GetFileExtension(filename)

	// First matching rule wins
	for _, rule := range e.config.Rules {
		if e.matchesRule(ext, filename, mimeType, rule) {
			return e.applyRule(rule, fileSize)
		}
	}

	// No rule matched, apply default action
	return e.applyDefaultAction(ext, fileSize)
}

// Check returns a bad request error when the attachment is not allowed
func (e *ValidationEngine) Check(filename, mimeType string, fileSize int64) error {
	result := e.ValidateFile(filename, mimeType, fileSize)
	if !result.IsAllowed {
		return errors.BadRequestError("ATTACHMENT_REJECTED", fmt.Sprintf("%s: %s", filename, result.Reason))
	}
	return nil
}

// matchesRule checks if an attachment matches a validation rule
func (e *ValidationEngine) matchesRule(ext, filename, mimeType string, rule config.ValidationRule) bool {
	// Check extensions
	for _, allowedExt := range rule.Extensions {
		if ext != "" && strings.EqualFold(ext, strings.TrimPrefix(allowedExt, ".")) {
			return true
		}
	}

	// Check patterns (glob patterns like *.pdf)
	for _, pattern := range rule.Patterns {
		if e.matchesPattern(filename, pattern) {
			return true
		}
	}

	// Check MIME types
	for _, allowedMime := range rule.MimeTypes {
		if utils.MatchesMimeType(mimeType, allowedMime) {
			return true
		}
	}

	return false
}

// matchesPattern checks if a filename matches a glob pattern
func (e *ValidationEngine) matchesPattern(filename, pattern string) bool {
	matched, err := regexp.MatchString(e.globToRegex(pattern), filename)
	if err != nil {
		return false
	}
	return matched
}

// globToRegex converts a glob pattern to a case-insensitive regex pattern
func (e *ValidationEngine) globToRegex(pattern string) string {
	// Escape special regex characters
	pattern = regexp.QuoteMeta(pattern)

	// Convert glob wildcards to regex
	pattern = strings.ReplaceAll(pattern, "\\*", ".*")
	pattern = strings.ReplaceAll(pattern, "\\?", ".")

	return "(?i)^" + pattern + "$"
}

// applyRule applies a validation rule to an attachment
func (e *ValidationEngine) applyRule(rule config.ValidationRule, fileSize int64) *ValidationResult {
	result := &ValidationResult{
		IsAllowed:   rule.Allow,
		RuleName:    rule.Name,
		MatchedRule: &rule,
	}

	if !rule.Allow {
		result.Reason = fmt.Sprintf("attachment blocked by rule '%s'", rule.Name)
		return result
	}

	result.MaxSize = e.config.GetDefaultMaxFileSize()
	if rule.MaxSize != "" {
		maxSize, err := utils.ParseSizeString(rule.MaxSize)
		if err != nil {
			result.IsAllowed = false
			result.Reason = fmt.Sprintf("invalid size limit in rule '%s': %s", rule.Name, rule.MaxSize)
			return result
		}
		result.MaxSize = maxSize
	}

	if fileSize > result.MaxSize {
		result.IsAllowed = false
		result.Reason = fmt.Sprintf("attachment size %s exceeds limit %s set by rule '%s'",
			FormatFileSize(fileSize), FormatFileSize(result.MaxSize), rule.Name)
	}

	return result
}

// applyDefaultAction applies the default action when no rules match
func (e *ValidationEngine) applyDefaultAction(ext string, fileSize int64) *ValidationResult {
	result := &ValidationResult{
		IsAllowed: !e.config.IsDefaultActionBlock(),
		RuleName:  "Default Action",
		MaxSize:   e.config.GetDefaultMaxFileSize(),
	}

	if !result.IsAllowed {
		result.Reason = fmt.Sprintf("attachment type .%s not covered by any rules, default action is to block", ext)
		return result
	}

	if fileSize > result.MaxSize {
		result.IsAllowed = false
		result.Reason = fmt.Sprintf("attachment size %s exceeds default limit %s",
			FormatFileSize(fileSize), FormatFileSize(result.MaxSize))
	}

	return result
}

// FormatFileSize formats bytes into human-readable format
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
