// Package logging provides redaction services for sensitive data protection.
//
// Tokens handed to git (as a basic-auth extraheader) and to gh (as GH_TOKEN)
// travel through command arguments and error output. The redaction hook
// scrubs them from every log entry before it is written.
package logging

import (
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const redacted = "***REDACTED***"

// RedactionService handles sensitive data redaction.
type RedactionService struct {
	githubTokenPatterns []*regexp.Regexp
	basicAuthPattern    *regexp.Regexp
	authPattern         *regexp.Regexp
	urlPasswordPattern  *regexp.Regexp
	urlParamPattern     *regexp.Regexp
	envPattern          *regexp.Regexp
	sensitiveFields     []string
}

// NewRedactionService creates a new redaction service with the default patterns.
//
// Covered formats:
// - GitHub tokens (ghp_, ghs_, gho_, github_pat_, ghr_)
// - "AUTHORIZATION: basic <base64>" extraheader values
// - Bearer/Token authorization headers
// - Credentials embedded in URLs and query parameters
// - Environment assignments with sensitive names
//
// Bare base64 blobs are left alone so commit SHAs stay readable.
func NewRedactionService() *RedactionService {
	return &RedactionService{
		githubTokenPatterns: []*regexp.Regexp{
			regexp.MustCompile(`ghp_[a-zA-Z0-9]{4,}`),
			regexp.MustCompile(`ghs_[a-zA-Z0-9]{4,}`),
			regexp.MustCompile(`gho_[a-zA-Z0-9]{4,}`),
			regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{4,}`),
			regexp.MustCompile(`ghr_[a-zA-Z0-9]{4,}`),
		},
		basicAuthPattern:   regexp.MustCompile(`(?i)(AUTHORIZATION:\s*basic)\s+[A-Za-z0-9+/=*]+`),
		authPattern:        regexp.MustCompile(`(Bearer|Token)\s+([^\s'"]+)`),
		urlPasswordPattern: regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`),
		urlParamPattern:    regexp.MustCompile(`(password|token|secret|api_key)=([^\s&]+)`),
		envPattern:         regexp.MustCompile(`([A-Z_]*(?:TOKEN|SECRET|PASSWORD)[A-Z_]*=)([^\s]+)`),
		sensitiveFields: []string{
			"password", "passwd", "secret", "token", "api_key", "apikey",
			"auth", "authorization", "credential", "private_key", "extraheader",
		},
	}
}

// RedactSensitive removes sensitive data from text using pattern matching.
//
// GitHub tokens keep their prefix (e.g. "ghp_***REDACTED***") so the token
// kind stays visible while debugging. Header and parameter names are kept,
// only values are replaced.
func (r *RedactionService) RedactSensitive(text string) string {
	if text == "" {
		return text
	}

	for _, pattern := range r.githubTokenPatterns {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			prefix := match[:strings.Index(match, "_")+1]
			if strings.HasPrefix(match, "github_pat_") {
				prefix = "github_pat_"
			}
			return prefix + redacted
		})
	}

	text = r.basicAuthPattern.ReplaceAllString(text, "$1 "+redacted)
	text = r.authPattern.ReplaceAllString(text, "$1 "+redacted)
	text = r.urlPasswordPattern.ReplaceAllString(text, "://$1:"+redacted+"@")
	text = r.urlParamPattern.ReplaceAllString(text, "$1="+redacted)
	text = r.envPattern.ReplaceAllString(text, "${1}"+redacted)

	return text
}

// IsSensitiveField checks if a field name indicates sensitive data.
func (r *RedactionService) IsSensitiveField(fieldName string) bool {
	fieldLower := strings.ToLower(fieldName)
	for _, sensitive := range r.sensitiveFields {
		if strings.Contains(fieldLower, sensitive) {
			return true
		}
	}
	return false
}

// CreateHook creates a logrus hook for automatic redaction.
func (r *RedactionService) CreateHook() logrus.Hook {
	return &RedactionHook{service: r}
}

// RedactionHook automatically redacts sensitive data in log entries.
type RedactionHook struct {
	service *RedactionService
}

// Levels returns the log levels this hook should process.
func (h *RedactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire redacts the entry message and every field value.
func (h *RedactionHook) Fire(entry *logrus.Entry) error {
	entry.Message = h.service.RedactSensitive(entry.Message)

	for key, value := range entry.Data {
		entry.Data[key] = h.redactValue(key, value)
	}

	return nil
}

func (h *RedactionHook) redactValue(key string, value interface{}) interface{} {
	if h.service.IsSensitiveField(key) {
		if str, ok := value.(string); ok {
			if out := h.service.RedactSensitive(str); out != str {
				return out
			}
		}
		return redacted
	}

	switch v := value.(type) {
	case string:
		return h.service.RedactSensitive(v)
	case []string:
		result := make([]string, len(v))
		for i, item := range v {
			result[i] = h.service.RedactSensitive(item)
		}
		return result
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for nestedKey, nestedValue := range v {
			result[nestedKey] = h.redactValue(nestedKey, nestedValue)
		}
		return result
	default:
		return value
	}
}

// AuditLogger records security-relevant events: credential swaps in the
// working copy and authenticated access to remote repositories.
type AuditLogger struct {
	logger *logrus.Entry
}

// NewAuditLogger creates a new audit logger writing through logger.
// A nil logger falls back to the logrus standard logger.
func NewAuditLogger(logger *logrus.Logger) *AuditLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuditLogger{
		logger: logger.WithField(StandardFields.Component, "audit"),
	}
}

// LogCredentialChange records that the git credential header was replaced or restored.
func (a *AuditLogger) LogCredentialChange(repoPath, action string) {
	a.logger.WithFields(logrus.Fields{
		"event":     "credential_change",
		"repo_path": repoPath,
		"action":    action,
		"time":      time.Now().Unix(),
	}).Debug("Git credentials changed")
}

// LogRepositoryAccess records authenticated access to a repository.
func (a *AuditLogger) LogRepositoryAccess(repo, action string) {
	a.logger.WithFields(logrus.Fields{
		"event":  "repo_access",
		"repo":   repo,
		"action": action,
		"time":   time.Now().Unix(),
	}).Debug("Repository accessed")
}
