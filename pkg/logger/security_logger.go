package logger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"keyword-research/pkg/utils"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s]+`)
	secretPattern = regexp.MustCompile(`(?i)(key|token|secret)[=:]\s*[a-zA-Z0-9_\-]+`)
)

// SecurityLogger masks provider credentials and endpoints before they reach the log.
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger(l *Logger) *SecurityLogger {
	if l == nil {
		l = GetLogger()
	}
	return &SecurityLogger{Logger: l}
}

// MaskAPIKey replaces a credential with a short fingerprint.
func (sl *SecurityLogger) MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	return "api-key#" + utils.ShortFingerprint(key)
}

// MaskEndpoint keeps the host of a provider endpoint and hides path and query.
func (sl *SecurityLogger) MaskEndpoint(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "endpoint#" + utils.ShortFingerprint(rawURL)
	}
	return fmt.Sprintf("%s#%s", parsed.Host, utils.ShortFingerprint(rawURL))
}

// MaskSensitiveData masks values whose key names look like credentials or endpoints.
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for key, value := range data {
		lowerKey := strings.ToLower(key)
		str, isString := value.(string)

		switch {
		case !isString:
			masked[key] = value
		case strings.Contains(lowerKey, "key") || strings.Contains(lowerKey, "secret") ||
			strings.Contains(lowerKey, "password") || strings.Contains(lowerKey, "dsn"):
			masked[key] = sl.MaskAPIKey(str)
		case strings.Contains(lowerKey, "url") || strings.Contains(lowerKey, "endpoint"):
			masked[key] = sl.MaskEndpoint(str)
		default:
			masked[key] = value
		}
	}
	return masked
}

// MaskLogMessage masks URLs and inline credentials in free text.
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	masked := urlPattern.ReplaceAllStringFunc(message, sl.MaskEndpoint)
	return secretPattern.ReplaceAllString(masked, "${1}=***")
}

// SafeInfo logs info with automatic sensitive data masking
func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
		return
	}
	sl.Logger.Info(sl.MaskLogMessage(msg))
}

// SafeWarn logs warning with automatic sensitive data masking
func (sl *SecurityLogger) SafeWarn(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Warn(sl.MaskLogMessage(msg))
		return
	}
	sl.Logger.Warn(sl.MaskLogMessage(msg))
}

// SafeError logs error with automatic sensitive data masking
func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	l := sl.Logger
	if fields != nil {
		l = l.WithFields(sl.MaskSensitiveData(fields))
	}
	if err != nil {
		l = l.WithField("error", sl.MaskLogMessage(err.Error()))
	}
	l.Error(sl.MaskLogMessage(msg))
}
