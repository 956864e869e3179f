package errors

import "maps"

// ErrorCategory routes an error to an exit code and a log level.
type ErrorCategory string

// Input problems the operator fixes by editing configuration or sheets.
const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"
)

// Upstream services: Google Sheets, Google Drive, NATS and git remotes.
const (
	CategoryNetwork ErrorCategory = "network"
	CategorySheets  ErrorCategory = "sheets"
	CategoryDrive   ErrorCategory = "drive"
	CategoryNotify  ErrorCategory = "notify"
	CategoryGit     ErrorCategory = "git"
)

// Local pipeline stages.
const (
	CategoryImage      ErrorCategory = "image"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryHistory    ErrorCategory = "history"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes; anything else exits 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   4,
	CategoryAuth:       5,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategorySheets:     8,
	CategoryDrive:      8,
	CategoryNotify:     8,
	CategoryGit:        8,
	CategoryInternal:   10,
	CategoryImage:      11,
	CategoryRender:     11,
	CategoryFileSystem: 11,
	CategoryHistory:    12,
	CategoryRuntime:    12,
}

// ExitCode returns the process exit code for the category.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // the run stops
	SeverityError   ErrorSeverity = "error"   // the stage fails
	SeverityWarning ErrorSeverity = "warning" // output degraded, e.g. placeholder hero
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells the retry policy whether another attempt makes sense.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryRateLimit  RetryStrategy = "rate_limit" // HTTP 429 from Google APIs
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
