package tui

// OutputFormat controls how Renderer serialises a view.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human readable summary.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the field values as JSON.
	OutputFormatJSON OutputFormat = "json"
)

// Theme holds the message prefixes used by sessions and the text renderer.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "! "}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithMaxAttempts bounds how often a field is asked again after a rejected
// answer. Zero keeps the default.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithConfirmSubmit asks message before every submission. Declining aborts
// the run with ErrAborted.
func WithConfirmSubmit(message string) Option {
	return func(s *Session) {
		s.confirmSubmit = message
	}
}
