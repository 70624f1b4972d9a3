package domain

// Secret holds a credential. Every formatting path redacts the value,
// so a Secret can be logged or wrapped in errors without leaking it.
type Secret string

const redacted = "[REDACTED]"

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString implements fmt.GoStringer for %#v.
func (s Secret) GoString() string {
	return s.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reveal returns the raw value. Only HTTP transports should call it.
func (s Secret) Reveal() string {
	return string(s)
}

// IsEmpty reports whether no value is set.
func (s Secret) IsEmpty() bool {
	return s == ""
}

// Secrets holds the two bearer tokens used by a run.
type Secrets struct {
	RootlyToken Secret
	GleanToken  Secret
}

// Validate returns a ConfigError naming the first missing token.
func (s Secrets) Validate() error {
	if s.RootlyToken.IsEmpty() {
		return NewConfigError("ROOTLY_API_TOKEN", "not set")
	}
	if s.GleanToken.IsEmpty() {
		return NewConfigError("GLEAN_API_TOKEN", "not set")
	}
	return nil
}
