package naming

import (
	"log/slog"
	"strings"
	"unicode"
)

// Namer provides the name transformation functions used during accessor
// resolution. It handles suffix computation and pluralization.
type Namer struct {
	config Config
	logger *slog.Logger
}

// New creates a Namer with the given configuration
func New(cfg Config, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namer{
		config: cfg,
		logger: logger,
	}
}

// Default returns a Namer with default configuration
func Default() *Namer {
	return New(DefaultConfig(), nil)
}

// SuffixOptions controls suffix computation for one resource.
type SuffixOptions struct {
	// Disabled turns suffixing off entirely; generated names then equal
	// the bare catalog operation ids.
	Disabled bool
}

// SuffixFor computes the naming suffix for a schema identifier.
// Returns the empty string when suffixing is disabled, otherwise the
// identifier's lowercase snake form.
// Example: "BlogPost" -> "blog_post".
func (n *Namer) SuffixFor(schemaIdent string, opts SuffixOptions) string {
	if opts.Disabled {
		return ""
	}
	return ToSnakeCase(schemaIdent)
}

// ToSnakeCase converts an identifier to lowercase snake_case.
// Handles PascalCase, camelCase, and acronym runs.
// Example: "BlogPost" -> "blog_post", "HTTPRoute" -> "http_route".
func ToSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if r == '-' || r == ' ' || r == '.' {
			r = '_'
		}
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' &&
				(!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
