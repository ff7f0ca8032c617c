package languages

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnknownCode is returned by Resolve when a code is not in the catalog.
var ErrUnknownCode = errors.New("unknown language code")

//go:embed languages.json
var embeddedTable []byte

// Language is a single catalog entry.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog is the read-only table of languages supported by the provider.
// It is loaded once at startup and passed to the components that need it.
type Catalog struct {
	entries []Language
	byCode  map[string]int
	// folded maps a lowercased code to its index so user input can be
	// matched case-insensitively.
	folded map[string]int
	// pattern is CodesPattern compiled once for Resolve.
	pattern *regexp.Regexp
}

// Default loads the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(embeddedTable)
}

// Load parses a JSON array of {"code", "name"} objects.
// Entries keep the order in which they appear in the array.
func Load(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("language table is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("language table must be a JSON array, got %s", root.Type)
	}

	var (
		entries []Language
		loadErr error
	)
	root.ForEach(func(_, value gjson.Result) bool {
		code := strings.TrimSpace(value.Get("code").String())
		if code == "" {
			loadErr = fmt.Errorf("language entry %d has no code", len(entries))
			return false
		}
		entries = append(entries, Language{
			Code: code,
			Name: value.Get("name").String(),
		})
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Code] {
			return nil, fmt.Errorf("duplicate language code %q", e.Code)
		}
		seen[e.Code] = true
	}

	return New(entries), nil
}

// New builds a catalog from entries. Callers must not pass duplicate codes.
func New(entries []Language) *Catalog {
	c := &Catalog{
		entries: make([]Language, len(entries)),
		byCode:  make(map[string]int, len(entries)),
		folded:  make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		c.byCode[e.Code] = i
		c.folded[strings.ToLower(e.Code)] = i
	}
	c.pattern = c.CodesPattern()
	return c
}

// Len returns the number of languages in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry whose code matches exactly.
func (c *Catalog) Lookup(code string) (Language, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Language{}, false
	}
	return c.entries[i], true
}

// CodesPattern returns an anchored, case-insensitive pattern matching exactly
// the codes currently in the catalog. Each call compiles a new pattern.
func (c *Catalog) CodesPattern() *regexp.Regexp {
	if len(c.entries) == 0 {
		// matches nothing
		return regexp.MustCompile(`^[^\x00-\x{10FFFF}]$`)
	}
	quoted := make([]string, len(c.entries))
	for i, e := range c.entries {
		quoted[i] = regexp.QuoteMeta(e.Code)
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)$`)
}

// Listing returns all entries in table order.
func (c *Catalog) Listing() []Language {
	out := make([]Language, len(c.entries))
	copy(out, c.entries)
	return out
}

// Resolve validates a user supplied code and returns the matching entry.
// Matching is case-insensitive. When the full code is unknown, the base
// language subtag is tried instead:
//   - "EN"    -> "en"
//   - "zh-cn" -> "zh-CN"
//   - "en-US" -> "en"
func (c *Catalog) Resolve(code string) (Language, error) {
	code = strings.TrimSpace(code)
	pattern := c.pattern

	if !pattern.MatchString(code) {
		base := code
		if idx := strings.IndexAny(base, "-_"); idx > 0 {
			base = base[:idx]
		}
		if base == code || !pattern.MatchString(base) {
			return Language{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
		}
		code = base
	}

	return c.entries[c.folded[strings.ToLower(code)]], nil
}
