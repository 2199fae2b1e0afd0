package messages

import (
	_ "embed"
	"fmt"

	"voucherbot/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var catalogYAML []byte

// Catalog holds the bot's copy per language
type Catalog struct {
	texts map[domain.Language]map[string]string
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse builds a catalog from YAML keyed by language code
func Parse(data []byte) (*Catalog, error) {
	var texts map[domain.Language]map[string]string
	if err := yaml.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog: %w", err)
	}
	if _, ok := texts[domain.LangENG]; !ok {
		return nil, fmt.Errorf("message catalog has no %s section", domain.LangENG)
	}
	for lang := range texts {
		if !lang.Valid() {
			return nil, fmt.Errorf("message catalog has unknown language %q", lang)
		}
	}
	return &Catalog{texts: texts}, nil
}

// Text returns the copy for key in lang, falling back to English.
// Args are applied with fmt.Sprintf when present.
func (c *Catalog) Text(lang domain.Language, key string, args ...interface{}) string {
	text, ok := c.texts[lang][key]
	if !ok {
		text, ok = c.texts[domain.LangENG][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Keys returns the keys defined for lang
func (c *Catalog) Keys(lang domain.Language) []string {
	keys := make([]string, 0, len(c.texts[lang]))
	for k := range c.texts[lang] {
		keys = append(keys, k)
	}
	return keys
}
