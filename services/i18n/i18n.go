package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var fs embed.FS

// translations stores flattened keys: "en" -> "live.connected" -> "Connected to real-time updates"
var (
	translations = make(map[string]map[string]string)
	mutex        sync.RWMutex
	defaultLang  = "en"
)

// Load initializes the translations from the embedded JSON files.
// It searches for any .json file in the locales directory (embedded) and loads it.
// Incomplete catalogs are not an error, see Missing.
func Load() error {
	mutex.Lock()
	defer mutex.Unlock()

	entries, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			lang := strings.TrimSuffix(entry.Name(), ".json")
			content, err := fs.ReadFile(entry.Name())
			if err != nil {
				return fmt.Errorf("failed to read locale file %s: %w", entry.Name(), err)
			}

			var result map[string]interface{}
			if err := json.Unmarshal(content, &result); err != nil {
				return fmt.Errorf("failed to unmarshal locale %s: %w", entry.Name(), err)
			}

			flat := make(map[string]string)
			flatten("", result, flat)
			translations[lang] = flat
		}
	}

	return nil
}

// Missing reports, per loaded locale, the keys that fall back to the default
// language. Locales with a complete catalog are left out.
func Missing() map[string][]string {
	mutex.RLock()
	defer mutex.RUnlock()

	out := make(map[string][]string)
	for lang := range translations {
		if missing := missingKeys(lang); len(missing) > 0 {
			out[lang] = missing
		}
	}
	return out
}

// Languages returns the loaded locale codes
func Languages() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// missingKeys lists default-language keys absent from lang. Caller holds the lock.
func missingKeys(lang string) []string {
	var missing []string
	for key := range translations[defaultLang] {
		if _, ok := translations[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// flatten recursively flattens a nested map into dot-notation keys.
func flatten(prefix string, nested map[string]interface{}, result map[string]string) {
	for k, v := range nested {
		newKey := k
		if prefix != "" {
			newKey = prefix + "." + k
		}

		switch child := v.(type) {
		case map[string]interface{}:
			flatten(newKey, child, result)
		case string:
			result[newKey] = child
		default:
			// Fallback for types not strictly string (e.g. numbers in json), convert to string
			result[newKey] = fmt.Sprintf("%v", child)
		}
	}
}

// T retrieves a translation for the given key using the language from the context.
// If the key is missing in the target language, it falls back to the default language,
// and then to the key itself.
// Supports simple named variable replacement {name} if args are provided (map[string]interface{}).
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	lang := GetLocale(ctx)
	return Translate(lang, key, args...)
}

// Translate retrieves a translation for a specific language code.
func Translate(lang, key string, args ...map[string]interface{}) string {
	mutex.RLock()
	defer mutex.RUnlock()

	// 1. Try requested language
	if trans, ok := translations[lang]; ok {
		if val, ok := trans[key]; ok {
			return format(val, args...)
		}
	}

	// 2. Try default language if different
	if lang != defaultLang {
		if trans, ok := translations[defaultLang]; ok {
			if val, ok := trans[key]; ok {
				return format(val, args...)
			}
		}
	}

	// 3. Fallback to key
	return key
}

// format replaces {var} placeholders with values from args if present.
func format(text string, args ...map[string]interface{}) string {
	if len(args) == 0 {
		return text
	}

	// Simple replacement for {key}
	vars := args[0]
	for k, v := range vars {
		placeholder := "{" + k + "}"
		valStr := fmt.Sprintf("%v", v)
		text = strings.ReplaceAll(text, placeholder, valStr)
	}
	return text
}

// Keys for context storage
type contextKey string

const LocaleContextKey contextKey = "locale"

// GetLocale extracts the locale from the context, defaulting to "en".
// The preview server stores the configured locale under LocaleContextKey.
func GetLocale(ctx context.Context) string {
	if val := ctx.Value(LocaleContextKey); val != nil {
		if str, ok := val.(string); ok && str != "" {
			return str
		}
	}
	return defaultLang
}

// WithLocale returns a context carrying lang
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LocaleContextKey, lang)
}
