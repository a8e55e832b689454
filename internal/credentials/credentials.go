// Package credentials holds the API keys the provider clients send.
package credentials

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"bubbledash/internal/provider"
)

// ErrUnknownProvider is returned by SetKey for names the store does not
// manage.
var ErrUnknownProvider = errors.New("unknown provider")

var sentinels = map[string]string{
	provider.AlphaVantage: "YOUR_ALPHA_VANTAGE_KEY",
	provider.NewsData:     "YOUR_NEWSDATA_KEY",
}

// Providers lists the managed provider names in a stable order.
func Providers() []string {
	return []string{provider.AlphaVantage, provider.NewsData}
}

// Sentinel returns the placeholder GetKey reports for a provider with no
// key. Unknown names get YOUR_<UPPER_SNAKE>_KEY.
func Sentinel(name string) string {
	if s, ok := sentinels[name]; ok {
		return s
	}
	return "YOUR_" + upperSnake(name) + "_KEY"
}

// SettingKey is the persisted-settings key for a provider's API key, e.g.
// "alphaVantageKey".
func SettingKey(name string) string {
	return name + "Key"
}

// Store is an in-memory map of provider name to API key. It is safe for
// concurrent use; clients read it on every request.
type Store struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewStore returns a Store with no keys configured.
func NewStore() *Store {
	return &Store{keys: make(map[string]string, len(sentinels))}
}

// SetKey replaces the key for name. The value is not validated; an empty
// value clears the key.
func (s *Store) SetKey(name, value string) error {
	if _, ok := sentinels[name]; !ok {
		return fmt.Errorf("set key %q: %w", name, ErrUnknownProvider)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.keys, name)
		return nil
	}
	s.keys[name] = value
	return nil
}

// GetKey returns the key for name, or its sentinel when none is set.
func (s *Store) GetKey(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.keys[name]; ok {
		return v
	}
	return Sentinel(name)
}

// Configured reports whether name has a real key, i.e. one that differs
// from its sentinel.
func (s *Store) Configured(name string) bool {
	v := s.GetKey(name)
	return v != "" && v != Sentinel(name)
}

// Source returns a function reading the current key for name, suitable as a
// client key source.
func (s *Store) Source(name string) func() string {
	return func() string { return s.GetKey(name) }
}

// Mask hides all but the last four characters of a key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func upperSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		if r == '-' || r == ' ' || r == '.' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
