package api

import (
	"context"
	"encoding/json"
	"sync"
)

// StoreInfo caches the /store resource so prompts can reference the
// store's name, language and locale without refetching every turn.
type StoreInfo struct {
	client *Client

	mu     sync.Mutex
	info   map[string]interface{}
	loaded bool
}

// NewStoreInfo wraps a client with a one-entry store cache.
func NewStoreInfo(c *Client) *StoreInfo {
	return &StoreInfo{client: c}
}

// Info returns the cached store resource, fetching it on first use.
// A failed fetch caches an empty map; call Invalidate to retry.
func (s *StoreInfo) Info(ctx context.Context) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.info
	}
	raw := s.client.Get(ctx, "/store", nil)
	info := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		info = map[string]interface{}{}
	}
	s.info = info
	s.loaded = true
	return s.info
}

// Invalidate drops the cached store resource.
func (s *StoreInfo) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = nil
	s.loaded = false
}

// Language returns the store's main language code, defaulting to "es".
func (s *StoreInfo) Language(ctx context.Context) string {
	if lang, ok := s.Info(ctx)["main_language"].(string); ok && lang != "" {
		return lang
	}
	return "es"
}

// Locale returns the store's i18n locale key, e.g. "es_AR" or "pt_BR".
func (s *StoreInfo) Locale(ctx context.Context) string {
	info := s.Info(ctx)
	lang, _ := info["main_language"].(string)
	if lang == "" {
		lang = "es"
	}
	country, _ := info["country"].(string)
	if country == "" {
		return lang
	}
	return lang + "_" + country
}

// Name returns the store name in the store's main language, if known.
func (s *StoreInfo) Name(ctx context.Context) string {
	info := s.Info(ctx)
	names, ok := info["name"].(map[string]interface{})
	if !ok {
		return ""
	}
	lang, _ := info["main_language"].(string)
	if lang == "" {
		lang = "es"
	}
	if n, ok := names[lang].(string); ok {
		return n
	}
	for _, v := range names {
		if n, ok := v.(string); ok {
			return n
		}
	}
	return ""
}
