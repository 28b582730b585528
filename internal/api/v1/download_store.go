package v1

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type downloadItem struct {
	filePath    string
	filename    string
	contentType string
	expiresAt   time.Time
}

// downloadStore 一次性下载令牌：转换产物落在临时目录，
// 通过短时令牌取走一次后即删除。
type downloadStore struct {
	mu    sync.Mutex
	items map[string]downloadItem
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]downloadItem),
	}
}

func (s *downloadStore) put(filePath, filename, contentType string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = downloadItem{
		filePath:    filePath,
		filename:    filename,
		contentType: contentType,
		expiresAt:   time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (downloadItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return downloadItem{}, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return downloadItem{}, false
	}
	return v, true
}

func (s *downloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
