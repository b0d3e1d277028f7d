package dedupe

import "github.com/vortex-fintech/crmclean/contact/emailaddr"

// SeenSet tracks normalized keys already emitted during one run. It is owned
// by a single pipeline pass, grows monotonically, and is never persisted or
// shared between goroutines.
type SeenSet struct {
	seen map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Observe reports whether key is seen for the first time and records it.
// An empty key never counts as new: it cannot identify a contact.
func (s *SeenSet) Observe(key string) bool {
	if key == "" {
		return false
	}
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *SeenSet) Len() int { return len(s.seen) }

// Suppressor answers whether a key appears in a master list.
type Suppressor struct {
	keys map[string]struct{}
}

// NewSuppressor normalizes every master key the same way the pipeline
// normalizes emails, so "A@B.com" in the master suppresses "a@b.com".
func NewSuppressor(masterKeys []string) *Suppressor {
	keys := make(map[string]struct{}, len(masterKeys))
	for _, k := range masterKeys {
		k = emailaddr.Normalize(k)
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	return &Suppressor{keys: keys}
}

// Suppressed reports whether key should be dropped. Rows with empty keys
// carry no usable contact and are suppressed too.
func (s *Suppressor) Suppressed(key string) bool {
	key = emailaddr.Normalize(key)
	if key == "" {
		return true
	}
	_, ok := s.keys[key]
	return ok
}

func (s *Suppressor) Len() int { return len(s.keys) }
