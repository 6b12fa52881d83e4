package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dom/auth-starter/internal/mail"
	"github.com/dom/auth-starter/internal/storage"
)

var tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9._\-]+)`)

// Mailbox is a mail.Sender that keeps every message in memory. Setting Err
// makes every Send fail with it.
type Mailbox struct {
	mu       sync.Mutex
	messages []mail.Message
	Err      error
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

func (m *Mailbox) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far
func (m *Mailbox) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

// Last returns the most recent message sent to the given address
func (m *Mailbox) Last(to string) (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if strings.EqualFold(m.messages[i].To, to) {
			return m.messages[i], true
		}
	}
	return mail.Message{}, false
}

// LastToken returns the token embedded in the link of the most recent message
// sent to the given address
func (m *Mailbox) LastToken(to string) string {
	msg, ok := m.Last(to)
	if !ok {
		return ""
	}
	match := tokenPattern.FindStringSubmatch(msg.Text)
	if match == nil {
		return ""
	}
	return match[1]
}

func (m *Mailbox) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.Err = nil
}

// MemoryStore is an in-memory object store with fake signed URLs
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]storedObject
}

type storedObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

var ErrObjectNotFound = errors.New("object not found")

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]storedObject)}
}

func (s *MemoryStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{data: buf.Bytes(), contentType: contentType, modified: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) SignedURL(ctx context.Context, key string) (string, error) {
	return "https://objects.test/" + key + "?signature=fake", nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.Object
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.Object{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Get returns the stored bytes for key
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return obj.data, nil
}

func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[string]storedObject)
}
