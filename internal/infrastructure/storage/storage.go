// Package storage keeps uploaded files under fixed prefixes and validates
// them against a per-prefix policy before they are written.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	PrefixResumes            = "resumes"
	PrefixAvatars            = "avatars"
	PrefixLogos              = "logos"
	PrefixPortfolio          = "portfolio"
	PrefixMessageAttachments = "message-attachments"
)

const mib int64 = 1 << 20

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrUnknownPrefix   = errors.New("unknown storage prefix")
	ErrNotFound        = errors.New("file not found")
)

// StoredFile describes an object after it was written.
type StoredFile struct {
	Path     string
	Name     string
	MimeType string
	Size     int64
}

// Object is an opened file. The caller closes Content.
type Object struct {
	Content     io.ReadCloser
	ContentType string
}

type Storage interface {
	Put(ctx context.Context, prefix, filename string, r io.Reader, size int64) (StoredFile, error)
	// Copy duplicates path under a fresh key in prefix.
	Copy(ctx context.Context, path, prefix string) (StoredFile, error)
	Open(ctx context.Context, path string) (Object, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// Backend is the raw object store underneath Storage. Read returns
// ErrNotFound for a missing key.
type Backend interface {
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) (Object, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// Policy limits what can be stored under a prefix. An empty Allowed list
// accepts any content type. Private files are only handed out through
// authorized downloads, never through the public file mount.
type Policy struct {
	MaxBytes int64
	Allowed  []string
	Private  bool
}

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

var documentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var attachmentTypes = append(append([]string{"text/plain", "text/csv"}, documentTypes...), imageTypes...)

func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		PrefixResumes:            {MaxBytes: 5 * mib, Allowed: documentTypes, Private: true},
		PrefixAvatars:            {MaxBytes: 2 * mib, Allowed: imageTypes},
		PrefixLogos:              {MaxBytes: 2 * mib, Allowed: imageTypes},
		PrefixPortfolio:          {MaxBytes: 5 * mib, Allowed: imageTypes},
		PrefixMessageAttachments: {MaxBytes: 10 * mib, Allowed: attachmentTypes, Private: true},
	}
}

// PublicPrefixes lists the prefixes that may be served without
// authorization, sorted.
func PublicPrefixes(policies map[string]Policy) []string {
	out := make([]string, 0, len(policies))
	for p, pol := range policies {
		if !pol.Private {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

type Store struct {
	backend  Backend
	policies map[string]Policy
}

func New(backend Backend, policies map[string]Policy) *Store {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Store{backend: backend, policies: policies}
}

// Put sniffs the content, checks it against the prefix policy and writes it
// under a fresh random key that keeps the detected extension.
func (s *Store) Put(ctx context.Context, prefix, filename string, r io.Reader, size int64) (StoredFile, error) {
	prefix = strings.Trim(prefix, "/")
	pol, ok := s.policies[prefix]
	if !ok {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrUnknownPrefix, prefix)
	}
	if pol.MaxBytes > 0 && size > pol.MaxBytes {
		return StoredFile{}, ErrTooLarge
	}

	limit := pol.MaxBytes
	if limit <= 0 {
		limit = 64 * mib
	}
	buf, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	if len(buf) == 0 {
		return StoredFile{}, ErrEmptyFile
	}
	if int64(len(buf)) > limit {
		return StoredFile{}, ErrTooLarge
	}

	mt := mimetype.Detect(buf)
	if !allowed(mt, pol.Allowed) {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	key := prefix + "/" + uuid.NewString() + ext
	contentType := strings.SplitN(mt.String(), ";", 2)[0]

	if err := s.backend.Write(ctx, key, bytes.NewReader(buf), int64(len(buf)), contentType); err != nil {
		return StoredFile{}, fmt.Errorf("write %s: %w", key, err)
	}

	return StoredFile{
		Path:     key,
		Name:     path.Base(filename),
		MimeType: contentType,
		Size:     int64(len(buf)),
	}, nil
}

// Copy reads path and stores it again under prefix, applying that prefix's
// policy. The source is left untouched.
func (s *Store) Copy(ctx context.Context, key, prefix string) (StoredFile, error) {
	obj, err := s.Open(ctx, key)
	if err != nil {
		return StoredFile{}, err
	}
	defer obj.Content.Close()
	return s.Put(ctx, prefix, path.Base(key), obj.Content, 0)
}

func (s *Store) Open(ctx context.Context, key string) (Object, error) {
	if strings.TrimSpace(key) == "" {
		return Object{}, ErrNotFound
	}
	return s.backend.Read(ctx, key)
}

// Delete removes path. An empty path is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return s.backend.Remove(ctx, key)
}

func (s *Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.backend.URL(key)
}

// allowed matches the detected type exactly. Parents are not consulted:
// text/html and image/svg+xml descend from text/plain.
func allowed(mt *mimetype.MIME, list []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, want := range list {
		if mt.Is(want) {
			return true
		}
	}
	return false
}

var _ Storage = (*Store)(nil)
