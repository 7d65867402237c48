package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/addisnest/api/internal/domain"
	pkgtoken "github.com/addisnest/api/internal/pkg/token"
)

// PublicPrefix is the URL path under which stored uploads are served.
const PublicPrefix = "/uploads/"

const filenameSaltMax = 1_000_000_000

type UploadInput struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	UploaderID   string
}

// Storage persists upload bytes under a generated bare file name.
type Storage interface {
	Save(ctx context.Context, filename string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// FileRecorder keeps upload metadata. Optional.
type FileRecorder interface {
	Put(ctx context.Context, f *domain.UploadedFile) error
}

type Service interface {
	Upload(ctx context.Context, inputs []UploadInput) ([]domain.UploadedFile, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

type ServiceDeps struct {
	Storage  Storage
	Recorder FileRecorder
	Now      func() time.Time
}

type service struct {
	storage  Storage
	recorder FileRecorder
	now      func() time.Time
}

func NewService(d ServiceDeps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{storage: d.Storage, recorder: d.Recorder, now: now}
}

// Upload stores every input in order. All content types are checked before
// the first byte is written, so a rejected batch leaves nothing behind. A
// storage failure aborts the batch; files written before it are kept.
func (s *service) Upload(ctx context.Context, inputs []UploadInput) ([]domain.UploadedFile, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoFilesProvided
	}
	for _, in := range inputs {
		if !isImage(in.ContentType) {
			return nil, fmt.Errorf("%s (%s): %w", in.OriginalName, in.ContentType, domain.ErrInvalidFileType)
		}
	}

	out := make([]domain.UploadedFile, 0, len(inputs))
	for _, in := range inputs {
		f, err := s.store(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

func (s *service) store(ctx context.Context, in UploadInput) (*domain.UploadedFile, error) {
	name, err := s.generateName(in.OriginalName)
	if err != nil {
		return nil, err
	}
	hasher := sha256.New()
	cr := &countingReader{r: io.TeeReader(in.Reader, hasher)}
	loc, err := s.storage.Save(ctx, name, cr, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("save %s: %v: %w", name, err, domain.ErrStorage)
	}
	f := &domain.UploadedFile{
		Filename:     name,
		OriginalName: in.OriginalName,
		MimeType:     in.ContentType,
		Size:         cr.n,
		StoragePath:  loc,
		URL:          PublicPrefix + name,
		Hash:         hex.EncodeToString(hasher.Sum(nil)),
		UploaderID:   in.UploaderID,
		CreatedAt:    s.now().UTC(),
	}
	if s.recorder != nil {
		if err := s.recorder.Put(ctx, f); err != nil {
			slog.Warn("record upload metadata", "filename", name, "err", err)
		}
	}
	return f, nil
}

func (s *service) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	if filename == "" || sanitizeFilename(filename) != filename {
		return nil, fmt.Errorf("upload %s: %w", filename, domain.ErrNotFound)
	}
	return s.storage.Open(ctx, filename)
}

// generateName builds {unixMillis}-{random 0..1e9}-{originalName}. Names are
// not checked for collisions against existing files.
func (s *service) generateName(original string) (string, error) {
	salt, err := pkgtoken.Intn(filenameSaltMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d-%s", s.now().UnixMilli(), salt, sanitizeFilename(original)), nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) so the name cannot leave the upload
// directory.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
