package document

import (
	"bytes"
	"context"
	"encoding/base64"
	defError "errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/storage"
	"compliance-portal/internal/store"
	"compliance-portal/internal/utils"
	"compliance-portal/internal/worker"
	"compliance-portal/redis"

	"gorm.io/gorm"
)

// ListVersionKey versions the cached list pages. Bumping it orphans every cached page.
const ListVersionKey = "docs:version"

const (
	listCacheTTL   = 24 * time.Hour
	downloadExpiry = 15 * time.Minute
)

type Service interface {
	ListDocuments(ctx context.Context, query ListQuery, page, pageSize int) (*PaginatedDocuments, error)
	Upload(ctx context.Context, uploader *domain.Session, upload Upload) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*DocumentResponse, error)
	DeleteDocument(ctx context.Context, id string) error
	RecentDocuments(ctx context.Context, limit int) ([]domain.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// Notifier tells users of a role that something happened.
type Notifier interface {
	NotifyRole(ctx context.Context, role domain.Role, title, message string, kind domain.NotificationType) error
}

// TaskRunner runs work off the request path.
type TaskRunner interface {
	Submit(name string, task worker.Task) bool
}

// Upload is one file received by the vault.
type Upload struct {
	Name        string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PaginatedDocuments struct {
	Data []domain.Document `json:"data"`
	Meta utils.PageMeta    `json:"meta"`
}

type DocumentResponse struct {
	domain.Document
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type DefaultService struct {
	repository DocumentRepository
	objects    storage.ObjectStore
	cache      *redis.Cache
	tasks      TaskRunner
	notifier   Notifier
	now        func() time.Time
}

// NewService wires the document vault. objects may be nil, payloads are then
// kept inline in the record.
func NewService(
	repository DocumentRepository,
	objects storage.ObjectStore,
	cache *redis.Cache,
	tasks TaskRunner,
	notifier Notifier,
) *DefaultService {
	return &DefaultService{
		repository: repository,
		objects:    objects,
		cache:      cache,
		tasks:      tasks,
		notifier:   notifier,
		now:        time.Now,
	}
}

func (s *DefaultService) ListDocuments(ctx context.Context, query ListQuery, page, pageSize int) (*PaginatedDocuments, error) {
	// Get the current data version for the vault
	v := s.cache.GetVersion(ctx, ListVersionKey)
	cacheKey := listCacheKey(v, query, page, pageSize)

	var result PaginatedDocuments
	// get data from cache
	if found, _ := s.cache.Get(ctx, cacheKey, &result); found {
		return &result, nil
	}

	documents, meta, err := s.repository.List(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}
	if documents == nil {
		documents = []domain.Document{}
	}
	result = PaginatedDocuments{Data: documents, Meta: meta}

	if err := s.cache.Set(ctx, cacheKey, result, listCacheTTL); err != nil {
		utils.Logger(ctx).Warn("document list cache write failed", "error", err)
	}
	return &result, nil
}

// listCacheKey escapes the free-text parts so no search or type can spill into
// another field of the key.
func listCacheKey(version int64, query ListQuery, page, pageSize int) string {
	return fmt.Sprintf("docs:v:%d:q:%s:t:%s:p:%d:ps:%d",
		version, url.QueryEscape(query.Search), url.QueryEscape(query.Type), page, pageSize)
}

// InvalidateListCache returns a hook that drops cached list pages whenever the
// documents collection is replaced wholesale.
func InvalidateListCache(cache *redis.Cache) store.ReplaceHook {
	return func(ctx context.Context, key store.Key) {
		if key == store.KeyDocuments {
			cache.IncrementVersion(ctx, ListVersionKey)
		}
	}
}

// Upload stores the payload and records the document as uploaded by the caller.
func (s *DefaultService) Upload(ctx context.Context, uploader *domain.Session, upload Upload) (*domain.Document, error) {
	if upload.Name == "" {
		return nil, errors.UnprocessableEntity("Document name is required", nil)
	}
	if upload.Body == nil {
		return nil, errors.UnprocessableEntity("File is required", nil)
	}

	doc := &domain.Document{
		ID:         store.NewID(),
		Name:       upload.Name,
		Type:       ContentType(upload.ContentType, upload.FileName),
		SizeBytes:  upload.Size,
		UploadedAt: s.now().UTC(),
		UploadedBy: uploader.UserID,
		Version:    1,
	}
	doc.Size = FormatSize(doc.SizeBytes)

	if s.objects != nil {
		key := storage.DocumentKey(doc.ID, upload.FileName)
		if err := s.objects.Put(ctx, key, upload.Body, upload.Size, doc.Type); err != nil {
			return nil, err
		}
		doc.StorageKey = key
		doc.Content = key
	} else {
		var buf bytes.Buffer
		n, err := io.Copy(&buf, upload.Body)
		if err != nil {
			return nil, errors.BadRequest("Could not read file", err)
		}
		doc.SizeBytes = n
		doc.Size = FormatSize(n)
		doc.Content = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	if err := s.repository.Create(ctx, doc); err != nil {
		if doc.StorageKey != "" {
			s.removeObject(doc.StorageKey)
		}
		return nil, err
	}
	// increase cache key, so any new fetch will get new version
	s.cache.IncrementVersion(ctx, ListVersionKey)

	s.notifyCounterparts(uploader, doc)
	return doc, nil
}

func (s *DefaultService) notifyCounterparts(uploader *domain.Session, doc *domain.Document) {
	if s.notifier == nil || s.tasks == nil {
		return
	}
	target, message := domain.RoleCA, "A client uploaded "+doc.Name
	if uploader.Is(domain.RoleCA) {
		target, message = domain.RoleSME, "Your CA has uploaded "+doc.Name
	}
	s.tasks.Submit("document.notify", func(ctx context.Context) error {
		return s.notifier.NotifyRole(ctx, target, "Document Uploaded", message, domain.NotificationInfo)
	})
}

func (s *DefaultService) GetDocument(ctx context.Context, id string) (*DocumentResponse, error) {
	doc, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}

	resp := &DocumentResponse{Document: *doc}
	if doc.StorageKey != "" && s.objects != nil {
		link, err := s.objects.PresignGet(ctx, doc.StorageKey, downloadExpiry)
		if err != nil {
			utils.Logger(ctx).Warn("presign failed", "document_id", doc.ID, "error", err)
		} else {
			resp.DownloadURL = link
		}
	}
	return resp, nil
}

// DeleteDocument removes exactly the document with id. Any user may delete any document.
func (s *DefaultService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Document not found", err)
		}
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Document not found", err)
		}
		return err
	}
	// increase cache key, so any new fetch will get new version
	s.cache.IncrementVersion(ctx, ListVersionKey)

	if doc.StorageKey != "" {
		s.removeObject(doc.StorageKey)
	}
	return nil
}

func (s *DefaultService) removeObject(key string) {
	if s.objects == nil || s.tasks == nil {
		return
	}
	s.tasks.Submit("document.remove_object", func(ctx context.Context) error {
		return s.objects.Delete(ctx, key)
	})
}

func (s *DefaultService) RecentDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	return s.repository.Recent(ctx, limit)
}

func (s *DefaultService) CountDocuments(ctx context.Context) (int64, error) {
	return s.repository.Count(ctx)
}
