package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orbitads/orbit/backend/internal/account"
	"github.com/orbitads/orbit/backend/internal/apperrors"
	"github.com/orbitads/orbit/backend/internal/cache"
	"github.com/orbitads/orbit/backend/internal/events"
	"github.com/orbitads/orbit/backend/internal/logger"
	"github.com/orbitads/orbit/backend/internal/media/progress"
	"github.com/orbitads/orbit/backend/internal/media/tempfile"
	"github.com/orbitads/orbit/backend/internal/storage"
)

// terminalCloseDelay gives the subscriber time to drain the terminal
// event before the session registration is discarded
const terminalCloseDelay = time.Second

// Service drives one upload through validation, optional transcoding and
// storage, and owns the reverse deletion flow
type Service struct {
	repo       Repository
	accounts   account.Repository
	store      storage.ObjectStore
	transcoder Transcoder
	workspace  tempfile.Workspace
	progress   ProgressPublisher
	events     events.Producer
	cache      cache.Service
	config     *Config
	logger     logger.Logger

	// transcodeSem bounds concurrent transcodes; uploads themselves are
	// never queued behind it
	transcodeSem chan struct{}
}

// NewService creates a new ingestion service
func NewService(
	repo Repository,
	accounts account.Repository,
	store storage.ObjectStore,
	transcoder Transcoder,
	workspace tempfile.Workspace,
	progressPub ProgressPublisher,
	producer events.Producer,
	cacheSvc cache.Service,
	config *Config,
	log logger.Logger,
) *Service {
	slots := config.MaxConcurrentTranscodes
	if slots <= 0 {
		slots = 2
	}
	return &Service{
		repo:         repo,
		accounts:     accounts,
		store:        store,
		transcoder:   transcoder,
		workspace:    workspace,
		progress:     progressPub,
		events:       producer,
		cache:        cacheSvc,
		config:       config,
		logger:       log,
		transcodeSem: make(chan struct{}, slots),
	}
}

// ProgressReader wraps an io.Reader to track read progress
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       int64
	onProgress func(bytesRead, totalBytes int64)
}

// NewProgressReader creates a reader that reports cumulative bytes read
func NewProgressReader(reader io.Reader, total int64, onProgress func(bytesRead, totalBytes int64)) *ProgressReader {
	return &ProgressReader{
		reader:     reader,
		total:      total,
		onProgress: onProgress,
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)
	if pr.onProgress != nil {
		pr.onProgress(pr.read, pr.total)
	}
	return n, err
}

// Ingest runs the full pipeline for one upload: validate, stage, derive
// preview and thumbnail for video inputs, store the original, persist the
// asset record. Transcode failures are non-fatal; a failed original
// upload aborts the session.
func (s *Service) Ingest(ctx context.Context, file io.Reader, req *UploadRequest) (*Asset, error) {
	if err := s.ValidateUpload(req); err != nil {
		return nil, err
	}

	// Resolve key tokens up front: a missing user or brand is fatal
	// before any bytes move
	user, err := s.accounts.GetUser(req.UserID)
	if err != nil {
		return nil, err
	}
	brand, err := s.accounts.GetBrand(req.BrandID)
	if err != nil {
		return nil, err
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	sid := req.SessionID

	s.publish(sid, progress.StageProcessing, 0, "Upload received")

	localPath, err := s.stageUpload(file, req)
	if err != nil {
		return nil, s.fail(sid, fmt.Errorf("failed to stage upload: %w", err))
	}
	defer s.workspace.Remove(localPath)

	s.publish(sid, progress.StageProcessing, 100, "File staged")

	var previewKey, thumbKey string
	if isVideo(req.ContentType) {
		previewKey, thumbKey = s.runTranscodes(ctx, localPath, user, brand, req)
	}

	originalKey, err := s.uploadOriginal(ctx, localPath, user, brand, req)
	if err != nil {
		// A stored derivative without its original is useless; undo
		s.deleteObject(ctx, previewKey)
		s.deleteObject(ctx, thumbKey)
		return nil, s.fail(sid, err)
	}

	asset := &Asset{
		UserID:           req.UserID,
		BrandID:          req.BrandID,
		EstimateID:       req.EstimateID,
		OriginalFilename: req.Filename,
		ContentType:      req.ContentType,
		Size:             req.Size,
		OriginalKey:      originalKey,
		PreviewKey:       optionalKey(previewKey),
		ThumbnailKey:     optionalKey(thumbKey),
		Status:           AssetStatusPending,
	}

	if err := s.repo.Create(asset); err != nil {
		s.deleteObject(ctx, originalKey)
		s.deleteObject(ctx, previewKey)
		s.deleteObject(ctx, thumbKey)
		return nil, s.fail(sid, fmt.Errorf("failed to create asset record: %w", err))
	}

	s.publish(sid, progress.StageComplete, 100, "Upload complete")
	s.progress.CloseAfter(sid, terminalCloseDelay)

	s.emitEvent(ctx, &events.AssetEvent{
		Type:         events.TypeAssetUploaded,
		AssetID:      asset.ID,
		UserID:       asset.UserID,
		BrandID:      asset.BrandID,
		OriginalKey:  asset.OriginalKey,
		PreviewKey:   previewKey,
		ThumbnailKey: thumbKey,
		Size:         asset.Size,
		ContentType:  asset.ContentType,
		OccurredAt:   time.Now().UTC(),
	})

	s.logger.LogInfo("Asset ingested", map[string]interface{}{
		"assetId":        asset.ID,
		"sessionId":      sid,
		"originalKey":    originalKey,
		"hasDerivatives": asset.HasDerivatives(),
	})

	return asset, nil
}

// stageUpload streams the payload into the workspace; the payload is
// never buffered in memory
func (s *Service) stageUpload(file io.Reader, req *UploadRequest) (string, error) {
	localPath := s.workspace.Create(filepath.Ext(req.Filename))

	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		s.workspace.Remove(localPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		s.workspace.Remove(localPath)
		return "", err
	}

	return localPath, nil
}

// runTranscodes drives the preview and thumbnail jobs sequentially. On
// any failure it returns empty keys and the pipeline continues: the
// terminal state carries both derivatives or neither.
func (s *Service) runTranscodes(ctx context.Context, sourcePath string, user *account.User, brand *account.Brand, req *UploadRequest) (string, string) {
	select {
	case s.transcodeSem <- struct{}{}:
		defer func() { <-s.transcodeSem }()
	case <-ctx.Done():
		return "", ""
	}

	previewKey, err := s.runPreviewJob(ctx, sourcePath, user, brand, req)
	if err != nil {
		s.logger.LogError(err, "Preview generation failed, continuing without derivatives")
		return "", ""
	}

	thumbKey, err := s.runThumbnailJob(ctx, sourcePath, user, brand, req)
	if err != nil {
		s.logger.LogError(err, "Thumbnail generation failed, discarding preview")
		// A lone preview is not a valid terminal state
		s.deleteObject(ctx, previewKey)
		return "", ""
	}

	return previewKey, thumbKey
}

// runPreviewJob generates and stores the low-resolution preview clip.
// The job works on its own staged copy of the source: the upload step
// deletes whatever local file it is handed, and the source is still
// needed by the thumbnail job and the original upload.
func (s *Service) runPreviewJob(ctx context.Context, sourcePath string, user *account.User, brand *account.Brand, req *UploadRequest) (string, error) {
	staged, err := s.workspace.Stage(sourcePath)
	if err != nil {
		return "", apperrors.NewTranscodeError("preview", "failed to stage source", err)
	}
	defer s.workspace.Remove(staged)

	output := s.workspace.Create(".mp4")
	defer s.workspace.Remove(output)

	sid := req.SessionID
	s.publish(sid, progress.StagePreview, 0, "Generating preview")

	last := 0
	err = s.transcoder.GeneratePreview(ctx, staged, output, func(percent int) {
		if percent < last {
			return
		}
		last = percent
		s.publish(sid, progress.StagePreview, percent, "Generating preview")
	})
	if err != nil {
		return "", apperrors.NewTranscodeError("preview", "transcode failed", err)
	}

	key := storage.ObjectKey(s.config.Namespace, user.Email, brand.Name,
		derivativeName(req.Filename, ".mp4"), true, time.Now())

	if err := s.uploadArtifact(ctx, output, key, "video/mp4", req); err != nil {
		return "", apperrors.NewTranscodeError("preview", "failed to store preview", err)
	}

	return key, nil
}

// runThumbnailJob extracts and stores the still-frame thumbnail. It
// publishes no intermediate percentages: 0 at start, 100 once the frame
// is extracted, and 100 again when the image is durably stored.
func (s *Service) runThumbnailJob(ctx context.Context, sourcePath string, user *account.User, brand *account.Brand, req *UploadRequest) (string, error) {
	staged, err := s.workspace.Stage(sourcePath)
	if err != nil {
		return "", apperrors.NewTranscodeError("thumbnail", "failed to stage source", err)
	}
	defer s.workspace.Remove(staged)

	output := s.workspace.Create(".jpg")
	defer s.workspace.Remove(output)

	sid := req.SessionID
	s.publish(sid, progress.StageThumbnail, 0, "Extracting thumbnail")

	if err := s.transcoder.GenerateThumbnail(ctx, staged, output); err != nil {
		return "", apperrors.NewTranscodeError("thumbnail", "extraction failed", err)
	}

	s.publish(sid, progress.StageThumbnail, 100, "Thumbnail extracted")

	key := storage.ObjectKey(s.config.Namespace, user.Email, brand.Name,
		derivativeName(req.Filename, ".jpg"), true, time.Now())

	if err := s.uploadArtifact(ctx, output, key, "image/jpeg", req); err != nil {
		return "", apperrors.NewTranscodeError("thumbnail", "failed to store thumbnail", err)
	}

	s.publish(sid, progress.StageThumbnail, 100, "Thumbnail stored")

	return key, nil
}

// uploadArtifact streams a derivative file into storage with the preview
// flag set
func (s *Service) uploadArtifact(ctx context.Context, path, key, contentType string, req *UploadRequest) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = s.store.Put(ctx, f, info.Size(), key, contentType, s.objectMetadata(req, true))
	return err
}

// uploadOriginal streams the original payload into storage, reporting
// per-byte progress on the uploading stage. Its failure is fatal to the
// session.
func (s *Service) uploadOriginal(ctx context.Context, path string, user *account.User, brand *account.Brand, req *UploadRequest) (string, error) {
	key := storage.ObjectKey(s.config.Namespace, user.Email, brand.Name, req.Filename, false, time.Now())

	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.NewStorageUploadError(key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperrors.NewStorageUploadError(key, err)
	}

	sid := req.SessionID
	s.publish(sid, progress.StageUploading, 0, "Uploading original")

	last := 0
	reader := NewProgressReader(f, info.Size(), func(read, total int64) {
		if total <= 0 {
			return
		}
		pct := int(float64(read) / float64(total) * 100)
		if pct > 100 {
			pct = 100
		}
		if pct <= last {
			return
		}
		last = pct
		s.publish(sid, progress.StageUploading, pct, "Uploading original")
	})

	if _, err := s.store.Put(ctx, reader, info.Size(), key, req.ContentType, s.objectMetadata(req, false)); err != nil {
		return "", err
	}

	if last < 100 {
		s.publish(sid, progress.StageUploading, 100, "Uploading original")
	}

	return key, nil
}

// Delete removes the asset record first, then best-effort deletes its
// storage objects. Storage failures are logged and never fail the call.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := s.repo.Get(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.deleteObject(ctx, asset.OriginalKey)
	if asset.PreviewKey != nil {
		s.deleteObject(ctx, *asset.PreviewKey)
	}
	if asset.ThumbnailKey != nil {
		s.deleteObject(ctx, *asset.ThumbnailKey)
	}

	if s.cache != nil {
		for _, artifact := range []ArtifactType{ArtifactOriginal, ArtifactPreview, ArtifactThumbnail} {
			if err := s.cache.Delete(ctx, urlCacheKey(id, artifact)); err != nil {
				s.logger.LogDebug("Failed to drop cached URL", map[string]interface{}{
					"assetId":  id,
					"artifact": artifact,
				})
			}
		}
	}

	s.emitEvent(ctx, &events.AssetEvent{
		Type:       events.TypeAssetDeleted,
		AssetID:    asset.ID,
		UserID:     asset.UserID,
		BrandID:    asset.BrandID,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.LogInfo("Asset deleted", map[string]interface{}{"assetId": id})
	return nil
}

// Get returns one asset record
func (s *Service) Get(id uuid.UUID) (*Asset, error) {
	return s.repo.Get(id)
}

// ListByBrand returns a brand's assets, newest first
func (s *Service) ListByBrand(brandID uuid.UUID) ([]Asset, error) {
	return s.repo.ListByBrand(brandID)
}

// SignedURL returns a time-limited read URL for one of an asset's
// artifacts, served from cache when a live URL is still available
func (s *Service) SignedURL(ctx context.Context, id uuid.UUID, artifact ArtifactType) (*SignedURLResponse, error) {
	asset, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	key := artifactKey(asset, artifact)
	if key == "" {
		return nil, apperrors.NewNotFoundError(string(artifact), id.String())
	}

	ttl := s.config.SignedURLTTL
	resp := &SignedURLResponse{Artifact: artifact, ExpiresIn: int(ttl.Seconds())}

	cacheKey := urlCacheKey(id, artifact)
	if s.cache != nil {
		url, err := s.cache.Get(ctx, cacheKey)
		if err == nil && url != "" {
			resp.URL = url
			return resp, nil
		}
		if err != nil && !cache.IsMiss(err) {
			s.logger.LogDebug("Signed URL cache lookup failed", map[string]interface{}{
				"assetId":  id,
				"artifact": artifact,
			})
		}
	}

	url, err := s.store.Presign(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	resp.URL = url

	// Cached URLs must expire before the signature does
	if s.cache != nil && ttl > 2*time.Minute {
		if err := s.cache.Set(ctx, cacheKey, url, ttl-time.Minute); err != nil {
			s.logger.LogDebug("Failed to cache signed URL", map[string]interface{}{
				"assetId":  id,
				"artifact": artifact,
			})
		}
	}

	return resp, nil
}

// publish sends a progress event for sid
func (s *Service) publish(sid, stage string, pct int, msg string) {
	s.progress.Publish(sid, progress.Event{Stage: stage, Progress: pct, Message: msg})
}

// fail publishes the terminal error event and schedules session teardown
func (s *Service) fail(sid string, err error) error {
	s.publish(sid, progress.StageError, 0, err.Error())
	s.progress.CloseAfter(sid, terminalCloseDelay)
	return err
}

// deleteObject best-effort deletes one storage object; failures are
// logged and swallowed
func (s *Service) deleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.LogError(err, "Failed to delete storage object")
	}
}

// emitEvent best-effort publishes an asset lifecycle event
func (s *Service) emitEvent(ctx context.Context, event *events.AssetEvent) {
	if s.events == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.Publish(publishCtx, event); err != nil {
		s.logger.LogError(err, "Failed to publish asset event")
	}
}

// objectMetadata builds the metadata map stored with every object
func (s *Service) objectMetadata(req *UploadRequest, isPreview bool) map[string]string {
	return map[string]string{
		storage.MetaOriginalFilename: req.Filename,
		storage.MetaUploaderID:       req.UserID.String(),
		storage.MetaBrandID:          req.BrandID.String(),
		storage.MetaIsPreview:        fmt.Sprintf("%t", isPreview),
		storage.MetaUploadedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

// artifactKey picks the storage key for the requested artifact, empty
// when that artifact was never generated
func artifactKey(asset *Asset, artifact ArtifactType) string {
	switch artifact {
	case ArtifactOriginal:
		return asset.OriginalKey
	case ArtifactPreview:
		if asset.PreviewKey != nil {
			return *asset.PreviewKey
		}
	case ArtifactThumbnail:
		if asset.ThumbnailKey != nil {
			return *asset.ThumbnailKey
		}
	}
	return ""
}

// derivativeName swaps the original extension for the derivative's
func derivativeName(filename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return base + ext
}

func urlCacheKey(id uuid.UUID, artifact ArtifactType) string {
	return fmt.Sprintf("media:url:%s:%s", id, artifact)
}

func optionalKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
