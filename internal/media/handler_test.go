package media

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orbitads/orbit/backend/internal/apperrors"
	"github.com/orbitads/orbit/backend/internal/httpapi"
	"github.com/orbitads/orbit/backend/internal/httpapi/middleware"
	"github.com/orbitads/orbit/backend/internal/media/progress"
	"github.com/orbitads/orbit/backend/internal/storage"
	"github.com/orbitads/orbit/backend/testhelper"
)

type handlerFixture struct {
	*serviceFixture
	registry *progress.Registry
	router   *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		serviceFixture: newServiceFixture(t),
		registry:       progress.NewRegistry(testhelper.NewTestLogger()),
	}

	log := testhelper.NewTestLogger()
	handler := NewHandler(f.service, f.registry, httpapi.NewResponseHandler(log), log)

	router := gin.New()
	group := router.Group("/media")
	group.Use(middleware.IdentityMiddleware())
	handler.RegisterRoutes(group)
	f.router = router

	return f
}

// multipartUpload builds a multipart body with an explicit part content type
func multipartUpload(t *testing.T, filename, contentType string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestHandleUploadSuccess(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectAccounts()

	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.PutResult{}, nil)
	f.repo.On("Create", mock.Anything).Return(nil)
	f.producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

	body, contentType := multipartUpload(t, "jingle.mp3", "audio/mpeg", []byte("audio payload"), map[string]string{
		"brand_id":   f.brand.ID.String(),
		"session_id": "session-42",
	})

	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-Id", f.user.ID.String())

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			SessionID string `json:"sessionId"`
			Asset     struct {
				OriginalFilename string `json:"originalFilename"`
			} `json:"asset"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "session-42", resp.Data.SessionID)
	assert.Equal(t, "jingle.mp3", resp.Data.Asset.OriginalFilename)
}

func TestHandleUploadMissingIdentity(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/media/upload", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleUploadMissingFile(t *testing.T) {
	f := newHandlerFixture(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("brand_id", uuid.New().String()))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-Id", uuid.New().String())

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleUploadRejectedType(t *testing.T) {
	f := newHandlerFixture(t)

	body, contentType := multipartUpload(t, "doc.pdf", "application/pdf", []byte("%PDF"), map[string]string{
		"brand_id": uuid.New().String(),
	})

	req := httptest.NewRequest(http.MethodPost, "/media/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-Id", uuid.New().String())

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandleProgressStreamsNDJSON(t *testing.T) {
	f := newHandlerFixture(t)

	const sid = "stream-session"
	go func() {
		// Wait for the handler to register the subscription
		for i := 0; i < 100 && !f.registry.HasSubscriber(sid); i++ {
			time.Sleep(5 * time.Millisecond)
		}
		f.registry.Publish(sid, progress.Event{Stage: progress.StagePreview, Progress: 40, Message: "Generating preview"})
		f.registry.Publish(sid, progress.Event{Stage: progress.StageComplete, Progress: 100, Message: "Upload complete"})
		f.registry.Close(sid)
	}()

	req := httptest.NewRequest(http.MethodGet, "/media/progress/"+sid, nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)

	var first, last progress.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, progress.StageConnected, first.Stage)
	assert.Equal(t, progress.StageComplete, last.Stage)
	assert.Equal(t, 100, last.Progress)
}

func TestHandleGetInvalidID(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/media/asset/not-a-uuid", nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetUnknownAsset(t *testing.T) {
	f := newHandlerFixture(t)

	id := uuid.New()
	f.repo.On("Get", id).Return(nil, apperrors.NewNotFoundError("asset", id.String()))

	req := httptest.NewRequest(http.MethodGet, "/media/asset/"+id.String(), nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandleSignedURLUnknownArtifact(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/media/asset/"+uuid.New().String()+"/url?artifact=banner", nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrMsgBadArtifact)
}

func TestHandleDelete(t *testing.T) {
	f := newHandlerFixture(t)

	id := uuid.New()
	asset := &Asset{ID: id, OriginalKey: "media/uploads/u/b/1_spot.mp4"}
	f.repo.On("Get", id).Return(asset, nil)
	f.repo.On("Delete", id).Return(nil)
	f.store.On("Delete", mock.Anything, asset.OriginalKey).Return(nil)
	f.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/media/asset/"+id.String(), nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	f.repo.AssertCalled(t, "Delete", id)
}

func TestHandleListRequiresBrand(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/media/list", nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleList(t *testing.T) {
	f := newHandlerFixture(t)

	brandID := uuid.New()
	f.repo.On("ListByBrand", brandID).Return([]Asset{
		{ID: uuid.New(), BrandID: brandID, OriginalFilename: "a.mp4"},
		{ID: uuid.New(), BrandID: brandID, OriginalFilename: "b.mp4"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/media/list?brand_id="+brandID.String(), nil)
	req.Header.Set("X-User-Id", uuid.New().String())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a.mp4")
	assert.Contains(t, w.Body.String(), "b.mp4")
}
