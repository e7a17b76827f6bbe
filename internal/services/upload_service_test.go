package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"gatherly_backend/internal/config"
	"gatherly_backend/internal/imageprocessor"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUploadRepo struct {
	rows map[string]*models.Upload // keyed by path
}

func newMemUploadRepo() *memUploadRepo {
	return &memUploadRepo{rows: map[string]*models.Upload{}}
}

func (m *memUploadRepo) Create(u *models.Upload) error {
	if u.ID == "" {
		u.ID = "upload-" + u.Path
	}
	m.rows[u.Path] = u
	return nil
}

func (m *memUploadRepo) FindByPath(path string) (*models.Upload, error) {
	if u, ok := m.rows[path]; ok {
		return u, nil
	}
	return nil, repositories.ErrUploadNotFound
}

func (m *memUploadRepo) FindByUser(userID string) ([]models.Upload, error) {
	var out []models.Upload
	for _, u := range m.rows {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUploadRepo) Delete(id string) error {
	for path, u := range m.rows {
		if u.ID == id {
			delete(m.rows, path)
		}
	}
	return nil
}

type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[path] = data
	return nil
}

func (m *memStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.objects[path]
	if !ok {
		return nil, repositories.ErrUploadNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.objects[path]
	return ok, nil
}

func (m *memStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/api/v1/files/" + path, nil
}

func uploadServiceFixture() (UploadService, *memUploadRepo, *memStorage) {
	repo := newMemUploadRepo()
	store := newMemStorage()
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.MaxDimension = 2048

	return NewUploadService(repo, store, imageprocessor.NewProcessor(85, 2048), cfg), repo, store
}

// multipartFile builds a *multipart.FileHeader the way gin's FormFile
// would hand it to the handler.
func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func gifFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 37 % 256), uint8(y * 59 % 256), uint8((x + y) * 83 % 256), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	require.Greater(t, buf.Len(), 512, "fixture must exceed the sniff window")
	return buf.Bytes()
}

func TestUploadImageGIFPassesThroughIntact(t *testing.T) {
	svc, repo, store := uploadServiceFixture()
	content := gifFixture(t)

	file := multipartFile(t, "party.gif", "image/gif", content)

	resp, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", resp.ContentType)
	assert.Contains(t, resp.Path, "events/")
	assert.Contains(t, resp.Path, ".gif")

	stored := store.objects[resp.Path]
	assert.Equal(t, content, stored, "pass-through formats must reach storage byte for byte")

	_, ok := repo.rows[resp.Path]
	assert.True(t, ok)
}

func TestUploadImageJPEGIsReencoded(t *testing.T) {
	svc, _, store := uploadServiceFixture()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	file := multipartFile(t, "photo.jpg", "image/jpeg", buf.Bytes())

	resp, err := svc.UploadImage(context.Background(), "user-1", "avatars", file)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(store.objects[resp.Path]))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestUploadImageRejectsUnknownType(t *testing.T) {
	svc, _, _ := uploadServiceFixture()

	file := multipartFile(t, "notes.txt", "text/plain", []byte("hello"))

	_, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.Error(t, err)
}

func TestUploadImageRejectsMislabeledContent(t *testing.T) {
	svc, _, _ := uploadServiceFixture()

	file := multipartFile(t, "fake.gif", "image/gif", []byte("this is not image data, just text padding"))

	_, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.Error(t, err)
}

func TestUploadImageRejectsOversize(t *testing.T) {
	svc, _, _ := uploadServiceFixture()

	file := multipartFile(t, "party.gif", "image/gif", gifFixture(t))
	file.Size = 11 * 1024 * 1024

	_, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.Error(t, err)
}

func TestOpenServesStoredObject(t *testing.T) {
	svc, _, _ := uploadServiceFixture()
	content := gifFixture(t)

	file := multipartFile(t, "party.gif", "image/gif", content)
	resp, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.NoError(t, err)

	body, contentType, err := svc.Open(context.Background(), resp.Path)
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "image/gif", contentType)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestOpenUnknownPath(t *testing.T) {
	svc, _, store := uploadServiceFixture()

	_, _, err := svc.Open(context.Background(), "events/nope.gif")
	require.Error(t, err)

	// An object with no Upload row is not reachable either.
	store.objects["events/orphan.gif"] = []byte("raw")
	_, _, err = svc.Open(context.Background(), "events/orphan.gif")
	require.Error(t, err)
}

func TestDeleteUploadOwnerOnly(t *testing.T) {
	svc, _, store := uploadServiceFixture()

	file := multipartFile(t, "party.gif", "image/gif", gifFixture(t))
	resp, err := svc.UploadImage(context.Background(), "user-1", "events", file)
	require.NoError(t, err)

	err = svc.DeleteUpload(context.Background(), "mallory", resp.Path)
	require.Error(t, err)
	_, ok := store.objects[resp.Path]
	assert.True(t, ok, "a foreign delete must not remove the object")

	require.NoError(t, svc.DeleteUpload(context.Background(), "user-1", resp.Path))
	_, ok = store.objects[resp.Path]
	assert.False(t, ok)
}
