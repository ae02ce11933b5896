package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/services/downloader"
	"github.com/denisAlshanov/ytmp3/internal/services/storage"
	"github.com/denisAlshanov/ytmp3/internal/services/youtube"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

type stubTitles struct {
	title string
}

func (s stubTitles) ResolveTitle(ctx context.Context, ref models.VideoRef) string {
	if s.title == "" {
		return youtube.FallbackTitle(ref)
	}
	return s.title
}

type stubAcquirer struct {
	mu   sync.Mutex
	refs []models.VideoRef
	err  error
}

func (s *stubAcquirer) Acquire(ctx context.Context, ref models.VideoRef) (*models.AudioArtifact, error) {
	s.mu.Lock()
	s.refs = append(s.refs, ref)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	data := bytes.Repeat([]byte{0xFF}, 60000)
	return &models.AudioArtifact{Data: data, SizeBytes: len(data), Provider: "stub"}, nil
}

func (s *stubAcquirer) calls() []models.VideoRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.VideoRef(nil), s.refs...)
}

type stubPublisher struct {
	fileNames []string
	err       error
}

func (s *stubPublisher) Publish(ctx context.Context, fileName string, artifact *models.AudioArtifact) (string, error) {
	s.fileNames = append(s.fileNames, fileName)
	if s.err != nil {
		return "", s.err
	}
	return "https://raw.githubusercontent.com/owner/repo/main/mp3/" + fileName, nil
}

func newTestConverter(acq *stubAcquirer, pub *stubPublisher, title string) *Converter {
	resolver := &youtube.Resolver{Now: func() time.Time { return time.UnixMilli(42) }}
	return NewConverter(resolver, stubTitles{title: title}, acq, pub)
}

func requireAppError(t *testing.T, err error) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %T", err)
	return appErr
}

func TestConvertSucceeds(t *testing.T) {
	acq := &stubAcquirer{}
	pub := &stubPublisher{}
	c := newTestConverter(acq, pub, "Never Gonna Give You Up")

	result, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://youtu.be/abc123"})
	require.NoError(t, err)

	assert.Equal(t, "abc123.mp3", result.FileName)
	assert.Equal(t, "Never Gonna Give You Up", result.Title)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/mp3/abc123.mp3", result.PublicURL)
	assert.Equal(t, []models.VideoRef{{ID: "abc123"}}, acq.calls())
	assert.Equal(t, []string{"abc123.mp3"}, pub.fileNames)
}

func TestConvertUsesRequestedFileName(t *testing.T) {
	pub := &stubPublisher{}
	c := newTestConverter(&stubAcquirer{}, pub, "")

	result, err := c.Convert(context.Background(), models.ConversionRequest{
		SourceURL:         "https://www.youtube.com/watch?v=xyz",
		RequestedFileName: "My Song.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, "My_Song.mp3", result.FileName)
	assert.Equal(t, "xyz - Converted Audio", result.Title)
}

func TestConvertRejectsMissingURL(t *testing.T) {
	acq := &stubAcquirer{}
	pub := &stubPublisher{}
	c := newTestConverter(acq, pub, "")

	for _, src := range []string{"", "   "} {
		_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: src})
		appErr := requireAppError(t, err)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, utils.MissingURLMessage, appErr.Message)
	}
	assert.Empty(t, acq.calls())
	assert.Empty(t, pub.fileNames)
}

func TestConvertRejectsForeignHostBeforeNetwork(t *testing.T) {
	acq := &stubAcquirer{}
	pub := &stubPublisher{}
	c := newTestConverter(acq, pub, "")

	_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://example.com/x"})
	appErr := requireAppError(t, err)
	assert.Equal(t, utils.ErrorCodeInvalidInput, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Empty(t, acq.calls())
	assert.Empty(t, pub.fileNames)
}

func TestConvertSyntheticIDStillAttemptsAcquisition(t *testing.T) {
	acq := &stubAcquirer{}
	c := newTestConverter(acq, &stubPublisher{}, "")

	result, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://www.youtube.com/watch"})
	require.NoError(t, err)

	calls := acq.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Synthetic)
	assert.True(t, strings.HasPrefix(calls[0].ID, "audio-"))
	assert.Equal(t, "audio-42.mp3", result.FileName)
}

func TestConvertAcquisitionFailureSkipsPublisher(t *testing.T) {
	acq := &stubAcquirer{err: fmt.Errorf("%w for abc (p1: status 500)", downloader.ErrAcquisitionFailed)}
	pub := &stubPublisher{}
	c := newTestConverter(acq, pub, "")

	_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://youtu.be/abc"})
	appErr := requireAppError(t, err)
	assert.Equal(t, utils.ErrorCodeAcquisitionFailed, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "p1: status 500")
	assert.Empty(t, pub.fileNames)
}

func TestConvertPublishFailure(t *testing.T) {
	pub := &stubPublisher{err: fmt.Errorf("%w: GitHub upload returned status 409", storage.ErrPublishFailed)}
	c := newTestConverter(&stubAcquirer{}, pub, "")

	_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://youtu.be/abc"})
	appErr := requireAppError(t, err)
	assert.Equal(t, utils.ErrorCodePublishFailed, appErr.Code)
	assert.Contains(t, appErr.Message, "409")
}

func TestConvertConfigurationErrorHidesDetails(t *testing.T) {
	acq := &stubAcquirer{err: fmt.Errorf("%w: provider API key is not set", config.ErrConfiguration)}
	c := newTestConverter(acq, &stubPublisher{}, "")

	_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://youtu.be/abc"})
	appErr := requireAppError(t, err)
	assert.Equal(t, utils.ErrorCodeConfiguration, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.NotContains(t, appErr.Message, "API key")
}

func TestConvertUnknownErrorIsNormalized(t *testing.T) {
	acq := &stubAcquirer{err: errors.New("boom")}
	c := newTestConverter(acq, &stubPublisher{}, "")

	_, err := c.Convert(context.Background(), models.ConversionRequest{SourceURL: "https://youtu.be/abc"})
	appErr := requireAppError(t, err)
	assert.Equal(t, utils.ErrorCodeInternalError, appErr.Code)
}

func TestBuildFileName(t *testing.T) {
	ref := models.VideoRef{ID: "abc123"}
	testCases := []struct {
		requested string
		want      string
	}{
		{"", "abc123.mp3"},
		{"song.mp3", "song.mp3"},
		{"SONG.MP3", "SONG.mp3"},
		{"../../etc/passwd", "passwd.mp3"},
		{`dir\evil name.mp3`, "evil_name.mp3"},
		{"???", "abc123.mp3"},
		{".mp3", "abc123.mp3"},
		{"track.v2", "track.v2.mp3"},
	}

	for _, tc := range testCases {
		t.Run(tc.requested, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildFileName(tc.requested, ref))
		})
	}
}
