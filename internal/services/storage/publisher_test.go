package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/models"
)

const testMinBytes = 100

func artifactOf(size int, fill byte) *models.AudioArtifact {
	return &models.AudioArtifact{Data: bytes.Repeat([]byte{fill}, size), SizeBytes: size, Provider: "test"}
}

// recordingStore counts calls so tests can assert nothing hit the network.
type recordingStore struct {
	statErr error
	putErrs map[string]error
	stats   int
	puts    []models.StoredObject
}

func (r *recordingStore) Name() string { return "recording" }

func (r *recordingStore) Stat(ctx context.Context, branch, path string) (*models.StoredObject, error) {
	r.stats++
	if r.statErr != nil {
		return nil, r.statErr
	}
	return nil, ErrObjectNotFound
}

func (r *recordingStore) Put(ctx context.Context, obj models.StoredObject, content []byte, message string) error {
	r.puts = append(r.puts, obj)
	return r.putErrs[obj.Branch]
}

func (r *recordingStore) PublicURL(branch, path string) string {
	return "https://files.test/" + branch + "/" + path
}

func TestPublishUpdatesExistingObjectWithRevisionMarker(t *testing.T) {
	fake := newFakeGitHub("main", "master")
	store := newTestGitHubStorage(t, fake)
	publisher, err := NewPublisher(store, []string{"main", "master"}, testMinBytes)
	require.NoError(t, err)
	ctx := context.Background()

	firstURL, err := publisher.Publish(ctx, "foo.mp3", artifactOf(testMinBytes, 1))
	require.NoError(t, err)

	fake.mu.Lock()
	marker := fake.files["main:mp3/foo.mp3"].sha
	fake.mu.Unlock()
	require.NotEmpty(t, marker)

	secondURL, err := publisher.Publish(ctx, "foo.mp3", artifactOf(testMinBytes*2, 2))
	require.NoError(t, err)
	assert.Equal(t, firstURL, secondURL)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/mp3/foo.mp3", secondURL)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.puts, 2)
	assert.Empty(t, fake.puts[0].SHA)
	assert.Equal(t, "Add MP3 file: foo.mp3", fake.puts[0].Message)
	assert.Equal(t, marker, fake.puts[1].SHA)
	assert.Equal(t, "Update MP3 file: foo.mp3", fake.puts[1].Message)
	assert.Len(t, fake.files, 1)
	assert.Len(t, fake.files["main:mp3/foo.mp3"].content, testMinBytes*2)
}

func TestPublishFallsBackToSecondaryBranch(t *testing.T) {
	fake := newFakeGitHub("master")
	store := newTestGitHubStorage(t, fake)
	publisher, err := NewPublisher(store, []string{"main", "master"}, testMinBytes)
	require.NoError(t, err)

	url, err := publisher.Publish(context.Background(), "bar.mp3", artifactOf(testMinBytes, 3))
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/master/mp3/bar.mp3", url)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.puts, 2)
	assert.Equal(t, "main", fake.puts[0].Branch)
	assert.Equal(t, "master", fake.puts[1].Branch)
}

func TestPublishFailsWithLastErrorText(t *testing.T) {
	store := &recordingStore{putErrs: map[string]error{
		"main":   errors.New("main exploded"),
		"master": errors.New("master rejected write"),
	}}
	publisher, err := NewPublisher(store, []string{"main", "master"}, testMinBytes)
	require.NoError(t, err)

	_, err = publisher.Publish(context.Background(), "x.mp3", artifactOf(testMinBytes, 1))
	require.ErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "master rejected write")
	assert.Len(t, store.puts, 2)
}

func TestPublishProceedsWithoutMarkerOnStatError(t *testing.T) {
	store := &recordingStore{statErr: errors.New("500 from store")}
	publisher, err := NewPublisher(store, []string{"main"}, testMinBytes)
	require.NoError(t, err)

	url, err := publisher.Publish(context.Background(), "y.mp3", artifactOf(testMinBytes, 1))
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/main/mp3/y.mp3", url)
	require.Len(t, store.puts, 1)
	assert.Empty(t, store.puts[0].RevisionMarker)
}

func TestPublishRejectsUndersizedArtifactBeforeNetwork(t *testing.T) {
	store := &recordingStore{}
	publisher, err := NewPublisher(store, []string{"main", "master"}, testMinBytes)
	require.NoError(t, err)

	_, err = publisher.Publish(context.Background(), "small.mp3", artifactOf(testMinBytes-1, 1))
	require.ErrorIs(t, err, ErrPublishFailed)

	_, err = publisher.Publish(context.Background(), "nil.mp3", nil)
	require.ErrorIs(t, err, ErrPublishFailed)

	assert.Zero(t, store.stats)
	assert.Empty(t, store.puts)
}

func TestNewPublisherValidation(t *testing.T) {
	_, err := NewPublisher(nil, []string{"main"}, 1)
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = NewPublisher(&recordingStore{}, nil, 1)
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = NewPublisher(&recordingStore{}, []string{"main"}, 0)
	assert.ErrorIs(t, err, config.ErrConfiguration)
}
