package container

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/config"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNew_MemoryAndLocal(t *testing.T) {
	cfg := &config.Config{
		StorageDriver:  "memory",
		BlobDriver:     "local",
		UploadsDir:     t.TempDir(),
		JWTSecret:      "secret",
		TokenTTL:       time.Hour,
		EventsTimezone: "UTC",
		MetricsEnabled: true,
	}
	c, err := New(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Identity)
	assert.NotNil(t, c.ProjectSvc)
	assert.NotNil(t, c.EventSvc)
	assert.NotNil(t, c.SubscriptionSvc)
	assert.NotNil(t, c.Metrics)
	assert.Nil(t, c.PGPool)
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.ES)
	assert.Nil(t, c.RabbitPub)
	assert.Nil(t, c.ProjectSvc.Search)
	assert.Nil(t, c.EventSvc.Notifier.Pub)
}

func TestNew_UnknownDrivers(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "mongo", BlobDriver: "local"}, quietLogger())
	assert.ErrorContains(t, err, "STORAGE_DRIVER")

	_, err = New(context.Background(), &config.Config{StorageDriver: "memory", BlobDriver: "s3", UploadsDir: t.TempDir()}, quietLogger())
	assert.ErrorContains(t, err, "BLOB_DRIVER")

	_, err = New(context.Background(), &config.Config{StorageDriver: "memory", BlobDriver: "gcs"}, quietLogger())
	assert.ErrorContains(t, err, "GCS_BUCKET")
}
