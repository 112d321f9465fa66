package helpers

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	dev := NewLogger("app", "development", "")
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)

	prod := NewLogger("app", "production", "")
	assert.Equal(t, logrus.InfoLevel, prod.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	assert.Equal(t, logrus.WarnLevel, NewLogger("app", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "loud").GetLevel())
}
