package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/config"
)

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	g, err := NewGenerator(context.Background(), &config.GenAIConfig{Model: "gemini-2.5-flash"}, logging.NewNopLogger())
	assert.Nil(t, g)
	assert.Error(t, err)
}
