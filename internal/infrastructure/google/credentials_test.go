package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptionsRequiresFile(t *testing.T) {
	_, err := ClientOptions(context.Background(), "")
	assert.Error(t, err)

	_, err = ClientOptions(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read google credentials")
}

func TestClientOptionsRejectsMalformedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := ClientOptions(context.Background(), path)
	assert.ErrorContains(t, err, "parse google credentials")
}
