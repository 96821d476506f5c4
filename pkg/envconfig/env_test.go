package envconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `
# comment
DB_HOST_TEST=db.internal
QUOTED_TEST="secret value"
EXISTING_TEST=from-file
malformed line without equals
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("EXISTING_TEST", "from-env")
	defer func() {
		os.Unsetenv("DB_HOST_TEST")
		os.Unsetenv("QUOTED_TEST")
	}()

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "db.internal", os.Getenv("DB_HOST_TEST"))
	assert.Equal(t, "secret value", os.Getenv("QUOTED_TEST"))
	assert.Equal(t, "from-env", os.Getenv("EXISTING_TEST"), "the process environment wins over the file")
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PRESENT_TEST", "value")
	t.Setenv("EMPTY_TEST", "")

	assert.Equal(t, "value", GetEnv("PRESENT_TEST", "fallback"))
	assert.Equal(t, "fallback", GetEnv("EMPTY_TEST", "fallback"))
	assert.Equal(t, "fallback", GetEnv("ABSENT_TEST", "fallback"))
}

func TestGetCompletionTimeout(t *testing.T) {
	t.Setenv("ORDER_COMPLETION_TIMEOUT", "2s")
	assert.Equal(t, 2*time.Second, GetCompletionTimeout())

	t.Setenv("ORDER_COMPLETION_TIMEOUT", "not-a-duration")
	assert.Equal(t, 10*time.Second, GetCompletionTimeout())

	t.Setenv("ORDER_COMPLETION_TIMEOUT", "-5s")
	assert.Equal(t, 10*time.Second, GetCompletionTimeout())
}

func TestLoadDisplayConfig(t *testing.T) {
	t.Setenv("CURRENCY_SYMBOL", "₸")
	t.Setenv("CURRENCY_DECIMAL_PLACES", "0")
	t.Setenv("CURRENCY_THOUSAND_SEPARATOR", " ")

	cfg := LoadDisplayConfig()
	assert.Equal(t, "₸", cfg.Symbol)
	assert.Equal(t, int32(0), cfg.DecimalPlaces)
	assert.Equal(t, " ", cfg.ThousandSeparator)
}

func TestLoadDisplayConfigEmptySeparatorDisablesGrouping(t *testing.T) {
	t.Setenv("CURRENCY_THOUSAND_SEPARATOR", "")

	cfg := LoadDisplayConfig()
	assert.Equal(t, "", cfg.ThousandSeparator)
}
