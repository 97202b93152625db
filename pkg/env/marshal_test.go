package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	BaseURL string `env:"GEMINI_BASE_URL"`
}

type sample struct {
	Addr     string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8787"`
	Enabled  bool          `env:"ENABLE_TELEGRAM"`
	Timeout  time.Duration `env:"REQUEST_TIMEOUT"`
	MaxChats int           `env:"MAX_CHATS"`
	Title    string        `env:"TITLE"`
	Skipped  string
	hidden   string `env:"HIDDEN"`
	Nested   nested
}

func TestMarshalEnv(t *testing.T) {
	s := &sample{
		Addr:     "0.0.0.0:9000",
		Enabled:  true,
		Timeout:  30 * time.Second,
		MaxChats: 50,
		Title:    "Arth Page #1",
		Skipped:  "ignored",
		hidden:   "ignored",
		Nested:   nested{BaseURL: "http://localhost:1234"},
	}

	out, err := MarshalEnv(s)
	require.NoError(t, err)

	assert.Equal(t,
		"HTTP_ADDR=0.0.0.0:9000\n"+
			"ENABLE_TELEGRAM=true\n"+
			"REQUEST_TIMEOUT=30s\n"+
			"MAX_CHATS=50\n"+
			"TITLE=\"Arth Page #1\"\n"+
			"GEMINI_BASE_URL=http://localhost:1234\n",
		out)
}

func TestMarshalEnv_ZeroValuesSkipped(t *testing.T) {
	out, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
