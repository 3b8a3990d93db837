package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrFallsBackOnBlank(t *testing.T) {
	t.Setenv("KY_TEST_STR", "   ")
	assert.Equal(t, "def", Str("KY_TEST_STR", "def"))

	t.Setenv("KY_TEST_STR", " value ")
	assert.Equal(t, "value", Str("KY_TEST_STR", "def"))
}

func TestIntAndFloat(t *testing.T) {
	t.Setenv("KY_TEST_INT", "42")
	t.Setenv("KY_TEST_BAD", "x")
	t.Setenv("KY_TEST_FLOAT", "3,5")

	assert.Equal(t, 42, Int("KY_TEST_INT", 1))
	assert.Equal(t, 1, Int("KY_TEST_BAD", 1))
	assert.InDelta(t, 3.5, Float("KY_TEST_FLOAT", 0), 1e-9)
}

func TestDuration(t *testing.T) {
	t.Setenv("KY_TEST_DUR", "2s")
	assert.Equal(t, 2*time.Second, Duration("KY_TEST_DUR", time.Second))

	t.Setenv("KY_TEST_DUR", "1500")
	assert.Equal(t, 1500*time.Millisecond, Duration("KY_TEST_DUR", time.Second))

	t.Setenv("KY_TEST_DUR", "soon")
	assert.Equal(t, time.Second, Duration("KY_TEST_DUR", time.Second))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" a, ,b ,"))
	assert.Nil(t, SplitCSV(""))
}
