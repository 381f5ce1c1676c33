package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vkngwrapper/vkdemo/internal/version"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	v := version.GetVersion()
	assert.NotEmpty(t, v)
	if v != "dev" {
		assert.Regexp(t, `^v?\d+\.\d+\.\d+`, v)
	}
}

func TestGetCommitAndDate(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, version.GetCommit())
	assert.NotEmpty(t, version.GetDate())
}

func TestGetFullVersion(t *testing.T) {
	t.Parallel()

	full := version.GetFullVersion()
	assert.Contains(t, full, version.GetVersion())
	assert.Contains(t, full, "commit: "+version.GetCommit())
	assert.Contains(t, full, "built: "+version.GetDate())
	assert.Contains(t, full, runtime.Version())
}
