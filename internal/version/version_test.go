package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, c, b string) { Version, GitCommit, BuildTime = v, c, b }(Version, GitCommit, BuildTime)
	Version, GitCommit, BuildTime = "1.2.3", "abc123", "2014-10-11T08:00:00Z"
	assert.Equal(t, "v1.2.3 (commit abc123, built 2014-10-11T08:00:00Z)", String())
}
