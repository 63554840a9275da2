package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData_Unset(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}

func TestPrintBuildData_Stamped(t *testing.T) {
	oldV, oldD, oldC := buildVersion, buildDate, buildCommit
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = oldV, oldD, oldC })
	buildVersion, buildDate, buildCommit = "v1.2.3", "2026-01-02", "abc123"

	var buf bytes.Buffer
	PrintBuildData(&buf)
	assert.Contains(t, buf.String(), "Build version: v1.2.3\n")
	assert.Contains(t, buf.String(), "Build date: 2026-01-02\n")
	assert.Contains(t, buf.String(), "Build commit: abc123\n")
}
