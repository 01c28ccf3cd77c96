package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplesTSV(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(SamplesTSV(40, 10, 20)), "\n")
	assert.Equal(t, []string{
		"timestamp\tx\ty\tpupil_left\tpupil_right",
		"0\t5\t5\t3\t3",
		"10\t5\t5\t3\t3",
		"20\t\t\t\t",
		"30\t\t\t\t",
	}, lines)
}

func TestWriteSession(t *testing.T) {
	files := map[string]string{}
	pf := WriteSession(func(name string, data []byte) { files[name] = string(data) }, "data", "p1", 500)

	assert.Equal(t, "p1", pf.ID)
	require.Len(t, pf.Recordings, 1)
	assert.Equal(t, "data/p1/all.tsv", pf.Recordings[0].Samples)
	assert.Equal(t, "data/p1/screen.aoi", pf.AOIs)
	assert.Len(t, files, 4)
	assert.Equal(t, TwoScenes, files["data/p1/rec.seg"])
	assert.Equal(t, 21, strings.Count(files["data/p1/fix.tsv"], "\n"))
}
