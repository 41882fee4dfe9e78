package cmds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/text-manipulation/pkg/pipeline"
)

const testPipeline = `
groups:
  - name: tidy
    sources:
      - from: { json: { path: title } }
        to: { json: { path: title } }
      - from: { text: "x" }
        to: { json: { path: "" } }
    operations:
      - action: trim
      - action: letterCase
        case: upper
  - name: broken
    operations:
      - action: pad
        target_length: -1
      - action: shout
`

func writePipeline(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(p, []byte(testPipeline), 0644))
	return p
}

func TestLoadPipeline_SelectsGroups(t *testing.T) {
	path := writePipeline(t)

	cfg, err := loadPipeline(path, nil)
	require.NoError(t, err)
	assert.Len(t, cfg.Groups, 2)

	cfg, err = loadPipeline(path, []string{"tidy"})
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "tidy", cfg.Groups[0].Name)

	_, err = loadPipeline(path, []string{"tidy", "nope"})
	assert.ErrorContains(t, err, "nope")
}

func TestLoadPipeline_PipelineDir(t *testing.T) {
	path := writePipeline(t)
	viper.Set("pipeline_dir", filepath.Dir(path))
	defer viper.Set("pipeline_dir", "")

	cfg, err := loadPipeline("pipeline.yaml", []string{"broken"})
	require.NoError(t, err)
	assert.Len(t, cfg.Groups, 1)
}

func TestApplyGroups(t *testing.T) {
	cfg, err := loadPipeline(writePipeline(t), []string{"tidy"})
	require.NoError(t, err)

	got, err := applyGroups("  hello  ", cfg.Groups)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)

	cfg, err = loadPipeline(writePipeline(t), nil)
	require.NoError(t, err)
	_, err = applyGroups("hello", cfg.Groups)
	assert.ErrorContains(t, err, "group broken")
}

func TestValidationRows(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(testPipeline))
	require.NoError(t, err)

	rows := validationRows(cfg)
	require.Len(t, rows, 6)

	assert.Equal(t, "source", rows[0].kind)
	assert.Equal(t, "json:title", rows[0].from)
	assert.Empty(t, rows[0].err)

	assert.Equal(t, `text:"x"`, rows[1].from)
	assert.NotEmpty(t, rows[1].err)

	assert.Equal(t, "operation", rows[2].kind)
	assert.Equal(t, "trim", rows[2].from)
	assert.Empty(t, rows[3].err)

	assert.Equal(t, "broken", rows[4].group)
	assert.NotEmpty(t, rows[4].err)
	assert.NotEmpty(t, rows[5].err)
}
