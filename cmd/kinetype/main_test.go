package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kinetype/internal/config"
	"github.com/verte-zerg/kinetype/internal/model"
)

func TestDefaultConfigTemplateIsInert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Words)
	assert.Nil(t, cfg.Placement.Items)
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, "=") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Words)
	assert.Equal(t, model.DefaultSessionSize, *cfg.Practice.Words)
	require.NotNil(t, cfg.Practice.Learner)
	assert.Equal(t, config.DefaultLearner, *cfg.Practice.Learner)
	require.NotNil(t, cfg.Practice.StrugglePct)
	assert.InDelta(t, model.DefaultStrugglePct, *cfg.Practice.StrugglePct, 1e-9)
	require.NotNil(t, cfg.Placement.Items)
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	var words int
	var caps string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&words, "words", 20, "")
	cmd.Flags().StringVar(&caps, "caps", "never", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--words", "12"}))

	fileWords := 30
	fileCaps := "often"
	applyIntConfig(cmd, "words", &words, &fileWords)
	applyStringConfig(cmd, "caps", &caps, &fileCaps)
	assert.Equal(t, 12, words, "flag wins over config")
	assert.Equal(t, "often", caps, "config wins over default")

	applyStringConfig(cmd, "caps", &caps, nil)
	assert.Equal(t, "often", caps)
}

func TestPracticeSpecNormalizes(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addPracticeFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--struggle-pct", "30", "--new-pct", "50", "--confidence-pct", "20", "--caps", "Often"}))

	spec, err := practiceSpec(cmd, config.FileConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, spec.StrugglePct, 1e-9)
	assert.InDelta(t, 0.5, spec.NewPct, 1e-9)
	assert.Equal(t, model.Often, spec.Capitalization)

	require.NoError(t, cmd.Flags().Parse([]string{"--punct", "always"}))
	_, err = practiceSpec(cmd, config.FileConfig{})
	assert.ErrorIs(t, err, model.ErrInvalidSpec)
}
