package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/cricanalyze/internal/config"
)

func TestLoadNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "innings.csv")
	csv := "year,6over,20over,result\n2021,40/1,150/3,chased\n2022,40/2,150/4,defend\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	ds, err := loadNow(context.Background(), config.Config{Source: path, Timeout: time.Second})
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, []string{"year", "6over", "20over", "result"}, ds.Header)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadNow_Failure(t *testing.T) {
	ds, err := loadNow(context.Background(), config.Config{Source: filepath.Join(t.TempDir(), "missing.csv"), Timeout: time.Second})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.Contains(t, err.Error(), "Error loading data")
}

func TestParseYears(t *testing.T) {
	got, err := parseYears([]string{"2021,2022", "all", "2020"})
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2022, 2020}, got)

	_, err = parseYears([]string{"20x1"})
	assert.Error(t, err)
}
