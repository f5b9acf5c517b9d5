package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/yotei/plugin/nlevent"
)

var testRef = time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("JST", 9*60*60))

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, nlevent.Parse("明日の午後2時に会議", testRef), "json"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "会議", out["event"].(map[string]any)["title"])
	assert.Equal(t, "2024-03-02T14:00:00+09:00", out["event"].(map[string]any)["startTime"])
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, nlevent.Parse("ただの文章です", testRef), "yaml"))

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "date/time not recognized", out["error"])
	assert.Equal(t, "ただの文章です", out["originalText"])
}

func TestWriteResult_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeResult(&buf, nlevent.Parse("明日", testRef), "xml"))
}

func TestParseCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"parse", "--reference", "2024-03-01T10:00:00+09:00", "--timezone", "Asia/Tokyo", "-o", "json", "来週の金曜日の10時から12時まで研修"})
	require.NoError(t, rootCmd.Execute())

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	event := out["event"].(map[string]any)
	assert.Equal(t, "研修", event["title"])
	assert.Equal(t, "2024-03-08T10:00:00+09:00", event["startTime"])
	assert.Equal(t, "2024-03-08T12:00:00+09:00", event["endTime"])
}

func TestExamplesCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"examples", "--reference", "2024-03-01T10:00:00+09:00", "--timezone", "Asia/Tokyo"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "明日の午後2時に会議\n  2024-03-02 14:00 - 15:00  会議")
	assert.NotContains(t, buf.String(), "error:")
}
