package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
)

const sampleCSV = `review_id,bank,rating,review,sentiment_label,sentiment_score
r1,CBE,5,Transfers are fast and reliable,positive,0.95
r2,CBE,5,Payment always works,positive,0.93
r3,CBE,1,App crash on login,negative,0.90
r4,BOA,2,Very slow and full of bug,negative,0.88
r5,BOA,4,Nice interface design,positive,0.91
`

func writeSampleDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyze_OfflineFromCSV(t *testing.T) {
	input := writeSampleDataset(t)
	output := t.TempDir()

	_, err := runCommand(t, "analyze", "--input", input, "--output", output)
	require.NoError(t, err)

	payload, err := os.ReadFile(filepath.Join(output, "insights_summary.json"))
	require.NoError(t, err)
	var doc insight.Document
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Contains(t, doc.Comparison, "CBE")
	assert.Contains(t, doc.Comparison, "BOA")
	assert.Equal(t, 3, doc.Comparison["CBE"].TotalReviews)

	reportText, err := os.ReadFile(filepath.Join(output, "insights_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(reportText), "INSIGHTS REPORT")
	assert.Contains(t, string(reportText), "CBE:")
}

func TestAnalyze_MissingInputFile(t *testing.T) {
	_, err := runCommand(t, "analyze", "--input", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestIngest_RequiresInputFlag(t *testing.T) {
	_, err := runCommand(t, "ingest")
	assert.Error(t, err)
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := runCommand(t, "frobnicate")
	assert.Error(t, err)
}
