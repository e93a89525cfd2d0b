package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lensStubResponse = `{
  "total": 1,
  "data": [
    {
      "lens_id": "021-585-864-309-724",
      "jurisdiction": "QA",
      "doc_number": "201900123",
      "kind": "A",
      "date_published": "2019-03-12",
      "biblio": {
        "invention_title": [{"lang": "en", "text": "Solar Desalination Device"}],
        "parties": {
          "applicants": [
            {"extracted_name": {"value": "QATAR UNIVERSITY"}, "residence": "QA"}
          ],
          "inventors": [
            {"extracted_name": {"value": "AL-KUWARI, MARYAM"}}
          ]
        }
      },
      "abstract": [{"lang": "en", "text": "A solar-powered desalination device."}],
      "legal_status": {"patent_status": "PENDING"}
    }
  ]
}`

// writeTestConfig points the pipeline at a temp workspace and the lens stub.
func writeTestConfig(t *testing.T, lensURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
log:
  level: error
  format: console
pipeline:
  master_file: %s
  state_file: %s
lens:
  base_url: %s
  api_token: test-token
  batch_size: 100
`, filepath.Join(dir, "master.xlsx"), filepath.Join(dir, "state.json"), lensURL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "summary")
	assert.Contains(t, names, "export")
	assert.Contains(t, names, "serve")
}

func TestUpdate_SingleSourceAgainstStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lensStubResponse)
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	out, err := runCommand(t, "--config", cfgPath, "update", "--source", "lens")
	require.NoError(t, err)

	assert.Contains(t, out, "lens: 1 extracted, 1 new")
	assert.Contains(t, out, "Dataset total: 1 patents")

	// Master file and run history both persisted next to the config.
	dir := filepath.Dir(cfgPath)
	assert.FileExists(t, filepath.Join(dir, "master.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "state.json"))
}

func TestUpdate_DryRunPersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lensStubResponse)
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	out, err := runCommand(t, "--config", cfgPath, "update", "--source", "lens", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "lens (dry run)")
	dir := filepath.Dir(cfgPath)
	assert.NoFileExists(t, filepath.Join(dir, "master.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "state.json"))
}

func TestUpdate_UnknownSource(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://localhost:0")
	_, err := runCommand(t, "--config", cfgPath, "update", "--source", "uspto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestSummary_EmptyDataset(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://localhost:0")
	out, err := runCommand(t, "--config", cfgPath, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total patents:    0")
}

func TestExport_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lensStubResponse)
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL)
	_, err := runCommand(t, "--config", cfgPath, "update", "--source", "lens")
	require.NoError(t, err)

	outPath := filepath.Join(filepath.Dir(cfgPath), "export.xlsx")
	out, err := runCommand(t, "--config", cfgPath, "export", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 patents")
	assert.FileExists(t, outPath)
}
