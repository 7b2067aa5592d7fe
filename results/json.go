// JSON export of a result record, wrapped in enough metadata to make the file self-describing.

package results

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"specer/common"
)

type exportConfig struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

type exportMetadata struct {
	Timestamp    string        `json:"timestamp"`
	Version      string        `json:"specer_version"`
	InvocationId string        `json:"invocation_id"`
	Benchmarks   []string      `json:"benchmarks"`
	Config       *exportConfig `json:"config"`
}

type exportEnvelope struct {
	Metadata exportMetadata `json:"metadata"`
	Results  *Record        `json:"results"`
}

// SaveJSON writes rec with its invocation metadata to outputFile, or to an auto-named
// specer_results_<timestamp>.json in the working directory when outputFile is empty.  The config
// file's contents are embedded so the result stays interpretable after the temporary config is
// cleaned up.  Returns the path written.
func SaveJSON(rec *Record, outputFile, version string, benchmarks []string, configPath string) (string, error) {
	if outputFile == "" {
		outputFile = fmt.Sprintf("specer_results_%s.json", time.Now().Format("20060102_150405"))
	}
	var cfg *exportConfig
	if configPath != "" {
		cfg = &exportConfig{Path: configPath}
		if contents, err := os.ReadFile(configPath); err == nil {
			cfg.Contents = string(contents)
		} else {
			common.Log.Warningf("could not read config file %s: %v", configPath, err)
		}
	}
	if benchmarks == nil {
		benchmarks = []string{}
	}
	envelope := exportEnvelope{
		Metadata: exportMetadata{
			Timestamp:    time.Now().Format(time.RFC3339),
			Version:      version,
			InvocationId: uuid.NewString(),
			Benchmarks:   benchmarks,
			Config:       cfg,
		},
		Results: rec,
	}
	encoded, err := json.MarshalIndent(&envelope, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode results\n%w", err)
	}
	if err := os.WriteFile(outputFile, encoded, 0644); err != nil {
		return "", fmt.Errorf("could not write %s\n%w", outputFile, err)
	}
	return outputFile, nil
}
