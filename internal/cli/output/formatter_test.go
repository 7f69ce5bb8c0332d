package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestNewFormatterSelection(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json format did not select JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml format did not select YAMLFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TableFormatter); !ok {
		t.Error("unknown format did not fall back to TableFormatter")
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := map[string]any{"token_id": 7, "owner": "0xabc"}
	if err := (&JSONFormatter{}).Format(&buf, in); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["owner"] != "0xabc" {
		t.Errorf("owner = %v", out["owner"])
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	in := map[string]string{"symbol": "RELIC"}
	if err := (&YAMLFormatter{}).Format(&buf, in); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var out map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if out["symbol"] != "RELIC" {
		t.Errorf("symbol = %q", out["symbol"])
	}
	if !strings.Contains(buf.String(), "symbol:") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}
}
