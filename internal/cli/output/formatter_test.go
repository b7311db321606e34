package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Name    string   `yaml:"name" json:"name"`
	Count   int      `yaml:"count" json:"count"`
	Tags    []string `yaml:"tags" json:"tags"`
	Secret  string   `yaml:"-" json:"-"`
	private int
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json format should return JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml format should return YAMLFormatter")
	}
	if _, ok := NewFormatter("other").(*TableFormatter); !ok {
		t.Error("unknown format should fall back to TableFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	in := sample{Name: "archive", Count: 2, Tags: []string{"a"}, Secret: "x"}
	if err := (&JSONFormatter{}).Format(&buf, in); err != nil {
		t.Fatalf("Format: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if out["name"] != "archive" {
		t.Errorf("name = %v", out["name"])
	}
	if _, ok := out["Secret"]; ok {
		t.Error("skipped field was encoded")
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	in := sample{Name: "archive", Count: 2, Tags: []string{"a", "b"}}
	if err := (&YAMLFormatter{}).Format(&buf, in); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(buf.String(), "name: archive") {
		t.Errorf("unexpected yaml:\n%s", buf.String())
	}

	var out sample
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if out.Count != 2 || len(out.Tags) != 2 {
		t.Errorf("decoded %+v", out)
	}
}

func TestStructuredFormatters_Table(t *testing.T) {
	tbl := NewTable("NAME", "SOUND PATH")
	tbl.AddRow("100", "/tmp/a.mp3")

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, tbl); err != nil {
		t.Fatalf("Format: %v", err)
	}
	var out []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(out) != 1 || out[0]["sound_path"] != "/tmp/a.mp3" {
		t.Errorf("records = %v", out)
	}
}
