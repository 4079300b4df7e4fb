package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

type record struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func TestOutputJSONCompact(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, record{Name: "PORT", Value: "8000", Source: "app-config"}, JSONOutputOptions{})
	if err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}
	want := `{"name":"PORT","value":"8000","source":"app-config"}` + "\n"
	if buf.String() != want {
		t.Errorf("OutputJSON() = %q, want %q", buf.String(), want)
	}
}

func TestOutputJSONPretty(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, record{Name: "PORT", Value: "8000"}, JSONOutputOptions{Pretty: true})
	if err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "\n  \"name\": \"PORT\"") {
		t.Errorf("OutputJSON() = %q, want indented fields", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("OutputJSON() output does not end with a newline")
	}
}

func TestOutputJSONFields(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, []record{
		{Name: "PORT", Value: "8000", Source: "app-config"},
		{Name: "APP_ID", Value: "demo", Source: "sdk-config"},
	}, JSONOutputOptions{Fields: []string{"name"}})
	if err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "app-config") || strings.Contains(got, "8000") {
		t.Errorf("OutputJSON() = %q, want filtered to name only", got)
	}
	if !strings.Contains(got, `"name":"PORT"`) || !strings.Contains(got, `"name":"APP_ID"`) {
		t.Errorf("OutputJSON() = %q, want name fields preserved", got)
	}
}

func TestOutputJSONJQFilter(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, []record{
		{Name: "PORT", Value: "8000"},
		{Name: "APP_ID", Value: "demo"},
	}, JSONOutputOptions{JQFilter: ".[].name"})
	if err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"PORT"`) || !strings.Contains(got, `"APP_ID"`) {
		t.Errorf("OutputJSON() = %q, want jq-extracted names", got)
	}
	if strings.Contains(got, "value") {
		t.Errorf("OutputJSON() = %q, want only the extracted field", got)
	}
}
