package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const manifestJSON = `{
  "version": "1.0.0",
  "nodes": {
    "Main": {
      "entry_block": "plan",
      "static_memory": {"role": "architect"},
      "blocks": {
        "plan": {
          "worker": "codegen",
          "merge": ["MERGE:STATIC_MEMORY:role"],
          "transitions": [
            {"on_signal": "SUCCESS", "action": "JUMP:Main.done"}
          ]
        },
        "done": {"worker": "codegen"}
      }
    }
  }
}`

const manifestYAML = `
version: 1.0.0
nodes:
  Main:
    entry_block: plan
    context_inheritance: false
    static_memory:
      role: architect
    blocks:
      plan:
        worker: codegen
        merge:
          - MERGE:STATIC_MEMORY:role
        transitions:
          - on_signal: SUCCESS
            action: JUMP:Main.done
      done:
        worker: codegen
`

func TestLoadJSON(t *testing.T) {
	m, err := Load(strings.NewReader(manifestJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Version != "1.0.0" {
		t.Errorf("Version = %q", m.Version)
	}
	node, block, err := m.Resolve("Main.plan")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// context_inheritance defaults to true when omitted.
	if !node.ContextInheritance {
		t.Error("ContextInheritance default = false, want true")
	}
	if len(block.Merge) != 1 || block.Merge[0].Key != "role" {
		t.Errorf("Merge = %+v", block.Merge)
	}
	if len(block.Transitions) != 1 || block.Transitions[0].Action.Kind != ActionJump {
		t.Errorf("Transitions = %+v", block.Transitions)
	}
}

func TestLoadYAML(t *testing.T) {
	m, err := Load(strings.NewReader(manifestYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node, err := m.Node("Main")
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if node.ContextInheritance {
		t.Error("ContextInheritance = true, want false (explicitly set)")
	}
}

func TestLoadSchemaRejection(t *testing.T) {
	// "blocks" is required on every node.
	bad := `{"version": "1.0.0", "nodes": {"Main": {"entry_block": "plan"}}}`

	_, err := Load(strings.NewReader(bad), FormatJSON)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Load err = %v, want *SchemaError", err)
	}
}

func TestLoadMalformedActionIsFatal(t *testing.T) {
	bad := strings.Replace(manifestJSON, "JUMP:Main.done", "JUMP", 1)

	_, err := Load(strings.NewReader(bad), FormatJSON)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load err = %v, want *ParseError", err)
	}
}

func TestLoadMalformedMergeIsFatal(t *testing.T) {
	bad := strings.Replace(manifestJSON, "MERGE:STATIC_MEMORY:role", "MERGE:role", 1)

	_, err := Load(strings.NewReader(bad), FormatJSON)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load err = %v, want *ParseError", err)
	}
}

func TestLoadDanglingReferenceIsFatal(t *testing.T) {
	bad := strings.Replace(manifestJSON, "JUMP:Main.done", "JUMP:Main.ghost", 1)

	_, err := Load(strings.NewReader(bad), FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "invalid manifest") {
		t.Fatalf("Load err = %v, want invalid manifest error", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "workflow.json")
	if err := os.WriteFile(jsonPath, []byte(manifestJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(jsonPath); err != nil {
		t.Errorf("LoadFile(json): %v", err)
	}

	yamlPath := filepath.Join(dir, "workflow.yaml")
	if err := os.WriteFile(yamlPath, []byte(manifestYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(yamlPath); err != nil {
		t.Errorf("LoadFile(yaml): %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("LoadFile(absent) succeeded")
	}
}
