package manifest

import (
	"errors"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Action
	}{
		{"jump", "JUMP:Main.build", Action{Kind: ActionJump, Target: "Main.build"}},
		{"call", "CALL:Review:Main.merge", Action{Kind: ActionCall, Target: "Review", Return: "Main.merge"}},
		{"return", "RETURN", Action{Kind: ActionReturn}},
		{"hold", "HOLD", Action{Kind: ActionHold}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if err != nil {
				t.Fatalf("ParseAction(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	inputs := []string{
		"",
		"FLY:Main.build",
		"JUMP",
		"JUMP:",
		"JUMP:noseparator",
		"JUMP:too.many.parts",
		"CALL",
		"CALL:Review",
		"CALL:Review:",
		"CALL::Main.merge",
		"CALL:Re.view:Main.merge",
		"CALL:Review:notablock",
		"RETURN:extra",
		"HOLD:extra",
		"jump:Main.build", // verbs are case-sensitive
	}

	for _, input := range inputs {
		if _, err := ParseAction(input); err == nil {
			t.Errorf("ParseAction(%q) succeeded, want parse error", input)
		} else {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ParseAction(%q) error %T, want *ParseError", input, err)
			}
		}
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Kind: ActionJump, Target: "A.b"}, "JUMP:A.b"},
		{Action{Kind: ActionCall, Target: "B", Return: "A.b"}, "CALL:B:A.b"},
		{Action{Kind: ActionReturn}, "RETURN"},
		{Action{Kind: ActionHold}, "HOLD"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseMergeDirective(t *testing.T) {
	got, err := ParseMergeDirective("MERGE:STATIC_MEMORY:role")
	if err != nil {
		t.Fatalf("ParseMergeDirective: %v", err)
	}
	want := MergeDirective{Source: MergeStaticMemory, Key: "role"}
	if got != want {
		t.Errorf("ParseMergeDirective = %+v, want %+v", got, want)
	}

	for _, input := range []string{"", "MERGE", "MERGE:STATIC_MEMORY", "MERGE:STATIC_MEMORY:", "MERGE:TOOLS:x", "INCLUDE:STATIC_MEMORY:x"} {
		if _, err := ParseMergeDirective(input); err == nil {
			t.Errorf("ParseMergeDirective(%q) succeeded, want error", input)
		}
	}
}
