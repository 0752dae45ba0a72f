package manifest

import (
	"errors"
	"testing"
)

// buildManifest is the shared fixture: a root node that calls a reusable
// review subroutine.
func buildManifest() *Manifest {
	return &Manifest{
		Version: "1.0.0",
		Nodes: map[string]*Node{
			"Main": {
				EntryBlock:         "plan",
				ContextInheritance: true,
				StaticMemory:       map[string]string{"role": "architect"},
				Blocks: map[string]*Block{
					"plan": {
						Worker: "codegen",
						Merge:  []MergeDirective{{Source: MergeStaticMemory, Key: "role"}},
						Transitions: []Transition{
							{OnSignal: "SUCCESS", Action: Action{Kind: ActionJump, Target: "Main.build"}},
						},
					},
					"build": {
						Worker: "codegen",
						Transitions: []Transition{
							{OnSignal: "SUCCESS", Action: Action{Kind: ActionCall, Target: "Review", Return: "Main.done"}},
							{OnSignal: SignalFailDefault, Action: Action{Kind: ActionJump, Target: "Main.plan"}},
						},
					},
					"done": {Worker: "codegen"},
				},
			},
			"Review": {
				EntryBlock:         "check",
				ContextInheritance: false,
				StaticMemory:       map[string]string{"role": "reviewer"},
				Blocks: map[string]*Block{
					"check": {
						Worker: "review",
						Transitions: []Transition{
							{OnSignal: "APPROVED", Action: Action{Kind: ActionReturn}},
						},
					},
				},
			},
		},
	}
}

func TestSplitBlockID(t *testing.T) {
	node, block, err := SplitBlockID("Main.plan")
	if err != nil {
		t.Fatalf("SplitBlockID: %v", err)
	}
	if node != "Main" || block != "plan" {
		t.Errorf("SplitBlockID = (%q, %q), want (Main, plan)", node, block)
	}

	for _, id := range []string{"", "Main", ".plan", "Main.", "a.b.c"} {
		if _, _, err := SplitBlockID(id); !errors.Is(err, ErrBadBlockID) {
			t.Errorf("SplitBlockID(%q) err = %v, want ErrBadBlockID", id, err)
		}
	}
}

func TestIsNodeRef(t *testing.T) {
	if !IsNodeRef("Main") {
		t.Error("IsNodeRef(Main) = false, want true")
	}
	if IsNodeRef("Main.plan") {
		t.Error("IsNodeRef(Main.plan) = true, want false")
	}
	if IsNodeRef("") {
		t.Error("IsNodeRef(\"\") = true, want false")
	}
}

func TestResolve(t *testing.T) {
	m := buildManifest()

	node, block, err := m.Resolve("Main.plan")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if node.EntryBlock != "plan" {
		t.Errorf("node.EntryBlock = %q, want plan", node.EntryBlock)
	}
	if block.Worker != "codegen" {
		t.Errorf("block.Worker = %q, want codegen", block.Worker)
	}

	if _, _, err := m.Resolve("Missing.plan"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Resolve(Missing.plan) err = %v, want ErrNodeNotFound", err)
	}
	if _, _, err := m.Resolve("Main.missing"); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("Resolve(Main.missing) err = %v, want ErrBlockNotFound", err)
	}
	if _, _, err := m.Resolve("noseparator"); !errors.Is(err, ErrBadBlockID) {
		t.Errorf("Resolve(noseparator) err = %v, want ErrBadBlockID", err)
	}
}

func TestEntryBlockID(t *testing.T) {
	m := buildManifest()

	id, err := m.EntryBlockID("Review")
	if err != nil {
		t.Fatalf("EntryBlockID: %v", err)
	}
	if id != "Review.check" {
		t.Errorf("EntryBlockID = %q, want Review.check", id)
	}

	if _, err := m.EntryBlockID("Missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("EntryBlockID(Missing) err = %v, want ErrNodeNotFound", err)
	}
}

func TestFindTransition(t *testing.T) {
	m := buildManifest()
	_, block, err := m.Resolve("Main.build")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tr, ok := block.FindTransition("SUCCESS")
	if !ok || tr.Action.Kind != ActionCall {
		t.Errorf("FindTransition(SUCCESS) = %+v, %v", tr, ok)
	}

	// FindTransition is exact-match only; the fallback is the caller's job.
	if _, ok := block.FindTransition("NO_SUCH_SIGNAL"); ok {
		t.Error("FindTransition matched an undefined signal")
	}
	if tr, ok := block.FindTransition(SignalFailDefault); !ok || tr.Action.Target != "Main.plan" {
		t.Errorf("FindTransition(FAIL_DEFAULT) = %+v, %v", tr, ok)
	}
}
