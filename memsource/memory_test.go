package memsource_test

import (
	"context"
	"testing"

	"samplerctl/controls"
	"samplerctl/controls/sourcetest"
	"samplerctl/memsource"
)

func TestConformance(t *testing.T) {
	sourcetest.Run(t, func(t *testing.T) controls.Source {
		return memsource.New(sourcetest.Tree())
	})
}

func TestMutateRecordsOneEventPerWrite(t *testing.T) {
	src := memsource.New(sourcetest.Tree())
	snap, err := src.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	params := controls.Enumerate(snap, controls.DefaultSchema())
	if len(params) == 0 {
		t.Fatalf("no parameters enumerated")
	}
	temp := params[0]

	v := 1.0
	if err := src.Mutate(context.Background(), controls.Mutation{Ref: temp.Ref, Value: &v}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if got := src.ChangeCount(temp.Ref.RawID); got != 1 {
		t.Fatalf("change count = %d, want 1", got)
	}
	if err := src.Mutate(context.Background(), controls.Mutation{Ref: temp.Ref, Value: &v}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if got := src.ChangeCount(temp.Ref.RawID); got != 2 {
		t.Fatalf("change count = %d, want 2", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	src := memsource.New(sourcetest.Tree())
	snap, _ := src.Snapshot(context.Background())
	in := snap.FindByID("temp_counter")
	in.Attrs["value"] = "999"

	again, _ := src.Snapshot(context.Background())
	if got := again.FindByID("temp_counter").Attr("value"); got != "0.7" {
		t.Fatalf("snapshot mutation leaked into source: value = %q", got)
	}
}

func TestAbsentUI(t *testing.T) {
	src := memsource.New(nil)
	snap, err := src.Snapshot(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("absent UI should snapshot to nil, nil; got %+v, %v", snap, err)
	}
	if params := controls.Enumerate(snap, controls.DefaultSchema()); len(params) != 0 {
		t.Fatalf("absent UI should enumerate to nothing, got %+v", params)
	}

	v := 1.0
	err = src.Mutate(context.Background(), controls.Mutation{Ref: controls.Ref{RawID: "x"}, Value: &v})
	if err == nil {
		t.Fatalf("mutating an absent UI should fail")
	}
}

func TestEmptyMutationFails(t *testing.T) {
	src := memsource.New(sourcetest.Tree())
	err := src.Mutate(context.Background(), controls.Mutation{Ref: controls.Ref{RawID: "temp_counter"}})
	if err == nil {
		t.Fatalf("empty mutation should fail")
	}
}
