// Package sourcetest provides a conformance suite for controls.Source
// implementations. A binding passes if snapshots of the standard fixture
// enumerate correctly and mutations become visible on the next snapshot.
//
// The fixture exists in two parallel forms that must stay in sync: Tree for
// in-memory bindings and HTML for browser-backed ones.
package sourcetest

import (
	"context"
	"testing"

	"samplerctl/controls"
	"samplerctl/uitree"
)

// Factory builds the Source under test, preloaded with the standard fixture.
type Factory func(t *testing.T) controls.Source

// Tree is the standard fixture as a uitree snapshot: one temperature slider
// and one stream checkbox inside the default panel markup.
func Tree() *uitree.Node {
	return uitree.El("div", uitree.ID("settings-drawer"), uitree.Kids(
		uitree.El("div", uitree.ID("sampler-settings"), uitree.Kids(
			uitree.El("div", uitree.Class("range-block"), uitree.Kids(
				uitree.El("span", uitree.Class("block-title"), uitree.Text("Temperature")),
				uitree.El("input", uitree.ID("temp_counter"),
					uitree.Attr("type", "range"),
					uitree.Attr("min", "0"), uitree.Attr("max", "2"), uitree.Attr("value", "0.7")),
			)),
			uitree.El("div", uitree.Class("checkbox-block"), uitree.Kids(
				uitree.El("label", uitree.Text("Stream")),
				uitree.El("input", uitree.ID("stream_openai"),
					uitree.Attr("type", "checkbox"), uitree.Attr("checked", "true")),
			)),
		)),
	))
}

// HTML is the standard fixture as a page, for browser-backed bindings. The
// inline script counts bubbled change events per control id so integration
// tests can assert on notification delivery.
const HTML = `<!DOCTYPE html>
<html><head><style>
.range-block, .checkbox-block { display: block; }
</style></head>
<body>
<div id="settings-drawer">
  <div id="sampler-settings">
    <div class="range-block">
      <span class="block-title">Temperature</span>
      <input id="temp_counter" type="range" min="0" max="2" value="0.7" step="0.01">
    </div>
    <div class="checkbox-block">
      <label>Stream</label>
      <input id="stream_openai" type="checkbox" checked>
    </div>
  </div>
</div>
<script>
window.__changes = {};
document.addEventListener('change', function (e) {
  var id = e.target && e.target.id;
  if (!id) return;
  window.__changes[id] = (window.__changes[id] || 0) + 1;
});
</script>
</body></html>`

// Run executes the conformance suite against the factory's Source.
func Run(t *testing.T, factory Factory) {
	t.Helper()
	schema := controls.DefaultSchema()

	list := func(t *testing.T, src controls.Source) []controls.Parameter {
		t.Helper()
		snap, err := src.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		return controls.Enumerate(snap, schema)
	}

	find := func(t *testing.T, params []controls.Parameter, id string) controls.Parameter {
		t.Helper()
		for _, p := range params {
			if p.ID == id {
				return p
			}
		}
		t.Fatalf("parameter %q not enumerated; got %+v", id, params)
		return controls.Parameter{}
	}

	t.Run("EnumerateFixture", func(t *testing.T) {
		src := factory(t)
		params := list(t, src)
		if len(params) != 2 {
			t.Fatalf("enumerated %d parameters, want 2: %+v", len(params), params)
		}

		temp := find(t, params, "temp")
		if temp.Name != "Temperature" || temp.Kind != controls.KindNumeric {
			t.Fatalf("temperature parameter wrong: %+v", temp)
		}
		if temp.Min != 0 || temp.Max != 2 || temp.Value != 0.7 {
			t.Fatalf("temperature range/value wrong: %+v", temp)
		}

		stream := find(t, params, "stream")
		if stream.Name != "Stream" || stream.Kind != controls.KindBoolean || !stream.Checked {
			t.Fatalf("stream parameter wrong: %+v", stream)
		}
	})

	t.Run("MutateValueVisibleOnNextSnapshot", func(t *testing.T) {
		src := factory(t)
		temp := find(t, list(t, src), "temp")

		v := 1.5
		if err := src.Mutate(context.Background(), controls.Mutation{Ref: temp.Ref, Value: &v}); err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		after := find(t, list(t, src), "temp")
		if after.Value != 1.5 {
			t.Fatalf("value after mutate = %v, want 1.5", after.Value)
		}
	})

	t.Run("MutateCheckedVisibleOnNextSnapshot", func(t *testing.T) {
		src := factory(t)
		stream := find(t, list(t, src), "stream")

		b := false
		if err := src.Mutate(context.Background(), controls.Mutation{Ref: stream.Ref, Checked: &b}); err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		after := find(t, list(t, src), "stream")
		if after.Checked {
			t.Fatalf("checkbox still checked after mutate")
		}
	})

	t.Run("MutateUnknownControlFails", func(t *testing.T) {
		src := factory(t)
		v := 1.0
		m := controls.Mutation{Ref: controls.Ref{Path: []int{9, 9, 9}, RawID: "no-such-control"}, Value: &v}
		if err := src.Mutate(context.Background(), m); err == nil {
			t.Fatalf("mutating an unknown control should fail")
		}
	})
}
