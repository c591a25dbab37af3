package catalog

import "testing"

func testSpecs() []ModelSpec {
	return []ModelSpec{
		{ID: "model-a", Name: "A", InputPerMTok: 1, OutputPerMTok: 2},
		{ID: "model-b", Name: "B", InputPerMTok: 3, OutputPerMTok: 15, Vision: true},
		{ID: "model-c", Name: "C", InputPerMTok: 0.5, OutputPerMTok: 1},
	}
}

func TestResolve_PreservesOrderAndDedupes(t *testing.T) {
	r := NewRegistry(testSpecs(), 0)

	specs := r.Resolve([]string{"model-b", "model-a", "model-b", "model-a"})
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].ID != "model-b" || specs[1].ID != "model-a" {
		t.Errorf("expected [model-b model-a], got [%s %s]", specs[0].ID, specs[1].ID)
	}
}

func TestResolve_DropsUnknownSilently(t *testing.T) {
	r := NewRegistry(testSpecs(), 0)

	specs := r.Resolve([]string{"nope/nothing", "model-a", "also/missing"})
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	if specs[0].ID != "model-a" {
		t.Errorf("expected model-a, got %s", specs[0].ID)
	}
}

func TestResolve_CapsSelection(t *testing.T) {
	r := NewRegistry(testSpecs(), 2)

	specs := r.Resolve([]string{"model-a", "model-b", "model-c"})
	if len(specs) != 2 {
		t.Fatalf("expected cap at 2, got %d", len(specs))
	}
}

func TestRates_KnownModel(t *testing.T) {
	r := NewRegistry(testSpecs(), 0)

	in, out := r.Rates("model-a")
	if in != 1 || out != 2 {
		t.Errorf("expected (1, 2), got (%v, %v)", in, out)
	}
}

func TestRates_UnknownModelUsesDefaults(t *testing.T) {
	r := NewRegistry(testSpecs(), 0)

	in, out := r.Rates("unknown/model")
	if in != defaultInputPrice || out != defaultOutputPrice {
		t.Errorf("expected defaults (%v, %v), got (%v, %v)", defaultInputPrice, defaultOutputPrice, in, out)
	}
}

func TestNewRegistry_IgnoresDuplicateIDs(t *testing.T) {
	specs := append(testSpecs(), ModelSpec{ID: "model-a", Name: "shadow"})
	r := NewRegistry(specs, 0)

	s, ok := r.Lookup("model-a")
	if !ok {
		t.Fatal("expected model-a present")
	}
	if s.Name != "A" {
		t.Errorf("expected first registration to win, got %q", s.Name)
	}
	if len(r.List()) != 3 {
		t.Errorf("expected 3 models, got %d", len(r.List()))
	}
}

func TestDefaultModels_HaveRates(t *testing.T) {
	for _, s := range DefaultModels() {
		if s.InputPerMTok <= 0 || s.OutputPerMTok <= 0 {
			t.Errorf("model %s missing rates", s.ID)
		}
		if s.Name == "" || s.Provider == "" {
			t.Errorf("model %s missing display metadata", s.ID)
		}
	}
}
