package compiler

import "testing"

func TestScopeStackLookupInnermostFirst(t *testing.T) {
	s := newScopeStack()
	outer := s.push()
	outer.vars["x"] = &Variable{Kind: NumericValue}
	inner := s.push()
	inner.vars["x"] = &Variable{Kind: BoolValue}

	v, ok := s.lookup("x")
	if !ok {
		t.Fatal("expected to find x")
	}
	if v.Kind != BoolValue {
		t.Errorf("expected innermost binding (BoolValue), got %v", v.Kind)
	}

	s.pop()
	v, ok = s.lookup("x")
	if !ok || v.Kind != NumericValue {
		t.Errorf("expected outer binding after pop, got ok=%v kind=%v", ok, v.Kind)
	}
}

func TestScopeStackLookupMiss(t *testing.T) {
	s := newScopeStack()
	s.push()
	if _, ok := s.lookup("missing"); ok {
		t.Error("expected lookup miss for unbound name")
	}
}

func TestScopeTrackUntrack(t *testing.T) {
	sc := newScope()
	heap := Value{Kind: StringValue}
	sc.track(heap)
	if len(sc.tracked) != 1 {
		t.Fatalf("expected 1 tracked value, got %d", len(sc.tracked))
	}
	sc.untrack(heap)
	if len(sc.tracked) != 0 {
		t.Fatalf("expected 0 tracked values after untrack, got %d", len(sc.tracked))
	}
}

func TestScopeTrackIgnoresNonHeapValues(t *testing.T) {
	sc := newScope()
	sc.track(Value{Kind: NumericValue})
	if len(sc.tracked) != 0 {
		t.Errorf("expected numeric values to not be tracked, got %d", len(sc.tracked))
	}
}
