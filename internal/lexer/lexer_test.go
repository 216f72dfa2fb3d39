package lexer

import "testing"

func TestLexArithmetic(t *testing.T) {
	items, err := Lex("a = 1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []ItemType{ItemIdent, ItemAssign, ItemNumber, ItemPlus, ItemNumber, ItemStar, ItemNumber, ItemEOF}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
	for i, typ := range want {
		if items[i].Typ != typ {
			t.Errorf("item %d: got %s, want %s", i, items[i].Typ, typ)
		}
	}
}

func TestLexKeywordsAndPunctuation(t *testing.T) {
	items, err := Lex(`if a == b { break } else { while true {} }`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []ItemType{
		ItemKeywordIf, ItemIdent, ItemEqEq, ItemIdent, ItemLBrace, ItemKeywordBreak, ItemRBrace,
		ItemKeywordElse, ItemLBrace, ItemKeywordWhile, ItemKeywordTrue, ItemLBrace, ItemRBrace, ItemRBrace,
		ItemEOF,
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
	for i, typ := range want {
		if items[i].Typ != typ {
			t.Errorf("item %d: got %s, want %s", i, items[i].Typ, typ)
		}
	}
}

func TestLexString(t *testing.T) {
	items, err := Lex(`print("hello\n")`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if items[2].Typ != ItemString {
		t.Fatalf("expected ItemString, got %s", items[2].Typ)
	}
	if items[2].Val != `hello\n` {
		t.Errorf("got %q, want %q", items[2].Val, `hello\n`)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`"unterminated`)
	if err == nil {
		t.Fatal("expected error for unterminated string literal")
	}
}

func TestLexArrows(t *testing.T) {
	items, err := Lex("fn(x: num) -> num { x }")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var sawThinArrow bool
	for _, it := range items {
		if it.Typ == ItemThinArrow {
			sawThinArrow = true
		}
	}
	if !sawThinArrow {
		t.Error("expected a ThinArrow token for '->'")
	}
}

func TestLexComment(t *testing.T) {
	items, err := Lex("1 // trailing comment\n+ 2")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []ItemType{ItemNumber, ItemPlus, ItemNumber, ItemEOF}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
}
