package nogscript

import "testing"

func TestTokenizeArithmeticAndKeywords(t *testing.T) {
	toks, err := Tokenize(`var x = 1 + 2 * 3
if x >= 3 { print(x) }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		KindVar, KindIdentifier, KindEqual, KindNumberLiteral, KindPlus, KindNumberLiteral,
		KindStar, KindNumberLiteral,
		KindIf, KindIdentifier, KindGTE, KindNumberLiteral, KindLCurly, KindIdentifier,
		KindLParen, KindIdentifier, KindRParen, KindRCurly, KindEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"hello\tworld\n"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != KindStringLiteral || toks[0].Text != "hello\tworld\n" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestTokenizeHexNumber(t *testing.T) {
	toks, err := Tokenize("0xFF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != KindNumberLiteral || toks[0].Text != "0xFF" {
		t.Fatalf("got %+v", toks[0])
	}
	if got := parseNumberLiteral(toks[0].Text); got != 255 {
		t.Fatalf("got %d, want 255", got)
	}
}

func TestTokenizeClassIdentifier(t *testing.T) {
	toks, err := Tokenize("MyClass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != KindClassIdentifier {
		t.Fatalf("got %s, want class-identifier", toks[0].Kind)
	}
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}
