package lalrkit

import "testing"

func TestSpan(t *testing.T) {
	s := Span{3, 7}
	if s.From() != 3 || s.To() != 7 || s.Len() != 4 {
		t.Errorf("unexpected span accessors for %v", s)
	}
	if x := s.Extend(Span{1, 5}); x != (Span{1, 7}) {
		t.Errorf("expected extended span (1…7), is %v", x)
	}
	if !(Span{}).IsNull() || s.IsNull() {
		t.Errorf("IsNull reports wrong spans")
	}
	if s.String() != "(3…7)" {
		t.Errorf("unexpected span format %s", s)
	}
}

func TestTokens(t *testing.T) {
	toks := Tokens("id", "+", "id")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, have %d", len(toks))
	}
	for i, tok := range toks {
		if tok.Name() != tok.Lexeme() {
			t.Errorf("expected lexeme of token #%d to equal its name", i)
		}
		if tok.Span() != (Span{uint64(i), uint64(i + 1)}) {
			t.Errorf("unexpected span %v for token #%d", tok.Span(), i)
		}
	}
	tok := MakeToken(EndMarker, "", Span{5, 5})
	if tok.Name() != "$" || tok.String() != `<$ "" (5…5)>` {
		t.Errorf("unexpected end-marker token %v", tok)
	}
}
