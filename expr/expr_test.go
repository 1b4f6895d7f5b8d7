package expr

import "testing"

func TestIsExpressionRecognizesDelimiters(t *testing.T) {
	cases := map[string]bool{
		`#{Header("X-User")}`: true,
		`#{}`:                 true,
		`plain-value`:         false,
		`#{unterminated`:      false,
		`unterminated}`:       false,
	}
	for in, want := range cases {
		if got := IsExpression(in); got != want {
			t.Errorf("IsExpression(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBodyStripsDelimiters(t *testing.T) {
	if got := Body(`#{Header("X-User")}`); got != `Header("X-User")` {
		t.Fatalf("got %q", got)
	}
}

func TestDefaultEvaluatesSimpleExpression(t *testing.T) {
	d := Default{}
	out, err := d.Evaluate(`"prefix-" + name`, map[string]interface{}{"name": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "prefix-abc" {
		t.Fatalf("got %q", out)
	}
}

func TestDefaultReturnsErrorOnBadExpression(t *testing.T) {
	d := Default{}
	if _, err := d.Evaluate("not a valid expr (((", nil); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestStubReturnsConfiguredValueOrError(t *testing.T) {
	s := Stub{Value: "fixed"}
	out, err := s.Evaluate("anything", nil)
	if err != nil || out != "fixed" {
		t.Fatalf("got %q, %v", out, err)
	}

	failing := Stub{Err: errTest}
	if _, err := failing.Evaluate("anything", nil); err != errTest {
		t.Fatalf("got %v", err)
	}
}

var errTest = errStub("stub failure")

type errStub string

func (e errStub) Error() string { return string(e) }
