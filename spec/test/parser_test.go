package test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestDiffTree(t *testing.T) {
	tests := []struct {
		t1        *Tree
		t2        *Tree
		different bool
	}{
		{
			t1: NewTree("a"),
			t2: NewTree("a"),
		},
		{
			t1: NewTree("a",
				NewTree("b"),
				NewTree("c"),
			),
			t2: NewTree("a",
				NewTree("b"),
				NewTree("c"),
			),
		},
		{
			t1: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
			),
			t2: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
			),
		},
		{
			t1: NewTree("_",
				NewTree("_"),
			),
			t2: NewTree("a",
				NewTree("b"),
			),
		},
		{
			t1:        NewTree("a"),
			t2:        NewTree("b"),
			different: true,
		},
		{
			t1: NewTree("a",
				NewTree("b"),
			),
			t2:        NewTree("a"),
			different: true,
		},
		{
			t1: NewTree("a"),
			t2: NewTree("a",
				NewTree("b"),
			),
			different: true,
		},
		{
			t1: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
			),
			t2: NewTree("a",
				NewTree("b",
					NewTree("d"),
				),
			),
			different: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			diffs := DiffTree(tt.t1.Fill(), tt.t2.Fill())
			if tt.different && len(diffs) == 0 {
				t.Fatalf("unexpected result")
			} else if !tt.different && len(diffs) > 0 {
				t.Fatalf("unexpected result")
			}
		})
	}
}

func TestDiffTree_path(t *testing.T) {
	expected := NewTree("s", NewTree("a"), NewTree("s", NewTree("c"))).Fill()
	actual := NewTree("s", NewTree("a"), NewTree("s", NewTree("d"))).Fill()
	diffs := DiffTree(expected, actual)
	if len(diffs) != 1 {
		t.Fatalf("unexpected diff count; want: 1, got: %v", len(diffs))
	}
	if diffs[0].ExpectedPath != "s.[1]s.[0]c" || diffs[0].ActualPath != "s.[1]s.[0]d" {
		t.Fatalf("unexpected paths; got: %v, %v", diffs[0].ExpectedPath, diffs[0].ActualPath)
	}
}

func TestParseTestCase(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		tc       *TestCase
		parseErr bool
	}{
		{
			caption: "a test case can expect a tree",
			src: `test
---
a c b
---
(s
    (a) (s (c)) (b))
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("a c b"),
				Verdict:     VerdictAccept,
				Output:      NewTree("s", NewTree("a"), NewTree("s", NewTree("c")), NewTree("b")).Fill(),
			},
		},
		{
			caption: "a kind can be quoted",
			src: `test
---
( id )
---
(f ("(") (e) (")"))
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("( id )"),
				Verdict:     VerdictAccept,
				Output:      NewTree("f", NewTree("("), NewTree("e"), NewTree(")")).Fill(),
			},
		},
		{
			caption: "a test case can expect only a verdict",
			src: `test
---
a c
---
reject
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("a c"),
				Verdict:     VerdictReject,
			},
		},
		{
			caption: "the length of a part delimiter may be greater than 3",
			src: `
test
----
c
----
accept
`,
			tc: &TestCase{
				Description: "\ntest",
				Source:      []byte("c"),
				Verdict:     VerdictAccept,
			},
		},
		{
			caption: "the description part may be empty",
			src: `----
c
----
(s (c))
`,
			tc: &TestCase{
				Description: "",
				Source:      []byte("c"),
				Verdict:     VerdictAccept,
				Output:      NewTree("s", NewTree("c")).Fill(),
			},
		},
		{
			caption: "the source part may be empty",
			src: `test
---
---
reject
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte{},
				Verdict:     VerdictReject,
			},
		},
		{
			caption:  "an empty test case is an error",
			src:      ``,
			parseErr: true,
		},
		{
			caption: "a test case without an expected part is an error",
			src: `test
---
c
`,
			parseErr: true,
		},
		{
			caption: "a short delimiter is not a delimiter",
			src: `test
--
c
--
accept
`,
			parseErr: true,
		},
		{
			caption: "an unknown verdict is an error",
			src: `test
---
c
---
maybe
`,
			parseErr: true,
		},
		{
			caption: "an unclosed tree is an error",
			src: `test
---
c
---
(s (c)
`,
			parseErr: true,
		},
		{
			caption: "a tree without a kind is an error",
			src: `test
---
c
---
(s ())
`,
			parseErr: true,
		},
		{
			caption: "two trees are an error",
			src: `test
---
c
---
(s) (s)
`,
			parseErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tc, err := ParseTestCase(strings.NewReader(tt.src))
			if tt.parseErr {
				if err == nil {
					t.Fatalf("an expected error didn't occur")
				}
			} else {
				if err != nil {
					t.Fatal(err)
				}
				testTestCase(t, tt.tc, tc)
			}
		})
	}
}

func TestTree_Format(t *testing.T) {
	tree := NewTree("f", NewTree("("), NewTree("e", NewTree("id")), NewTree(")"))
	expected := `(f
    ("(")
    (e
        (id))
    (")"))`
	if s := string(tree.Format()); s != expected {
		t.Fatalf("unexpected format; want:\n%v\ngot:\n%v", expected, s)
	}
}

func testTestCase(t *testing.T, expected, actual *TestCase) {
	t.Helper()

	if expected.Description != actual.Description ||
		!reflect.DeepEqual(expected.Source, actual.Source) ||
		expected.Verdict != actual.Verdict {
		t.Fatalf("unexpected test case: want: %#v, got: %#v", expected, actual)
	}
	if (expected.Output == nil) != (actual.Output == nil) {
		t.Fatalf("unexpected output: want: %#v, got: %#v", expected.Output, actual.Output)
	}
	if expected.Output != nil && len(DiffTree(expected.Output, actual.Output)) > 0 {
		t.Fatalf("unexpected output: want: %s, got: %s", expected.Output.Format(), actual.Output.Format())
	}
}
