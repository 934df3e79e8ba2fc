package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "scan_content", Stage("scan_content")},
		{"Source", KeySource, "posts/a.md", Source("posts/a.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Layout", KeyLayout, "post", Layout("post")},
		{"Collection", KeyCollection, "posts", Collection("posts")},
		{"Output", KeyOutput, "./public", Output("./public")},
		{"URL", KeyURL, "/posts/a/", URL("/posts/a/")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	a := Error(errors.New("boom"))
	if a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected attr: %v", a)
	}
	if Error(nil).Value.String() != "" {
		t.Fatalf("nil error should map to empty string")
	}
}
