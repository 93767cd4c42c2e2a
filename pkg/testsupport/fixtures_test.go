package testsupport

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVitalsFormMatchesJSONFixture(t *testing.T) {
	got := MustLoadFormModel(t, filepath.Join("testdata", "vitals_form_model.json"))

	if diff := cmp.Diff(VitalsForm(), got); diff != "" {
		t.Fatalf("fixture drifted from VitalsForm (-want +got):\n%s", diff)
	}
}

func TestLoadFormModelErrors(t *testing.T) {
	if _, err := LoadFormModel(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadFormModel(filepath.Join("testdata", "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCaptureTemplateOutput(t *testing.T) {
	out, written := CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		_, err := io.WriteString(w, "<p>ok</p>")
		return "<p>ok</p>", err
	})
	if out != written || out != "<p>ok</p>" {
		t.Fatalf("unexpected capture %q / %q", out, written)
	}
}
