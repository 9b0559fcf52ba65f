package editor

import "testing"

func TestPostProcessTrims(t *testing.T) {
	got, err := PostProcess("  \n some text \n\n")
	if err != nil {
		t.Fatalf("postprocess failed: %v", err)
	}

	if got != "some text" {
		t.Errorf("expected %q, got %q", "some text", got)
	}
}

func TestPostProcessStripsFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```\nfenced body\n```", "fenced body"},
		{"```text\nfenced body\n```", "fenced body"},
		{"no fence here", "no fence here"},
		{"``` but not closed", "``` but not closed"},
		{"code `inline` stays intact", "code `inline` stays intact"},
		{"```\nkeeps\ninner\nlines\n```", "keeps\ninner\nlines"},
	}

	for _, c := range cases {
		got, err := PostProcess(c.in)
		if err != nil {
			t.Fatalf("postprocess(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("postprocess(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPostProcessEmpty(t *testing.T) {
	if _, err := PostProcess("   \n\t "); err == nil {
		t.Fatal("empty model output should be an error")
	}
}
