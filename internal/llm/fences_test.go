package llm

import "testing"

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"ok":true}`, `{"ok":true}`},
		{"plain fences", "```\n{\"ok\":true}\n```", `{"ok":true}`},
		{"json tag", "```json\n{\"ok\":true}\n```", `{"ok":true}`},
		{"surrounding whitespace", "  ```json\n{\"ok\":true}\n```  ", `{"ok":true}`},
		{"multiline body", "```json\n{\n  \"ok\": true\n}\n```", "{\n  \"ok\": true\n}"},
		{"empty", "", ""},
		{"text without fences", "just a plain answer", "just a plain answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
