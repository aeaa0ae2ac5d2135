package app_test

import (
	"encoding/json"
	"testing"

	"movie_review/internal/app"
)

func TestEscapeNewlinesInStrings(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"newline inside string", "\"a\nb\"", `"a\nb"`},
		{"newline outside string", "{\n\"k\": 1\n}", "{\n\"k\": 1\n}"},
		{"escaped quote keeps string open", "{\"q\":\"say \\\"hi\\\"\nthere\"}", `{"q":"say \"hi\"\nthere"}`},
		{"several strings", "[\"x\ny\",\n\"z\"]", "[\"x\\ny\",\n\"z\"]"},
		{"unterminated string", "\"open\nstill", `"open\nstill`},
		{"utf-8 passes through", "\"café\n☕\"", `"café\n☕"`},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := app.EscapeNewlinesInStrings(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEscapeNewlinesInStrings_Idempotent(t *testing.T) {
	for _, in := range []string{
		"{\n  \"title\": \"T\",\n  \"content\": \"para 1\n\npara 2\"\n}",
		"\"a\\\"\nb\"\n\"c\"",
		"no quotes\nat all\n",
	} {
		once := app.EscapeNewlinesInStrings(in)
		if twice := app.EscapeNewlinesInStrings(once); twice != once {
			t.Fatalf("second pass changed output:\n once=%q\ntwice=%q", once, twice)
		}
	}
}

func TestSanitizeWebhookText(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{
			"json fence",
			"```json\n{\"title\":\"T\",\"content\":\"C line1\nline2\"}\n```",
			`{"title":"T","content":"C line1\nline2"}`,
		},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"content label", "  Content :  {\"a\":1}  ", `{"a":1}`},
		{"label after fence", "```json\nContent: {\"a\":\"x\ny\"}\n```", `{"a":"x\ny"}`},
		{"label is case-sensitive", "content: {\"a\":1}", `content: {"a":1}`},
		{"label only at start", "{\"a\":\"Content: kept\"}", `{"a":"Content: kept"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := app.SanitizeWebhookText(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSanitizeWebhookText_ParsesToOriginalNewline(t *testing.T) {
	clean := app.SanitizeWebhookText("```json\n{\"content\":\"C line1\nline2\"}\n```")
	var v struct{ Content string }
	if err := json.Unmarshal([]byte(clean), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Content != "C line1\nline2" {
		t.Fatalf("content = %q", v.Content)
	}
}
