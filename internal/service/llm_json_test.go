package service

import "testing"

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"objeto simple", `{"a":1}`, `{"a":1}`, true},
		{"texto alrededor", `Sure! {"a":{"b":2}} hope it helps`, `{"a":{"b":2}}`, true},
		{"llaves dentro de strings", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"salta llaves que no son json", `{pensando} {"a":1}`, `{"a":1}`, true},
		{"sin objeto", `no json here`, ``, false},
		{"sin cerrar", `{"a":1`, ``, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := firstJSONObject(tc.input)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestCleanLLMJSONResponse(t *testing.T) {
	raw := "\uFEFF```json\n{\"traits\": []}\n```"
	if got := cleanLLMJSONResponse(raw); got != `{"traits": []}` {
		t.Fatalf("unexpected cleaned response %q", got)
	}
	if got := cleanLLMJSONResponse("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	parsed, err := decodeLLMJSON[interestsResponse]("```json\n{\"interests\": [\"music\", \"hiking\"]}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed.Interests) != 2 || parsed.Interests[1] != "hiking" {
		t.Fatalf("unexpected interests %v", parsed.Interests)
	}

	if _, err := decodeLLMJSON[scorerResponse]("the model refused"); err == nil {
		t.Fatalf("expected error without json object")
	}
	if _, err := decodeLLMJSON[scorerResponse](`{"traits": "oops"}`); err == nil {
		t.Fatalf("expected error for mismatched json shape")
	}
}
