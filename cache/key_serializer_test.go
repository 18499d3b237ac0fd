package cache

import (
	"testing"
	"time"
)

func TestSerializeKey(t *testing.T) {
	s := NewDefaultKeySerializer()

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{"no args", "job_infos.find_all", nil, "job_infos.find_all"},
		{"single string", "job_infos.find_by_id", []any{"j1"}, "job_infos.find_by_id::j1"},
		{"multiple strings", "questions.find_by_id_for_owner", []any{"q1", "u1"}, "questions.find_by_id_for_owner::q1::u1"},
		{"numbers and bools", "m", []any{42, true}, "m::42::true"},
		{"nil arg", "m", []any{nil}, "m::nil"},
		{"string slice", "m", []any{[]string{"a", "b"}}, "m::[a,b]"},
		{"stringer", "m", []any{time.Duration(time.Second)}, "m::1s"},
		{"struct falls back to json", "m", []any{struct {
			ID string `json:"id"`
		}{ID: "x"}}, `m::json:{"id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SerializeKey(tt.method, tt.args...)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeKeyStable(t *testing.T) {
	s := NewDefaultKeySerializer()
	a := s.SerializeKey("m", "j1", "u1")
	b := s.SerializeKey("m", "j1", "u1")
	if a != b {
		t.Errorf("keys differ across calls: %q vs %q", a, b)
	}
}
