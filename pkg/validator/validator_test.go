package validator

import "testing"

type sampleRequest struct {
	Title    string `json:"title" validate:"required,notblank,max=10"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM"`
}

func TestValidate_FieldErrors(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		req    sampleRequest
		fields map[string]string
	}{
		{"valid", sampleRequest{Title: "ok", Priority: "LOW"}, nil},
		{"missing title", sampleRequest{}, map[string]string{"title": "required"}},
		{"whitespace title", sampleRequest{Title: "   "}, map[string]string{"title": "notblank"}},
		{"bad priority", sampleRequest{Title: "ok", Priority: "HUGE"}, map[string]string{"priority": "oneof=LOW MEDIUM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			got := FieldErrors(err)
			if len(got) != len(tt.fields) {
				t.Fatalf("expected %v, got %v", tt.fields, got)
			}
			for k, want := range tt.fields {
				if got[k] != want {
					t.Fatalf("field %s: expected %q, got %q", k, want, got[k])
				}
			}
		})
	}
}
