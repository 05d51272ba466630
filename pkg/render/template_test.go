package render

import (
	"testing"

	"github.com/emberpost/emberpost/pkg/errors"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Template
		wantErr bool
	}{
		{name: "basic", input: "basic", want: TemplateBasic},
		{name: "gradient", input: "gradient", want: TemplateGradient},
		{name: "minimal", input: "minimal", want: TemplateMinimal},
		{name: "empty defaults to basic", input: "", want: TemplateBasic},
		{name: "unknown", input: "fancy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemplate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTemplate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTemplate)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseTemplate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTemplateString(t *testing.T) {
	for _, tpl := range Templates() {
		name := tpl.String()
		parsed, err := ParseTemplate(name)
		if err != nil {
			t.Errorf("ParseTemplate(%q) error = %v", name, err)
		}
		if parsed != tpl {
			t.Errorf("ParseTemplate(String()) = %v, want %v", parsed, tpl)
		}
	}
}
