package services

import (
	"testing"

	types "github.com/titanfab/qcmaster-backend/internal/domain"
)

func TestConfigValueError(t *testing.T) {
	cases := []struct {
		name       string
		configType string
		value      string
		wantErr    bool
	}{
		{"number ok", types.ConfigTypeNumber, "42", false},
		{"number decimal ok", types.ConfigTypeNumber, "0.25", false},
		{"number bad", types.ConfigTypeNumber, "five", true},
		{"boolean true", types.ConfigTypeBoolean, "true", false},
		{"boolean mixed case", types.ConfigTypeBoolean, "TRUE", false},
		{"boolean bad", types.ConfigTypeBoolean, "yes", true},
		{"json ok", types.ConfigTypeJSON, `{"levels":[1,2]}`, false},
		{"json bad", types.ConfigTypeJSON, "{broken", true},
		{"string anything goes", types.ConfigTypeString, "{broken", false},
		{"unknown type passes through", "color", "#ff0000", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := configValueError(tc.configType, tc.value)
			if tc.wantErr && msg == "" {
				t.Errorf("configValueError(%q, %q) accepted the value", tc.configType, tc.value)
			}
			if !tc.wantErr && msg != "" {
				t.Errorf("configValueError(%q, %q) = %q", tc.configType, tc.value, msg)
			}
		})
	}
}
