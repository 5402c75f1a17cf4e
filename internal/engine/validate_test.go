package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr string
	}{
		{name: "valid", mutate: func(*Input) {}},
		{name: "zero depth", mutate: func(in *Input) { in.MemberDepth = 0 }},
		{name: "zero outside diameter", mutate: func(in *Input) { in.OutsideDiameter = 0 }},
		{name: "zero price", mutate: func(in *Input) { in.CWTPrice = 0 }},
		{name: "no shape", mutate: func(in *Input) { in.Shape = 0 }, wantErr: "shape"},
		{name: "negative depth", mutate: func(in *Input) { in.MemberDepth = -0.1 }, wantErr: "member_depth"},
		{name: "NaN depth", mutate: func(in *Input) { in.MemberDepth = math.NaN() }, wantErr: "member_depth"},
		{name: "zero flange", mutate: func(in *Input) { in.FlangeWidth = 0 }, wantErr: "flange_width"},
		{name: "infinite flange", mutate: func(in *Input) { in.FlangeWidth = math.Inf(1) }, wantErr: "flange_width"},
		{name: "blank gauge", mutate: func(in *Input) { in.Gauge = " " }, wantErr: "gauge"},
		{name: "negative diameter", mutate: func(in *Input) { in.OutsideDiameter = -50 }, wantErr: "outside_diameter"},
		{name: "negative price", mutate: func(in *Input) { in.CWTPrice = -1 }, wantErr: "cwt_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioInput(CStud)
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
