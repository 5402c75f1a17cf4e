package config

import (
	"fmt"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/tables"
)

// Input resolves the configured defaults against the loaded tables. A
// configured flange width or gauge missing from the tables is an error
// wrapping tables.ErrKeyNotFound: defaults that cannot be selected are a
// startup failure.
func (d DefaultsConfig) Input(t *tables.Tables) (engine.Input, error) {
	in := engine.DefaultInput(t)
	in.MemberDepth = d.MemberDepth
	in.OutsideDiameter = d.OutsideDiameter
	in.CWTPrice = d.CWTPrice

	if d.Shape != "" {
		shape, err := engine.ParseShape(d.Shape)
		if err != nil {
			return engine.Input{}, fmt.Errorf("defaults.shape: %w", err)
		}
		in.Shape = shape
	}
	if d.FlangeWidth != "" {
		w, err := tables.ParseFlangeWidth(d.FlangeWidth)
		if err != nil {
			return engine.Input{}, fmt.Errorf("defaults.flange_width: %w", err)
		}
		in.FlangeWidth = w
	}
	if d.Gauge != "" {
		in.Gauge = tables.ParseGauge(d.Gauge)
	}

	if err := t.CheckSelectors([]float64{in.FlangeWidth}, []tables.Gauge{in.Gauge}); err != nil {
		return engine.Input{}, fmt.Errorf("configured defaults: %w", err)
	}
	return in, nil
}

// LoadTables loads the configured reference tables, or the embedded ones
// when no file is configured.
func (tc TablesConfig) LoadTables() (*tables.Tables, error) {
	if tc.FlangeFile == "" {
		return tables.Default()
	}
	return tables.LoadFiles(tc.FlangeFile, tc.GaugeFile)
}
