package ingest

// Canonical column names shared by the built-in profiles.
const (
	ColTemperature    = "Temperature"
	ColR1             = "R1"
	ColR2             = "R2"
	ColCurrent        = "Current"
	ColMagneticField  = "MagneticField"
	ColHeatCapacity   = "HeatCapacity"
	ColMagneticMoment = "MagneticMoment"
	ColFrequency      = "Frequency"
	ColXReal          = "XReal"
	ColXImag          = "XImag"
)

// Profile ids of the built-in instruments.
const (
	ProfileDewar              = "dewar"
	ProfileDewarStrip         = "dewar_strip"
	ProfilePPMS               = "ppms"
	ProfileCurrentEffect      = "current_effect"
	ProfilePPMSMagnetic       = "ppms_magnetic"
	ProfilePPMSHeatCapacity   = "ppms_heat_capacity"
	ProfilePPMSHeatCapacityCW = "ppms_heat_capacity_cw"
	ProfileMPMSMagnetic       = "mpms_magnetic"
	ProfileMPMS               = "mpms"
	ProfileMPMSAC             = "mpms_ac"
)

// FieldStep is the bin width for PPMS heat capacity field readings, in Oe.
const FieldStep = 10

func init() {
	resistance := []string{ColTemperature, ColR1, ColR2}

	Register(InstrumentProfile{
		ID:            ProfileDewar,
		Label:         "Dewar resistance",
		HeaderSkip:    3,
		SourceColumns: []int{0, 3, 4},
		OutputNames:   resistance,
	})
	Register(InstrumentProfile{
		ID:            ProfileDewarStrip,
		Label:         "Dewar resistance (long header)",
		HeaderSkip:    26,
		SourceColumns: []int{0, 3, 4},
		OutputNames:   resistance,
	})
	Register(InstrumentProfile{
		ID:            ProfilePPMS,
		Label:         "PPMS resistance",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{3, 12, 13},
		OutputNames:   resistance,
	})
	Register(InstrumentProfile{
		ID:            ProfileCurrentEffect,
		Label:         "Current effect",
		HeaderSkip:    3,
		SourceColumns: []int{0, 1, 2, 11},
		OutputNames:   []string{ColTemperature, ColR1, ColR2, ColCurrent},
	})
	Register(InstrumentProfile{
		ID:            ProfilePPMSMagnetic,
		Label:         "PPMS resistance vs field",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{3, 4, 12, 13},
		OutputNames:   []string{ColTemperature, ColMagneticField, ColR1, ColR2},
	})

	heatCapacity := []string{ColTemperature, ColMagneticField, ColHeatCapacity}
	Register(InstrumentProfile{
		ID:            ProfilePPMSHeatCapacity,
		Label:         "PPMS heat capacity",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{7, 5, 9},
		OutputNames:   heatCapacity,
		Quantize:      &QuantizeRule{Column: ColMagneticField, Step: FieldStep},
	})
	Register(InstrumentProfile{
		ID:            ProfilePPMSHeatCapacityCW,
		Label:         "PPMS heat capacity (warming/cooling)",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{7, 5, 9},
		OutputNames:   heatCapacity,
		Quantize:      &QuantizeRule{Column: ColMagneticField, Step: FieldStep},
	})

	Register(InstrumentProfile{
		ID:            ProfileMPMSMagnetic,
		Label:         "MPMS moment vs field",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{2, 3, 60},
		OutputNames:   []string{ColTemperature, ColMagneticField, ColMagneticMoment},
	})
	Register(InstrumentProfile{
		ID:            ProfileMPMS,
		Label:         "MPMS moment",
		HeaderSkip:    AutoDetect,
		SourceColumns: []int{2, 60},
		OutputNames:   []string{ColTemperature, ColMagneticMoment},
	})
	Register(InstrumentProfile{
		ID:             ProfileMPMSAC,
		Label:          "MPMS AC susceptibility",
		HeaderSkip:     AutoDetect,
		SourceColumns:  []int{2, 26, 21, 23},
		OutputNames:    []string{ColTemperature, ColFrequency, ColXReal, ColXImag},
		DropIncomplete: true,
	})
}
