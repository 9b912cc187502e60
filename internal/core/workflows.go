package core

import (
	"fmt"

	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/plot"
)

// Form field names.
const (
	FileCooling = "cooling"
	FileWarming = "warming"
	FileData    = "datafile"

	ParamPressure       = "pressure"
	ParamMassHeatCap    = "mass_heat_cap"
	ParamMass           = "mass"
	ParamMagneticMoment = "magnetic_moment"
	ParamMassAC         = "mass_ac"
	ParamFieldDC        = "MF_dc"
	ParamFieldAC        = "MF_ac"
)

const (
	axisTemperature   = "T (K)"
	axisResistance    = "R (Ω)"
	axisHeatCapacity  = "Cp (mJ/mol·K)"
	axisHeatCapCW     = "Heat capacity (mJ/mol·K)"
	axisMoment        = "Magnetic moment (Oe)"
	axisTemperatureAC = "Temperature (K)"
	axisXReal         = "X' (emu/Oe)"
	axisXImag         = "X'' (emu/Oe)"

	sampleHg = "Hg1223"
	sampleCe = "Ce"

	sheetData = "Sheet1"
)

var channels = []string{"1", "2"}

func init() {
	RegisterWorkflow(Workflow{
		Key:     "dewar",
		Label:   "Dewar (separate cooling and warming files)",
		Profile: ingest.ProfileDewar,
		Files:   []string{FileCooling, FileWarming},
		Params:  []string{ParamPressure},
		Build:   buildDewar,
	})
	RegisterWorkflow(Workflow{
		Key:     "dewar_strip",
		Label:   "Dewar (single file, long header)",
		Profile: ingest.ProfileDewarStrip,
		Files:   []string{FileData},
		Params:  []string{ParamPressure},
		Build:   buildResistance,
	})
	RegisterWorkflow(Workflow{
		Key:     "ppms",
		Label:   "PPMS resistance",
		Profile: ingest.ProfilePPMS,
		Files:   []string{FileData},
		Params:  []string{ParamPressure},
		Build:   buildResistance,
	})
	RegisterWorkflow(Workflow{
		Key:     "current_effect",
		Label:   "Current effect",
		Profile: ingest.ProfileCurrentEffect,
		Files:   []string{FileData},
		Params:  []string{ParamPressure},
		Build:   buildCurrentEffect,
	})
	RegisterWorkflow(Workflow{
		Key:     "ppms_magnetic",
		Label:   "PPMS resistance in magnetic field",
		Profile: ingest.ProfilePPMSMagnetic,
		Files:   []string{FileData},
		Params:  []string{ParamPressure},
		Build:   buildPPMSMagnetic,
	})
	RegisterWorkflow(Workflow{
		Key:     "ppms_heat_capacity",
		Label:   "PPMS heat capacity",
		Profile: ingest.ProfilePPMSHeatCapacity,
		Files:   []string{FileData},
		Params:  []string{ParamMassHeatCap},
		Build:   buildHeatCapacity,
	})
	RegisterWorkflow(Workflow{
		Key:     "ppms_heat_capacity_cw",
		Label:   "PPMS heat capacity, warming and cooling",
		Profile: ingest.ProfilePPMSHeatCapacityCW,
		Files:   []string{FileData},
		Params:  []string{ParamMass},
		Build:   fieldWarmingCooling(ingest.ColHeatCapacity, axisHeatCapCW),
	})
	RegisterWorkflow(Workflow{
		Key:     "mpms_magnetic",
		Label:   "MPMS moment, warming and cooling per field",
		Profile: ingest.ProfileMPMSMagnetic,
		Files:   []string{FileData},
		Params:  []string{ParamMass},
		Build:   fieldWarmingCooling(ingest.ColMagneticMoment, axisMoment),
	})
	RegisterWorkflow(Workflow{
		Key:     "mpms",
		Label:   "MPMS moment (ZFC/FC)",
		Profile: ingest.ProfileMPMS,
		Files:   []string{FileData},
		Params:  []string{ParamMagneticMoment},
		Build:   buildMPMS,
	})
	RegisterWorkflow(Workflow{
		Key:     "mpms_ac",
		Label:   "MPMS AC susceptibility",
		Profile: ingest.ProfileMPMSAC,
		Files:   []string{FileData},
		Params:  []string{ParamMassAC, ParamFieldDC, ParamFieldAC},
		Build:   buildMPMSAC,
	})
}

// coolWarmReport plots R1 and R2 of a cooling and a warming leg, one graph per channel.
func coolWarmReport(workflow, deck string, in Input, cool, warm *ingest.Table) *plot.Report {
	p := num(in.Params.Num(ParamPressure))
	r := &plot.Report{Workflow: workflow, Deck: deck}

	coolBook := "CoolingData " + p + " GPa"
	warmBook := "WarmingData " + p + " GPa"
	r.AddSheet(r.AddBook(coolBook), sheetData, cool)
	r.AddSheet(r.AddBook(warmBook), sheetData, warm)

	for _, ch := range channels {
		y := "R" + ch
		r.Graphs = append(r.Graphs, plot.Graph{
			Name:   "Ch" + ch,
			XLabel: axisTemperature,
			YLabel: axisResistance,
			Text:   annotation(in.Params.Date, sampleHg, "Ch. "+ch, "Pressure: "+p+" GPa"),
			Series: []plot.Series{
				{Book: coolBook, Sheet: sheetData, X: ingest.ColTemperature, Y: y, Legend: "Cooling", Color: plot.Blue},
				{Book: warmBook, Sheet: sheetData, X: ingest.ColTemperature, Y: y, Legend: "Warming", Color: plot.Red},
			},
		})
	}
	return r
}

func buildDewar(in Input) (*plot.Report, error) {
	deck := "Dewar_" + num(in.Params.Num(ParamPressure)) + "GPa"
	return coolWarmReport("dewar", deck, in, in.Tables[FileCooling], in.Tables[FileWarming]), nil
}

func buildResistance(in Input) (*plot.Report, error) {
	cool, warm, err := ingest.SplitOnExtremum(in.Tables[FileData], ingest.ColTemperature, ingest.Min)
	if err != nil {
		return nil, err
	}
	deck := "Resistance_" + num(in.Params.Num(ParamPressure)) + "GPa"
	return coolWarmReport("resistance", deck, in, cool, warm), nil
}

// groupedChannels draws one graph per channel with a series per group.
func groupedChannels(in Input, column, book, sample, deck, workflow string, legend, sheet func(v float64, ch string) string) (*plot.Report, error) {
	groups, err := ingest.GroupBy(in.Tables[FileData], column)
	if err != nil {
		return nil, err
	}

	p := num(in.Params.Num(ParamPressure))
	r := &plot.Report{Workflow: workflow, Deck: deck}
	b := r.AddBook(book)

	for _, ch := range channels {
		y := "R" + ch
		g := plot.Graph{
			Name:   "Ch" + ch,
			XLabel: axisTemperature,
			YLabel: axisResistance,
			Text:   annotation(in.Params.Date, sample, "Ch. "+ch, p+" GPa"),
		}
		for _, grp := range groups {
			t, err := grp.Rows.Select(ingest.ColTemperature, y)
			if err != nil {
				return nil, err
			}
			name := r.AddSheet(b, sheet(grp.Value, ch), t).Name
			g.Series = append(g.Series, plot.Series{
				Book: book, Sheet: name, X: ingest.ColTemperature, Y: y, Legend: legend(grp.Value, ch),
			})
		}
		r.Graphs = append(r.Graphs, g)
	}
	return r, nil
}

func buildCurrentEffect(in Input) (*plot.Report, error) {
	p := num(in.Params.Num(ParamPressure))
	return groupedChannels(in, ingest.ColCurrent,
		"CurrentData "+p+" GPa", sampleHg, "CurrentEffect_"+p+"GPa", "current_effect",
		func(v float64, _ string) string { return num(v) + " A" },
		func(v float64, ch string) string { return "Ch" + ch + "_" + num(v) + "mA" },
	)
}

func buildPPMSMagnetic(in Input) (*plot.Report, error) {
	p := num(in.Params.Num(ParamPressure))
	return groupedChannels(in, ingest.ColMagneticField,
		"MagneticFieldData "+p+" GPa", sampleCe, "MagneticField_"+p+"GPa", "ppms_magnetic",
		func(v float64, _ string) string { return tesla(v) },
		func(v float64, ch string) string { return "Field_" + num(v) + "_Ch" + ch },
	)
}

func buildHeatCapacity(in Input) (*plot.Report, error) {
	groups, err := ingest.GroupBy(in.Tables[FileData], ingest.ColMagneticField)
	if err != nil {
		return nil, err
	}

	m := num(in.Params.Num(ParamMassHeatCap))
	r := &plot.Report{Workflow: "ppms_heat_capacity", Deck: "HeatCapacity_" + m + "mg"}
	book := "MagneticFieldData " + m + " mg"
	b := r.AddBook(book)

	g := plot.Graph{
		Name:   "HeatCapacity",
		XLabel: axisTemperature,
		YLabel: axisHeatCapacity,
		Text:   annotation(in.Params.Date, m+" mg"),
	}
	for _, grp := range groups {
		t, err := grp.Rows.Select(ingest.ColTemperature, ingest.ColHeatCapacity)
		if err != nil {
			return nil, err
		}
		name := r.AddSheet(b, "Field_"+num(grp.Value), t).Name
		g.Series = append(g.Series, plot.Series{
			Book: book, Sheet: name, X: ingest.ColTemperature, Y: ingest.ColHeatCapacity, Legend: tesla(grp.Value),
		})
	}
	r.Graphs = append(r.Graphs, g)
	return r, nil
}

// fieldWarmingCooling groups by field, splits every group at its maximum
// temperature and draws all warming legs on one graph and all cooling legs on
// another.
func fieldWarmingCooling(y, yLabel string) func(Input) (*plot.Report, error) {
	return func(in Input) (*plot.Report, error) {
		groups, err := ingest.GroupBy(in.Tables[FileData], ingest.ColMagneticField)
		if err != nil {
			return nil, err
		}
		legs, err := ingest.SplitGroups(groups, ingest.ColTemperature, ingest.Max)
		if err != nil {
			return nil, err
		}

		m := num(in.Params.Num(ParamMass))
		r := &plot.Report{Workflow: "field_warming_cooling", Deck: "CW_FieldData_" + m + "mg"}
		book := "Data_" + m + "mg"
		b := r.AddBook(book)

		warm := plot.Graph{
			Name:   "Warming",
			XLabel: axisTemperature,
			YLabel: yLabel,
			Text:   annotation(in.Params.Date, "ZFC", sampleCe, "Mass = "+m+"mg"),
		}
		cool := plot.Graph{
			Name:   "Cooling",
			XLabel: axisTemperature,
			YLabel: yLabel,
			Text:   annotation(in.Params.Date, "FC", sampleCe, "Mass = "+m+"mg"),
		}
		for _, leg := range legs {
			f := num(leg.Value)
			legend := f + " Oe"

			wt, err := leg.Before.Select(ingest.ColTemperature, y)
			if err != nil {
				return nil, err
			}
			ct, err := leg.After.Select(ingest.ColTemperature, y)
			if err != nil {
				return nil, err
			}
			ws := r.AddSheet(b, "Warming_"+f, wt).Name
			cs := r.AddSheet(b, "Cooling_"+f, ct).Name
			warm.Series = append(warm.Series, plot.Series{Book: book, Sheet: ws, X: ingest.ColTemperature, Y: y, Legend: legend})
			cool.Series = append(cool.Series, plot.Series{Book: book, Sheet: cs, X: ingest.ColTemperature, Y: y, Legend: legend})
		}
		r.Graphs = append(r.Graphs, warm, cool)
		return r, nil
	}
}

func buildMPMS(in Input) (*plot.Report, error) {
	warm, cool, err := ingest.SplitOnExtremum(in.Tables[FileData], ingest.ColTemperature, ingest.Max)
	if err != nil {
		return nil, err
	}

	f := num(in.Params.Num(ParamMagneticMoment))
	r := &plot.Report{Workflow: "mpms", Deck: "MPMS_" + f + "Oe"}
	warmBook := "WarmingData " + f + " Oe"
	coolBook := "CoolingData " + f + " Oe"
	r.AddSheet(r.AddBook(warmBook), sheetData, warm)
	r.AddSheet(r.AddBook(coolBook), sheetData, cool)

	r.Graphs = append(r.Graphs, plot.Graph{
		Name:   "MPMS",
		XLabel: axisTemperature,
		YLabel: axisMoment,
		Text:   annotation(in.Params.Date, sampleCe, "Magnetic field: "+f+" Oe"),
		Series: []plot.Series{
			{Book: warmBook, Sheet: sheetData, X: ingest.ColTemperature, Y: ingest.ColMagneticMoment, Legend: "ZFC", Color: plot.Red},
			{Book: coolBook, Sheet: sheetData, X: ingest.ColTemperature, Y: ingest.ColMagneticMoment, Legend: "FC", Color: plot.Blue},
		},
	})
	return r, nil
}

func buildMPMSAC(in Input) (*plot.Report, error) {
	groups, err := ingest.GroupBy(in.Tables[FileData], ingest.ColFrequency)
	if err != nil {
		return nil, fmt.Errorf("no valid frequency data: %w", err)
	}

	m := num(in.Params.Num(ParamMassAC))
	r := &plot.Report{Workflow: "mpms_ac", Deck: "AC_Susceptibility_" + m + "mg"}
	book := "AC_Susceptibility_" + m + "mg"
	b := r.AddBook(book)

	text := annotation(in.Params.Date,
		"Mass = "+m+"mg",
		"H_dc = "+num(in.Params.Num(ParamFieldDC))+" Oe",
		"H_ac = "+num(in.Params.Num(ParamFieldAC))+" Oe",
	)
	realPart := plot.Graph{Name: "XReal", XLabel: axisTemperatureAC, YLabel: axisXReal, Text: text}
	imagPart := plot.Graph{Name: "XImag", XLabel: axisTemperatureAC, YLabel: axisXImag, Text: text}

	for _, grp := range groups {
		name := r.AddSheet(b, freqSheet(grp.Value), grp.Rows).Name
		legend := fmt.Sprintf("%.1f Hz", grp.Value)
		realPart.Series = append(realPart.Series, plot.Series{Book: book, Sheet: name, X: ingest.ColTemperature, Y: ingest.ColXReal, Legend: legend})
		imagPart.Series = append(imagPart.Series, plot.Series{Book: book, Sheet: name, X: ingest.ColTemperature, Y: ingest.ColXImag, Legend: legend})
	}
	r.Graphs = append(r.Graphs, realPart, imagPart)
	return r, nil
}
