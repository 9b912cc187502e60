package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	ids := []string{
		ProfileDewar, ProfileDewarStrip, ProfilePPMS, ProfileCurrentEffect,
		ProfilePPMSMagnetic, ProfilePPMSHeatCapacity, ProfilePPMSHeatCapacityCW,
		ProfileMPMSMagnetic, ProfileMPMS, ProfileMPMSAC,
	}
	for _, id := range ids {
		p, err := Lookup(id)
		require.NoError(t, err, id)
		assert.NoError(t, p.Validate(), id)
		assert.Equal(t, ColTemperature, p.PrimaryColumn(), id)
	}

	hc := mustLookup(t, ProfilePPMSHeatCapacity)
	require.NotNil(t, hc.Quantize)
	assert.Equal(t, ColMagneticField, hc.Quantize.Column)
	assert.Equal(t, 10.0, hc.Quantize.Step)

	assert.True(t, mustLookup(t, ProfileMPMSAC).DropIncomplete)
	assert.Equal(t, 26, mustLookup(t, ProfileDewarStrip).HeaderSkip)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestProfiles_Sorted(t *testing.T) {
	list := Profiles()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestAdd_Duplicate(t *testing.T) {
	err := Add(mustLookup(t, ProfileMPMS))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Panics(t, func() { Register(mustLookup(t, ProfileMPMS)) })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile InstrumentProfile
		wantErr string
	}{
		{
			name:    "valid auto",
			profile: InstrumentProfile{ID: "ok", HeaderSkip: AutoDetect, SourceColumns: []int{1}, OutputNames: []string{"T"}},
		},
		{
			name:    "bad header skip",
			profile: InstrumentProfile{ID: "x", HeaderSkip: -2, SourceColumns: []int{1}, OutputNames: []string{"T"}},
			wantErr: "header skip -2",
		},
		{
			name:    "no columns",
			profile: InstrumentProfile{ID: "x"},
			wantErr: "no source columns",
		},
		{
			name:    "duplicate names",
			profile: InstrumentProfile{ID: "x", SourceColumns: []int{1, 2}, OutputNames: []string{"T", "T"}},
			wantErr: "duplicate output name",
		},
		{
			name:    "unknown primary",
			profile: InstrumentProfile{ID: "x", SourceColumns: []int{1}, OutputNames: []string{"T"}, Primary: "R"},
			wantErr: "primary column",
		},
		{
			name: "bad quantize",
			profile: InstrumentProfile{
				ID: "x", SourceColumns: []int{1}, OutputNames: []string{"T"},
				Quantize: &QuantizeRule{Column: "H", Step: 0},
			},
			wantErr: "quantize column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const profileTSV = "id\tlabel\theader_skip\tsource_columns\toutput_names\tprimary\tquantize_column\tquantize_step\tdrop_incomplete\n" +
	"# comment lines are ignored\n" +
	"vsm_test\tVSM moment\tauto\t2,3,60\tTemperature,MagneticField,MagneticMoment\t\t\t\tfalse\n" +
	"hc_test\t\t12\t7, 5, 9\tTemperature, MagneticField, HeatCapacity\tTemperature\tMagneticField\t10\ttrue\n"

func TestReadProfiles(t *testing.T) {
	list, err := ReadProfiles(strings.NewReader(profileTSV))
	require.NoError(t, err)
	require.Len(t, list, 2)

	vsm := list[0]
	assert.Equal(t, "vsm_test", vsm.ID)
	assert.Equal(t, "VSM moment", vsm.Label)
	assert.Equal(t, AutoDetect, vsm.HeaderSkip)
	assert.Equal(t, []int{2, 3, 60}, vsm.SourceColumns)
	assert.Nil(t, vsm.Quantize)

	hc := list[1]
	assert.Equal(t, "hc_test", hc.Label)
	assert.Equal(t, 12, hc.HeaderSkip)
	assert.Equal(t, []string{"Temperature", "MagneticField", "HeatCapacity"}, hc.OutputNames)
	require.NotNil(t, hc.Quantize)
	assert.Equal(t, 10.0, hc.Quantize.Step)
	assert.True(t, hc.DropIncomplete)
}

func TestReadProfiles_Invalid(t *testing.T) {
	header := "id\tlabel\theader_skip\tsource_columns\toutput_names\tprimary\tquantize_column\tquantize_step\tdrop_incomplete\n"

	tests := []struct {
		name string
		row  string
	}{
		{"bad skip", "a\t\t-3\t1\tT\t\t\t\t\n"},
		{"bad column", "a\t\tauto\tx\tT\t\t\t\t\n"},
		{"length mismatch", "a\t\tauto\t1,2\tT\t\t\t\t\n"},
		{"bad step", "a\t\tauto\t1\tT\t\tT\tten\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProfiles(strings.NewReader(header + tt.row))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.tsv")
	content := strings.ReplaceAll(profileTSV, "_test", "_load")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := Lookup("vsm_load")
	require.NoError(t, err)
	assert.Equal(t, 60, p.SourceColumns[2])

	_, err = LoadProfiles(path)
	assert.Error(t, err)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}
