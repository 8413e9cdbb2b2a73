package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdductTableShift(t *testing.T) {
	table := DefaultAdductTable()

	tests := []struct {
		notation string
		want     float64
	}{
		{"[M+H]+", -1.007276},
		{"[2M+Na]+", -22.989218},
		{"[M-H]-", 1.007276},
		{"[M+Cl]-", -34.969402},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			got, err := table.Shift(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdductTableNotFound(t *testing.T) {
	table := DefaultAdductTable()

	for _, notation := range []string{"[M+Xe]+", "", "[M-H]−", "[m+h]+"} {
		shift, err := table.Shift(notation)
		assert.ErrorIs(t, err, ErrAdductNotFound, notation)
		assert.Zero(t, shift)
	}
}

func TestAdductTablePositiveFirst(t *testing.T) {
	table, err := NewAdductTable(
		[]AdductEntry{{"[M+X]+", -1.0}},
		[]AdductEntry{{"[M+X]+", -2.0}},
	)
	require.NoError(t, err)

	shift, err := table.Shift("[M+X]+")
	require.NoError(t, err)
	assert.Equal(t, -1.0, shift)
}

func TestAdductTableOrder(t *testing.T) {
	table := DefaultAdductTable()

	positive := table.Adducts(Positive)
	require.NotEmpty(t, positive)
	assert.Equal(t, "[M+H]+", positive[0].Notation)
	assert.Equal(t, "[2M+H]+", positive[1].Notation)
	assert.Equal(t, 2, positive[1].Multimer)

	negative := table.Adducts(Negative)
	require.NotEmpty(t, negative)
	assert.Equal(t, "[M-H]-", negative[0].Notation)

	all := table.All()
	assert.Len(t, all, table.Len())
	assert.Equal(t, positive[0], all[0])
	assert.Equal(t, negative[0], all[len(positive)])

	// callers get copies
	positive[0].Shift = 99
	again, err := table.Shift("[M+H]+")
	require.NoError(t, err)
	assert.Equal(t, -1.007276, again)
}

func TestAdductTableDuplicates(t *testing.T) {
	_, err := NewAdductTable([]AdductEntry{{"[M+H]+", -1.0}, {"[M+H]+", -1.1}}, nil)
	assert.Error(t, err)

	_, err = NewAdductTable(nil, []AdductEntry{{"[M-H]-", 1.0}, {"[M-H]-", 1.1}})
	assert.Error(t, err)
}

func TestAdductTableValidate(t *testing.T) {
	assert.NoError(t, DefaultAdductTable().Validate())

	table, err := NewAdductTable(
		[]AdductEntry{{"[M+H]+", -1.0}, {"[M-H]-", 1.0}, {"M+Na", -23.0}},
		[]AdductEntry{{"[M+Cl]-", -35.0}},
	)
	require.NoError(t, err)

	err = table.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[M-H]-")
	assert.Contains(t, err.Error(), "M+Na")
	assert.NotContains(t, err.Error(), "[M+Cl]-")
}

const testTOML = `
[[positive]]
notation = "[M+Na]+"
shift = -22.989218

[[positive]]
notation = "[M+H]+"
shift = -1.007276

[[negative]]
notation = "[M-H]-"
shift = 1.007276
`

func TestLoadAdductsTOML(t *testing.T) {
	table, err := LoadAdductsTOML(strings.NewReader(testTOML))
	require.NoError(t, err)

	positive := table.Adducts(Positive)
	require.Len(t, positive, 2)
	assert.Equal(t, "[M+Na]+", positive[0].Notation)
	assert.Equal(t, "[M+H]+", positive[1].Notation)

	shift, err := table.Shift("[M-H]-")
	require.NoError(t, err)
	assert.Equal(t, 1.007276, shift)

	_, err = LoadAdductsTOML(strings.NewReader("[[positive]]\nnotation = \"[M+H]+\"\nmass = 1.0\n"))
	assert.Error(t, err)
}

func TestLoadAdductsCSV(t *testing.T) {
	data := "notation,shift,polarity\n" +
		"[M-H]-,1.007276,negative\n" +
		"[M+K]+,-38.963158,positive\n" +
		"[M+H]+,-1.007276,pos\n"

	table, err := LoadAdductsCSV(strings.NewReader(data))
	require.NoError(t, err)

	positive := table.Adducts(Positive)
	require.Len(t, positive, 2)
	assert.Equal(t, "[M+K]+", positive[0].Notation)
	assert.Equal(t, "[M+H]+", positive[1].Notation)
	assert.Len(t, table.Adducts(Negative), 1)

	_, err = LoadAdductsCSV(strings.NewReader("notation,shift,polarity\n[M+H]+,-1.0,sideways\n"))
	assert.Error(t, err)
}

func TestLoadAdductsFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "adducts.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(testTOML), 0o644))
	table, err := LoadAdductsFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	csvPath := filepath.Join(dir, "adducts.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("notation,shift,polarity\n[M+H]+,-1.007276,+\n"), 0o644))
	table, err = LoadAdductsFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = LoadAdductsFile(filepath.Join(dir, "adducts.json"))
	assert.Error(t, err)
}
