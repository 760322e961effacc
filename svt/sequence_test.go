package svt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_NumericValueBeatsByteOrder(t *testing.T) {
	// The defect this comparator exists for: lexicographic listing puts
	// "10.vtk" before "2.vtk".
	got, err := Order([]string{"10.vtk", "2.vtk", "1.vtk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.vtk", "2.vtk", "10.vtk"}, got)
}

func TestOrder_ZeroPaddedNames(t *testing.T) {
	got, err := Order([]string{"frame_010.vtk", "frame_002.vtk", "frame_001.vtk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"frame_001.vtk", "frame_002.vtk", "frame_010.vtk"}, got)
}

func TestOrder_LiteralSegmentsDecideFirst(t *testing.T) {
	got, err := Order([]string{"b2.vtk", "a10.vtk", "a1.vtk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1.vtk", "a10.vtk", "b2.vtk"}, got)
}

func TestOrder_MultipleDigitRuns(t *testing.T) {
	got, err := Order([]string{"run2_frame10.vtk", "run10_frame2.vtk", "run2_frame2.vtk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"run2_frame2.vtk", "run2_frame10.vtk", "run10_frame2.vtk"}, got)
}

func TestOrder_EmptyInput(t *testing.T) {
	got, err := Order(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrder_PermutationInvariance(t *testing.T) {
	// GIVEN a fixed set of names
	names := []string{"0.vtk", "5.vtk", "10.vtk", "50.vtk", "100.vtk", "frame_7.vtk", "frame_07b.vtk"}
	want, err := Order(names)
	require.NoError(t, err)

	// WHEN the input is shuffled
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]string(nil), names...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		// THEN the ordered result is always the same
		got, err := Order(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestOrder_PreservesMultiset(t *testing.T) {
	names := []string{"3.vtk", "1.vtk", "3.vtk", "2.vtk"}
	got, err := Order(names)
	require.NoError(t, err)
	assert.Len(t, got, len(names))
	assert.ElementsMatch(t, names, got)
	// Byte-identical duplicates stay adjacent.
	assert.Equal(t, []string{"1.vtk", "2.vtk", "3.vtk", "3.vtk"}, got)
}

func TestOrder_Idempotent(t *testing.T) {
	once, err := Order([]string{"9.vtk", "11.vtk", "10.vtk", "1.vtk"})
	require.NoError(t, err)
	twice, err := Order(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestOrder_InputNotModified(t *testing.T) {
	names := []string{"2.vtk", "1.vtk"}
	_, err := Order(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.vtk", "1.vtk"}, names)
}

func TestOrder_NoDigitRunFails(t *testing.T) {
	_, err := Order([]string{"2.vtk", "final.vtk"})
	var malformed *MalformedNameError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "final.vtk", malformed.Name)
}

func TestOrder_ReportsFirstOffenderInInputOrder(t *testing.T) {
	_, err := Order([]string{"b.vtk", "a.vtk", "1.vtk"})
	var malformed *MalformedNameError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "b.vtk", malformed.Name)
}

func TestOrderLenient_DigitlessNamesCompareBytewise(t *testing.T) {
	got := OrderLenient([]string{"mesh.vtk", "10.vtk", "2.vtk", "aaa.vtk"})
	assert.Equal(t, []string{"2.vtk", "10.vtk", "aaa.vtk", "mesh.vtk"}, got)
}

func TestCompare_EqualValueTieBreaksOnLeadingZeros(t *testing.T) {
	assert.Negative(t, Compare("2.vtk", "002.vtk"))
	assert.Positive(t, Compare("002.vtk", "2.vtk"))
	assert.Zero(t, Compare("002.vtk", "002.vtk"))
}

func TestCompare_PrefixSortsFirst(t *testing.T) {
	assert.Negative(t, Compare("frame_1", "frame_1a"))
	assert.Positive(t, Compare("frame_1a", "frame_1"))
}

func TestCompare_DigitRunAgainstTextRunComparesBytewise(t *testing.T) {
	// "1..." vs "a..." at the same position: '1' < 'a'.
	assert.Negative(t, Compare("1.vtk", "a.vtk"))
	assert.Positive(t, Compare("a.vtk", "1.vtk"))
}

func TestCompare_HugeDigitRunsDoNotOverflow(t *testing.T) {
	small := "99999999999999999998.vtk"
	big := "99999999999999999999.vtk"
	assert.Negative(t, Compare(small, big))
	assert.Positive(t, Compare(big, small))
}

func TestCompare_Transitive(t *testing.T) {
	names := []string{"a1", "a02", "a2", "a10", "b", "b0", "10", "2"}
	for _, x := range names {
		for _, y := range names {
			for _, z := range names {
				if Compare(x, y) <= 0 && Compare(y, z) <= 0 {
					assert.LessOrEqual(t, Compare(x, z), 0,
						"transitivity violated for %q <= %q <= %q", x, y, z)
				}
			}
		}
	}
}
