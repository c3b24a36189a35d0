package version

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal", "0.0.41", "0.0.41", 0},
		{"a less than b patch", "0.0.40", "0.0.41", -1},
		{"a greater than b patch", "0.0.42", "0.0.41", 1},
		{"numeric not lexicographic", "0.9.0", "0.30.0", -1},
		{"a greater than b major", "1.0.0", "0.99.99", 1},
		{"a less than b major", "0.30.6", "1.0.0", -1},
		{"shorter version ranks lower", "0.30", "0.30.0", -1},
		{"longer version ranks higher", "0.30.0", "0.30", 1},
		{"single component", "1", "1.0.0", -1},
		{"leading zeros compare numerically", "0.01.0", "0.1.0", 0},
		{"alphanumeric falls back to lexicographic", "1.2a", "1.2b", -1},
		{"mixed segment compared as text", "1.2a", "1.10", 1},
		{"equal alphanumeric", "1.0rc1", "1.0rc1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			require.Equal(t, tt.want, got, "Compare(%q, %q)", tt.a, tt.b)
		})
	}
}

func TestCompare_Malformed(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"alpha leading component", "abc.def", "0.0.1"},
		{"malformed on right side", "0.0.1", "abc.def"},
		{"illegal character", "0.0.41!", "0.0.41"},
		{"dash is not allowed", "1.0-beta", "1.0"},
		{"empty string", "", "0.0.1"},
		{"v prefix is not numeric", "v1.0.0", "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.a, tt.b)
			require.Error(t, err)
			var malformed *MalformedError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestCompare_RepeatedCallsAreStable(t *testing.T) {
	// Exercises the parse cache path: second call hits cached components.
	first, err := Compare("0.0.26", "0.0.41")
	require.NoError(t, err)
	second, err := Compare("0.0.26", "0.0.41")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCompare_Properties(t *testing.T) {
	genVersion := rapid.Custom(func(t *rapid.T) string {
		major := rapid.IntRange(0, 20).Draw(t, "major")
		minor := rapid.IntRange(0, 50).Draw(t, "minor")
		patch := rapid.IntRange(0, 99).Draw(t, "patch")
		return fmt.Sprintf("%d.%d.%d", major, minor, patch)
	})

	t.Run("reflexive", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			v := genVersion.Draw(t, "v")
			got, err := Compare(v, v)
			require.NoError(t, err)
			require.Zero(t, got)
		})
	})

	t.Run("antisymmetric", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := genVersion.Draw(t, "a")
			b := genVersion.Draw(t, "b")
			ab, err := Compare(a, b)
			require.NoError(t, err)
			ba, err := Compare(b, a)
			require.NoError(t, err)
			require.Equal(t, -ba, ab)
		})
	})

	t.Run("transitive", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := genVersion.Draw(t, "a")
			b := genVersion.Draw(t, "b")
			c := genVersion.Draw(t, "c")
			ab, err := Compare(a, b)
			require.NoError(t, err)
			bc, err := Compare(b, c)
			require.NoError(t, err)
			if ab <= 0 && bc <= 0 {
				ac, err := Compare(a, c)
				require.NoError(t, err)
				require.LessOrEqual(t, ac, 0)
			}
		})
	})
}
