package prelude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcalc/app/lang"
)

func TestDefaultLoads(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, reg, again, "Default should be built once")

	assert.Equal(t, []string{
		"Current", "Information", "Length", "Luminosity",
		"Mass", "Substance", "Temperature", "Time",
	}, reg.Dimensions())
}

func TestNewRegistryIsPrivate(t *testing.T) {
	a, err := NewRegistry()
	require.NoError(t, err)
	b, err := NewRegistry()
	require.NoError(t, err)

	_, err = lang.EvalLine("1 smoot = 1.7018 m", a)
	require.NoError(t, err)

	_, ok := a.Lookup("smoot")
	assert.True(t, ok)
	_, ok = b.Lookup("smoot")
	assert.False(t, ok, "definition leaked between registries")

	shared, err := Default()
	require.NoError(t, err)
	_, ok = shared.Lookup("smoot")
	assert.False(t, ok, "definition leaked into the shared registry")
}

func TestEveryNameResolves(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, u := range reg.Units() {
		for _, name := range u.Names.All() {
			q, err := reg.Resolve(name)
			if assert.NoError(t, err, name) {
				assert.Equal(t, u.Value.Magnitude, q.Magnitude, name)
			}
		}
	}
}

func TestPrefixesCombineWithSymbols(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, p := range reg.Prefixes() {
		for _, name := range p.Names.All() {
			q, err := reg.Resolve(name + "m")
			if !assert.NoError(t, err, name+"m") {
				continue
			}
			assert.InDelta(t, p.Scale, q.Magnitude, p.Scale*1e-12, name+"m")
		}
	}
}

func TestExactUnitsBeatPrefixes(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for name, want := range map[string]string{
		"cd":  "candela",
		"pt":  "pint",
		"ft":  "foot",
		"min": "minute",
		"mi":  "mile",
		"Pa":  "pascal",
		"kn":  "knot",
		"ha":  "hectare",
		"pc":  "parsec",
		"nmi": "nautical_mile",
		"Gy":  "gray",
		"qt":  "quart",
		"mol": "mole",
	} {
		p, u, ok := reg.Split(name)
		require.True(t, ok, name)
		assert.Nil(t, p, "%s should not be split", name)
		assert.Equal(t, want, u.Names.Name, name)
	}
}

func TestLoadExtraDefinitions(t *testing.T) {
	reg, err := Load(Source, "1 furlong = 660 ft", "1 chain = furlong / 10")
	require.NoError(t, err)

	res, err := lang.EvalLine("1 furlong -> chain", reg)
	require.NoError(t, err)
	assert.Equal(t, "10 chain", res.String())
}

func TestLoadReportsFailures(t *testing.T) {
	_, err := Load("1 meter (m) :: Length\n1 foot = 12 inch\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading prelude")
	kind, ok := lang.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, lang.UnknownIdentifierError, kind)

	var ee *lang.EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Pos.Line)

	_, err = Load(Source, "1 meter = 2 ft")
	require.Error(t, err)
	assert.ErrorIs(t, err, &lang.EvalError{Kind: lang.NameConflictError})
	assert.Contains(t, err.Error(), `definition "1 meter = 2 ft"`)
}
