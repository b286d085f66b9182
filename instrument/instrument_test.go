package instrument

import (
	"bytes"
	"embed"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

//go:embed testdata
var testdata embed.FS

func loadFixture(t *testing.T) *Space {
	t.Helper()
	f, err := testdata.Open("testdata/simple.xml")
	require.NoError(t, err)
	defer f.Close()
	s, err := Parse(f)
	require.NoError(t, err)
	return s
}

func TestParseFixture(t *testing.T) {
	s := loadFixture(t)

	assert.Equal(t, "monochromator", s.Mono.Name)
	assert.InDelta(t, 1.5, s.Mono.ArmLength, 1e-12)
	assert.InDelta(t, 2.0, s.Mono.Speed, 1e-12)
	assert.InDelta(t, -170*math.Pi/180, s.Mono.Lo, 1e-9)
	assert.InDelta(t, 170*math.Pi/180, s.Mono.Hi, 1e-9)

	walls := s.Walls()
	require.Len(t, walls, 1)
	assert.Equal(t, uint32(1), walls[0].ID)
	assert.Equal(t, "pillar", walls[0].Name)
	require.Len(t, walls[0].Points, 4)
}

func TestIdentMismatch(t *testing.T) {
	_, err := Parse(strings.NewReader(`<other ident="other"><instrument_space/></other>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ident")
}

func TestAngularLimits(t *testing.T) {
	s := loadFixture(t)
	a2lo, a2hi, a4lo, a4hi := s.AngularLimits()
	assert.Less(t, a2lo, a2hi)
	assert.Less(t, a4lo, a4hi)
	assert.True(t, s.InLimits(0, 0))
	assert.False(t, s.InLimits(math.Pi, 0))
}

func TestCheckCollision(t *testing.T) {
	s := loadFixture(t)

	// arms stretched towards the pillar collide with it
	colliding, id := s.CheckCollision(0, 0)
	assert.True(t, colliding)
	assert.Equal(t, uint32(1), id)

	// folding the sample arm away clears the pillar
	colliding, _ = s.CheckCollision(0, math.Pi/2)
	assert.False(t, colliding)
}

func TestPoseGeometry(t *testing.T) {
	s := loadFixture(t)
	arms := s.Pose(0, math.Pi/2)
	require.Len(t, arms, 2)
	for _, arm := range arms {
		assert.Len(t, arm, 4)
	}
	// the sample sits at the end of the mono arm
	sampleArm := arms[1]
	base := sampleArm[0].Add(sampleArm[3]).Mul(0.5)
	assert.InDelta(t, 1.5, base[0], 1e-9)
	assert.InDelta(t, 0, base[1], 1e-9)
}

func TestSaveRoundTrip(t *testing.T) {
	s := loadFixture(t)
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Mono.Name, again.Mono.Name)
	assert.InDelta(t, s.Mono.Lo, again.Mono.Lo, 1e-9)
	assert.InDelta(t, s.Sample.ArmLength, again.Sample.ArmLength, 1e-12)
	require.Len(t, again.Walls(), 1)
	assert.True(t, geom.VecEqual(s.Walls()[0].Points[0], again.Walls()[0].Points[0], 1e-9))
}

func TestUpdateSubscribe(t *testing.T) {
	s := loadFixture(t)
	called := 0
	s.UpdateSubscribe(func() { called++ })
	s.AddWall(Wall{ID: 2, Name: "crate", Points: geom.Polygon{
		geom.V(-2, -2), geom.V(-1, -2), geom.V(-1, -1), geom.V(-2, -1),
	}})
	assert.Equal(t, 1, called)
	assert.Len(t, s.Walls(), 2)
}
