package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/contour-trace/pkg/types"
)

func TestInverseKinematicsRoundTrip(t *testing.T) {
	arm := DefaultArm()
	targets := []types.Point{
		{X: 0, Y: 15},
		{X: 5, Y: 12},
		{X: -6, Y: 9},
		{X: 1.5, Y: 7.25},
	}

	for _, target := range targets {
		angles, ok := arm.InverseKinematics(target.X, target.Y)
		require.True(t, ok, "target %v should be reachable", target)

		got := arm.ForwardKinematics(angles)
		assert.InDelta(t, target.X, got.X, 1e-9)
		assert.InDelta(t, target.Y, got.Y, 1e-9)
	}
}

func TestInverseKinematicsUnreachable(t *testing.T) {
	arm := Arm{L1: 10, L2: 6}

	tests := []struct {
		name string
		x, y float64
	}{
		{"beyond reach", 0, 16.5},
		{"inside dead zone", 0, 3},
		{"below base", 0, -12},
	}

	for _, test := range tests {
		_, ok := arm.InverseKinematics(test.x, test.y)
		assert.False(t, ok, test.name)
	}
}

func TestInverseKinematicsFullExtension(t *testing.T) {
	angles, ok := DefaultArm().InverseKinematics(0, 20)
	require.True(t, ok)
	assert.InDelta(t, 90, angles.Shoulder, 1e-6)
	assert.InDelta(t, 0, angles.Elbow, 1e-6)
}

func TestAngleToDutyMicros(t *testing.T) {
	tests := []struct {
		angle float64
		want  uint32
	}{
		{-10, 1000},
		{0, 1000},
		{90, 1500},
		{180, 2000},
		{270, 2000},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, AngleToDutyMicros(test.angle), "angle %v", test.angle)
	}
}

func TestReplayApply(t *testing.T) {
	got := DefaultReplay().Apply(types.Point{X: -9.16, Y: -3.40})
	assert.InDelta(t, -1.58, got.X, 1e-9)
	assert.InDelta(t, 8.30, got.Y, 1e-9)
}

func TestCheck(t *testing.T) {
	ps := types.PointSet{
		{X: -9.16, Y: -3.40},
		{X: 0, Y: 0},
		{X: 100, Y: 100},
	}

	report := Check(DefaultArm(), DefaultReplay(), ps)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Reachable)
	assert.Equal(t, []int{2}, report.Unreachable)
	assert.InDelta(t, 2.0/3.0, report.Coverage(), 1e-9)
	assert.Equal(t, "2/3 points reachable (66.7%)", report.String())
}

func TestCheckEmpty(t *testing.T) {
	report := Check(DefaultArm(), DefaultReplay(), nil)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.Coverage())
}
