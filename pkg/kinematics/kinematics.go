// Package kinematics checks trajectories against a 2-link planar arm.
//
// The arm model and replay mapping match the drawing firmware: both servos
// accept 0-180 degrees, the elbow-down solution is used, and every stored
// coordinate is scaled and offset before inverse kinematics.
package kinematics

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/menta2k/contour-trace/pkg/types"
)

// Arm describes a 2-link planar arm with link lengths in cm
type Arm struct {
	L1 float64 `json:"l1"`
	L2 float64 `json:"l2"`
}

// DefaultArm returns the 10 cm + 10 cm arm used by the drawing firmware
func DefaultArm() Arm {
	return Arm{L1: 10, L2: 10}
}

// Angles holds joint angles in degrees
type Angles struct {
	Shoulder float64
	Elbow    float64
}

// InverseKinematics returns the elbow-down joint angles for (x, y). The
// second return value is false when the point is out of reach or either
// angle falls outside the servo range.
func (a Arm) InverseKinematics(x, y float64) (Angles, bool) {
	r2 := x*x + y*y
	r := math.Sqrt(r2)
	if r > a.L1+a.L2 || r < math.Abs(a.L1-a.L2) {
		return Angles{}, false
	}

	c2 := lo.Clamp((r2-a.L1*a.L1-a.L2*a.L2)/(2*a.L1*a.L2), -1, 1)
	elbow := math.Acos(c2)
	k1 := a.L1 + a.L2*c2
	k2 := a.L2 * math.Sin(elbow)
	shoulder := math.Atan2(y, x) - math.Atan2(k2, k1)

	angles := Angles{
		Shoulder: shoulder * 180 / math.Pi,
		Elbow:    elbow * 180 / math.Pi,
	}
	return angles, inServoRange(angles.Shoulder) && inServoRange(angles.Elbow)
}

// ForwardKinematics returns the pen position for the given joint angles
func (a Arm) ForwardKinematics(angles Angles) types.Point {
	t1 := angles.Shoulder * math.Pi / 180
	t2 := angles.Elbow * math.Pi / 180
	return types.Point{
		X: a.L1*math.Cos(t1) + a.L2*math.Cos(t1+t2),
		Y: a.L1*math.Sin(t1) + a.L2*math.Sin(t1+t2),
	}
}

// AngleToDutyMicros converts a servo angle to a pulse width in microseconds
func AngleToDutyMicros(angle float64) uint32 {
	return 1000 + uint32(lo.Clamp(angle, 0, 180)*1000/180)
}

// Replay maps stored coordinates to the arm frame the way the firmware does
type Replay struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// DefaultReplay returns the mapping used by the flower firmware loop
func DefaultReplay() Replay {
	return Replay{Scale: 0.5, OffsetX: 3, OffsetY: 10}
}

// Apply maps a stored coordinate into the arm frame
func (r Replay) Apply(p types.Point) types.Point {
	return types.Point{X: p.X*r.Scale + r.OffsetX, Y: p.Y*r.Scale + r.OffsetY}
}

// Report summarizes how much of a trajectory the arm can draw
type Report struct {
	Total       int
	Reachable   int
	Unreachable []int
}

// Coverage returns the reachable fraction in [0,1]
func (r Report) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Reachable) / float64(r.Total)
}

func (r Report) String() string {
	return fmt.Sprintf("%d/%d points reachable (%.1f%%)", r.Reachable, r.Total, r.Coverage()*100)
}

// Check replays every point through the arm and records the ones it must skip
func Check(arm Arm, replay Replay, ps types.PointSet) Report {
	report := Report{Total: len(ps)}
	for i, p := range ps {
		q := replay.Apply(p)
		if _, ok := arm.InverseKinematics(q.X, q.Y); ok {
			report.Reachable++
		} else {
			report.Unreachable = append(report.Unreachable, i)
		}
	}
	return report
}

func inServoRange(deg float64) bool {
	return deg >= 0 && deg <= 180
}
