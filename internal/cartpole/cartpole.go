// Package cartpole implements the classic cart-pole balancing environment
// as a concrete rollout environment: a pole hinged to a cart on a
// frictionless track, pushed left or right at each step.
package cartpole

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	gravity        = 9.81
	massCart       = 1.0
	massPole       = 0.1
	length         = 0.5
	totalMass      = massCart + massPole
	poleMassLength = massPole * length
	forceMax       = 10.0
	tau            = 0.02

	xThreshold     = 2.4
	thetaThreshold = 12.0 * math.Pi / 180.0
	maxSteps       = 500
)

// Env holds cart-pole simulation state. Not safe for concurrent use; each
// rollout worker owns its own instance.
type Env struct {
	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
	steps    int
	rng      *rand.Rand
}

// NewEnv creates a cart-pole environment. A nil rng is replaced with a
// randomly seeded one.
func NewEnv(rng *rand.Rand) *Env {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Env{rng: rng}
}

// Reset starts a new episode with all state variables uniformly drawn
// from [-0.05, 0.05).
func (e *Env) Reset() ([]float32, error) {
	e.x = e.rng.Float64()*0.1 - 0.05
	e.xDot = e.rng.Float64()*0.1 - 0.05
	e.theta = e.rng.Float64()*0.1 - 0.05
	e.thetaDot = e.rng.Float64()*0.1 - 0.05
	e.steps = 0
	return e.state(), nil
}

// Step applies the action (action[0] > 0.5 pushes right, otherwise left)
// and advances the simulation one tick. The episode ends when the cart
// leaves the track, the pole falls past the angle threshold, or the step
// limit is reached.
func (e *Env) Step(action []float32) ([]float32, []float32, float32, bool, error) {
	if len(action) == 0 {
		return nil, nil, 0, false, fmt.Errorf("cartpole: empty action")
	}

	force := -forceMax
	if action[0] > 0.5 {
		force = forceMax
	}

	cosTheta := math.Cos(e.theta)
	sinTheta := math.Sin(e.theta)

	temp := (force + poleMassLength*e.thetaDot*e.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) / (length * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	e.x += tau * e.xDot
	e.xDot += tau * xAcc
	e.theta += tau * e.thetaDot
	e.thetaDot += tau * thetaAcc
	e.steps++

	done := e.x < -xThreshold || e.x > xThreshold ||
		e.theta < -thetaThreshold || e.theta > thetaThreshold ||
		e.steps >= maxSteps
	reward := float32(1.0)
	if done && e.steps < maxSteps {
		reward = 0.0
	}
	return action, e.state(), reward, done, nil
}

func (e *Env) state() []float32 {
	return []float32{
		float32(e.x),
		float32(e.xDot),
		float32(e.theta),
		float32(e.thetaDot),
	}
}

// MaxSteps returns the episode step limit.
func MaxSteps() int {
	return maxSteps
}
