// Package rollout drives parallel environment workers that feed a shared
// replay pool. Each worker owns one environment instance and runs a
// single episode per collection round; workers communicate only through
// the pool.
package rollout

// Environment is the per-worker simulator contract. Reset starts a new
// episode and returns the initial state. Step applies an action and
// returns the action actually taken by the environment, the next state,
// the reward, and whether the episode finished.
type Environment interface {
	Reset() ([]float32, error)
	Step(action []float32) (taken []float32, next []float32, reward float32, done bool, err error)
}
