package brain

import (
	"fmt"
	"math"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify the activation by name.
var ActivationFunctions = map[string]ActivationType{
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"tanh":     Tanh,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// ReLU clamps negative input to exactly zero.
func ReLU(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped limits the output to [-1, 1].
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}
