package brain

// Action is the decoded output of a network. ReLU outputs are either exactly
// zero or positive, so each output is read as off (== 0) or on (!= 0).
type Action struct {
	Jump   bool // outputs[0] != 0
	Crouch bool // outputs[1] != 0; false requests releasing the crouch.
}

// DecodeAction maps a two-element output vector to an Action.
// Missing outputs decode as off.
func DecodeAction(outputs []float64) Action {
	var a Action
	if len(outputs) > 0 {
		a.Jump = outputs[0] != 0
	}
	if len(outputs) > 1 {
		a.Crouch = outputs[1] != 0
	}
	return a
}
