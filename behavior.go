package amoebawars

// A SteerFunc returns the movement intent of a non-player amoeba
// given its own body and the player's, both taken at the start of the frame.
type SteerFunc func(self, player Body, clk Clock, p *Params) Vec3

// Behavior contains the steering laws followed by non-player amoebas.
type Behavior struct {
	Food  SteerFunc
	Enemy SteerFunc
}

// DefaultBehavior returns the default steering laws: food keeps its distance
// and enemies chase.
func DefaultBehavior() Behavior {
	return Behavior{Food: KeepDistance, Enemy: Chase}
}

// KeepDistance makes food flee from the player's target center when closer
// than SafeDistance, and drift back toward it otherwise.
func KeepDistance(self, player Body, clk Clock, p *Params) Vec3 {
	dir := Direction(self.Target, player.Target)
	if Dist(self.Center, player.Target) < p.SafeDistance {
		return dir.Mul(-self.Speed * p.FleeScale * clk.Difficulty)
	}
	return dir.Mul(self.Speed * p.ApproachScale * clk.Difficulty)
}

// Chase makes enemies swim toward the player's true center.
func Chase(self, player Body, clk Clock, p *Params) Vec3 {
	return Direction(self.Center, player.Center).Mul(self.Speed * p.ChaseScale * clk.Difficulty)
}
