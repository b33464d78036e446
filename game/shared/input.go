package shared

// InputIntent is the abstract per-player movement intent consumed by the
// core. The input collaborator translates raw device state into these flags;
// the simulation never reads devices directly.
type InputIntent struct {
	Forward    bool `json:"forward"`
	Backward   bool `json:"backward"`
	Left       bool `json:"left"`
	Right      bool `json:"right"`
	TurretUp   bool `json:"turretUp"`
	TurretDown bool `json:"turretDown"`
}

// FireIntent carries the discrete fire events for a single tick.
type FireIntent struct {
	Shoot       bool `json:"shoot"`
	ShootGuided bool `json:"shootGuided"`
}
