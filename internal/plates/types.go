package plates

// Loadout summarises one resolution. PerSide is the weight the greedy fill targeted,
// LoadedPerSide what the chosen plates actually add up to.
type Loadout struct {
	TargetWeight    float64
	BarWeight       float64
	PerSide         float64
	Plates          []float64
	LoadedPerSide   float64
	LeftoverPerSide float64
	PlatesPerSide   int
	TotalPlates     int
	AchievedWeight  float64
}

// Group is a run of identical plates within a loadout.
type Group struct {
	Weight float64
	Count  int
}

// Resolver describes the behaviour required from a plate resolver.
type Resolver interface {
	Resolve(targetWeight, barWeight float64, denominations []float64) []float64
}
