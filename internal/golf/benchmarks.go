package golf

// Benchmark is one row of the per-handicap reference table used to ground
// "path to a lower handicap" guidance. The rows are fixed constants.
type Benchmark struct {
	Handicap      int
	AvgScore      float64
	FairwayPct    int
	GIRPct        int
	PuttsPerRound float64
	UpAndDownPct  int
}

// benchmarkTable is ordered from highest handicap to scratch.
var benchmarkTable = []Benchmark{
	{Handicap: 25, AvgScore: 100.0, FairwayPct: 27, GIRPct: 7, PuttsPerRound: 34.0, UpAndDownPct: 18},
	{Handicap: 20, AvgScore: 95.0, FairwayPct: 31, GIRPct: 13, PuttsPerRound: 33.0, UpAndDownPct: 22},
	{Handicap: 15, AvgScore: 90.0, FairwayPct: 35, GIRPct: 22, PuttsPerRound: 32.0, UpAndDownPct: 28},
	{Handicap: 10, AvgScore: 85.0, FairwayPct: 40, GIRPct: 31, PuttsPerRound: 31.0, UpAndDownPct: 33},
	{Handicap: 5, AvgScore: 79.0, FairwayPct: 46, GIRPct: 43, PuttsPerRound: 30.0, UpAndDownPct: 42},
	{Handicap: 0, AvgScore: 73.0, FairwayPct: 52, GIRPct: 55, PuttsPerRound: 29.0, UpAndDownPct: 50},
}

// Benchmarks returns the full reference table, highest handicap first.
func Benchmarks() []Benchmark {
	out := make([]Benchmark, len(benchmarkTable))
	copy(out, benchmarkTable)
	return out
}

// BenchmarkFor returns the table row closest to the given handicap.
func BenchmarkFor(handicap float64) Benchmark {
	best := benchmarkTable[0]
	for _, row := range benchmarkTable {
		if diff(handicap, row.Handicap) < diff(handicap, best.Handicap) {
			best = row
		}
	}
	return best
}

// NextBenchmark returns the next lower-handicap row after the one matching
// the given handicap, or the scratch row when already at the bottom.
func NextBenchmark(handicap float64) Benchmark {
	current := BenchmarkFor(handicap)
	for i, row := range benchmarkTable {
		if row.Handicap == current.Handicap && i+1 < len(benchmarkTable) {
			return benchmarkTable[i+1]
		}
	}
	return benchmarkTable[len(benchmarkTable)-1]
}

func diff(a float64, b int) float64 {
	d := a - float64(b)
	if d < 0 {
		return -d
	}
	return d
}
