package scoring

// RankDef is one row of the rank table: an inclusive total-score range and
// its letter and label.
type RankDef struct {
	Letter string
	Min    int
	Max    int
	Label  string
}

// FallbackRank is returned when a total falls into no range of the table.
const FallbackRank = "E"

// DefaultRanks is the rank table, ordered from best to worst.
var DefaultRanks = []RankDef{
	{Letter: "A", Min: 541, Max: 600, Label: "Excellent"},
	{Letter: "B", Min: 481, Max: 540, Label: "Good"},
	{Letter: "C", Min: 421, Max: 480, Label: "Needs improvement"},
	{Letter: "D", Min: 360, Max: 420, Label: "Major improvement needed"},
	{Letter: "E", Min: 0, Max: 359, Label: "Difficult to adopt"},
}

// Rank classifies a total score against DefaultRanks.
func Rank(total int) RankDef {
	return RankFor(DefaultRanks, total)
}

// RankFor returns the first row of table whose range contains total.
// Totals outside every range get the fallback letter E.
func RankFor(table []RankDef, total int) RankDef {
	for _, r := range table {
		if r.Min <= total && total <= r.Max {
			return r
		}
	}
	for _, r := range table {
		if r.Letter == FallbackRank {
			return r
		}
	}
	return RankDef{Letter: FallbackRank, Label: RankLabel(FallbackRank)}
}

// RankLabel returns the label of a rank letter, or "Unknown".
func RankLabel(letter string) string {
	for _, r := range DefaultRanks {
		if r.Letter == letter {
			return r.Label
		}
	}
	return "Unknown"
}
