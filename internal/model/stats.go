package model

// AggregateStats accumulates counts and distributions over every valid
// parsed document found in an output directory.
type AggregateStats struct {
	TotalDocuments int
	TotalPages     int
	TotalBlocks    int

	ParsingDurationsMs []float64
	PagesPerDoc        []float64
	BlocksPerDoc       []float64
	BlocksPerPage      []float64

	Documents []DocumentStats
	Skipped   int
}

// Add folds one document into the accumulator.
func (s *AggregateStats) Add(d DocumentStats) {
	s.TotalDocuments++
	s.TotalPages += int(d.Pages)
	s.TotalBlocks += int(d.Blocks)
	s.ParsingDurationsMs = append(s.ParsingDurationsMs, d.ParsingDuration)
	s.PagesPerDoc = append(s.PagesPerDoc, float64(d.Pages))
	s.BlocksPerDoc = append(s.BlocksPerDoc, float64(d.Blocks))
	s.BlocksPerPage = append(s.BlocksPerPage, d.BlocksPerPage)
	s.Documents = append(s.Documents, d)
}
