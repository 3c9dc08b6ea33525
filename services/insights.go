package services

import (
	"fmt"
	"sort"
	"strings"

	"deal-finder/models"
	"deal-finder/utils"
)

const topScoredLimit = 5

// InsightService summarises the final listing set of a run.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// CountRecommendations counts listings whose recommendation mentions each
// verdict. The tests are independent substring checks, so missing or
// malformed text is simply not counted.
func CountRecommendations(listings []*models.Listing) (pursue, investigate, skip int) {
	for _, l := range listings {
		if strings.Contains(l.Recommendation, "Pursue") {
			pursue++
		}
		if strings.Contains(l.Recommendation, "Investigate") {
			investigate++
		}
		if strings.Contains(l.Recommendation, "Skip") {
			skip++
		}
	}
	return pursue, investigate, skip
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ByTier:   make(map[int]int),
		BySource: make(map[string]int),
	}
	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.Pursue, report.Investigate, report.Skip = CountRecommendations(listings)

	for _, l := range listings {
		report.ByTier[l.Tier]++
		report.BySource[l.Source]++
	}

	for src := range report.BySource {
		report.Sources = append(report.Sources, src)
	}
	sort.Strings(report.Sources)

	ranked := make([]*models.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topScoredLimit {
		ranked = ranked[:topScoredLimit]
	}
	report.TopScored = ranked

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  DEAL FINDER RUN SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Deals in price range : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Pursue               : \033[1;32m%d\033[0m\n", r.Pursue)
	fmt.Printf("  Investigate          : \033[1;33m%d\033[0m\n", r.Investigate)
	fmt.Printf("  Skip                 : \033[1;31m%d\033[0m\n", r.Skip)
	fmt.Println()

	fmt.Printf("\033[1;33m  By Tier\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Tier 1 : %d | Tier 2 : %d | Tier 3 : %d | Unscored : %d\n",
		r.ByTier[1], r.ByTier[2], r.ByTier[3], r.ByTier[0])
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Heuristic Scores\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopScored) == 0 {
		fmt.Printf("  No deals found\n")
	} else {
		for i, l := range r.TopScored {
			fmt.Printf("  \033[1m%d.\033[0m %s \033[1;32m%4d\033[0m\n",
				i+1, utils.FitColumn(l.Title, 44), l.Score)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Deals by Source\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Sources) == 0 {
		fmt.Printf("  No sources returned deals\n")
	} else {
		for _, src := range r.Sources {
			bar := strings.Repeat("█", r.BySource[src])
			fmt.Printf("  %s %s (%d)\n", utils.FitColumn(src, 28), bar, r.BySource[src])
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
