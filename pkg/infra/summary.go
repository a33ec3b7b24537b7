package infra

import (
	"github.com/coolbeans/lebdash/pkg/dataset"
	"github.com/coolbeans/lebdash/pkg/region"
)

// GovernorateShare is a governorate's slice of all counted initiatives.
type GovernorateShare struct {
	Governorate region.Governorate `json:"governorate"`
	Projects    int                `json:"projects"`
	Percent     float64            `json:"percent"`
}

// Summary backs the infrastructure insight figures: how initiatives split
// across governorates and how many records report none.
type Summary struct {
	Rows               int                `json:"rows"`
	WithInitiatives    int                `json:"with_initiatives"`
	WithoutInitiatives int                `json:"without_initiatives"`
	ZeroSharePercent   float64            `json:"zero_share_percent"`
	Shares             []GovernorateShare `json:"shares"`
	Unmapped           []string           `json:"unmapped,omitempty"`
}

// Summarize computes shares over every canonical governorate, ignoring the
// population filter. Shares are ordered descending by projects.
func (pipeline *Pipeline) Summarize(infraFrame *Frame) (Summary, error) {
	summary := Summary{
		Rows:     infraFrame.Rows(),
		Shares:   make([]GovernorateShare, 0),
		Unmapped: infraFrame.Unmapped(),
	}

	for _, flag := range dataset.Numeric(infraFrame.frame, dataset.ColumnInitiativeFlag).Col(dataset.ColumnInitiativeFlag).Float() {
		switch flag {
		case 1:
			summary.WithInitiatives++
		case 0:
			summary.WithoutInitiatives++
		}
	}
	if flaggedRows := summary.WithInitiatives + summary.WithoutInitiatives; flaggedRows > 0 {
		summary.ZeroSharePercent = 100 * float64(summary.WithoutInitiatives) / float64(flaggedRows)
	}

	counts, err := infraFrame.CountByGovernorate(region.Governorates())
	if err != nil {
		return Summary{}, err
	}

	total := 0
	for _, count := range counts {
		total += count.Projects
	}

	for index := len(counts) - 1; index >= 0; index-- {
		share := GovernorateShare{
			Governorate: counts[index].Governorate,
			Projects:    counts[index].Projects,
		}
		if total > 0 {
			share.Percent = 100 * float64(share.Projects) / float64(total)
		}
		summary.Shares = append(summary.Shares, share)
	}

	return summary, nil
}
