// Package insight holds the dashboard's fixed copy (page title, headings and
// the two insight blocks) and renders the markdown blocks for HTML pages and
// terminals.
package insight

// Page copy.
const (
	PageTitle    = "Lebanon’s Development Dilemma"
	Headline     = "Lebanon’s Unfinished Story: Between Infrastructure Projects and Economic Realities"
	Caption      = "Uncover the story of Lebanon’s finances and infrastructure projects shaping its regions"
	HeroImageURL = "https://d2p9i44hnkrmkx.cloudfront.net/files/page-8%20Cropped.jpg"
	HeroCaption  = "Beirut skyline (illustrative)"

	InfrastructureHeading = "Section 1: Infrastructure: Signs of Promise or Neglect?"
	SliderLabel           = "Population size in Governorates"
	ZeroInitiativeHeading = "Which Districts Are Left Behind?"
	ZeroInitiativeButton  = "Spot the Zero-Initiative Districts"
	InfraInsightsHeading  = "Uncover Key Patterns in Infrastructure"

	DebtHeading         = "Section 2: What Holds Back Infrastructure Dreams?"
	DebtStepPrefix      = "Time (years)="
	DebtInsightsHeading = "Debt or Development: Which Path Will Lebanon Take?"
	InsightsButton      = "Click the button"
)

// Block identifies one of the two insight texts.
type Block string

const (
	BlockInfrastructure Block = "infrastructure"
	BlockDebt           Block = "debt"
)

// Blocks lists the insight blocks in page order.
func Blocks() []Block {
	return []Block{BlockInfrastructure, BlockDebt}
}

// Heading returns the heading shown above the block's toggle.
func (block Block) Heading() string {
	switch block {
	case BlockInfrastructure:
		return InfraInsightsHeading
	case BlockDebt:
		return DebtInsightsHeading
	default:
		return ""
	}
}

// Markdown returns the block's markdown source, or "" for an unknown block.
func (block Block) Markdown() string {
	switch block {
	case BlockInfrastructure:
		return InfrastructureMarkdown
	case BlockDebt:
		return DebtMarkdown
	default:
		return ""
	}
}

// InfrastructureMarkdown is revealed by the infrastructure insights toggle.
const InfrastructureMarkdown = `***Insights:***

27% of infrastructure projects belong to Mount Lebanon. However, significant locations like Baalbek-Hermel accounts for only 5% of the infrastructure projects.
While Mount Lebanon's higher project density is in line with its larger population and dynamic economy, it runs the risk of intensifying inequality with rural districts.
In the last five years, almost 80% of towns have not had any infrastructure projects. This raises questions about planning and execution.

***Recommendation:***

Reconstruction and urgent funding are desperately needed for Lebanon's infrastructure, especially in the governorates of Beqaa, Nabatiyeh, Baalbeck-Hermel and in the South. It is crucial to allocate funds for the reconstruction and modernization of the country's infrastructure.

***Reasons to act:***

- Infrastructure (roads, utilities, and basic services) has deteriorated severely in recent years.
- Weak road networks and failing utilities have direct effects on the lives of citizens: raise risks of accidents, health hazards, and social unrest.
- Improved infrastructure increases economic opportunities and rebuilds confidence in the government.
- Giving urban areas priority, carries the risk of excluding rural communities and encouraging their migration to urban areas. Beirut, Tripoli, and Zahle may become overcrowded with residents from underserved neighborhoods, worsening traffic, housing shortages, and public service failures.
`

// DebtMarkdown is revealed by the debt insights toggle.
const DebtMarkdown = `***Insights:***

Lebanese external debt has grown significantly during the past 60 years, from 42 million USD to around 13 billion USD. Between 2018 and 2023, Lebanon's external debt remained extremely high and fluctuating: peaking in 2018-2019, declining in 2020-2021, and then rising once again in 2022. Therefore, the government's capacity to fund new infrastructure is constrained by the high level of debt. Initiatives for infrastructure is dispersed unevenly.

***Debt vs. Infrastructure Dilemma:***

Postponing infrastructure maintenance and projects due to debt pressure transforms minor repairs into later costly reconstruction. Additionally, lack of infrastructure discourages investor interest in Lebanon, further aggravating the country's economic challenges.

This makes infrastructure not just a spending choice, but a critical foundation that must progress alongside debt solutions, since neglecting it only magnifies future costs and instability.

***Recommendations and Next Steps:***

- **Develop a Targeted Recovery Plan:** Make sure every district has at least a basic level of infrastructure projects. Prioritize governorates that have been left behind, such as South, Beqaa, and Baalbek-Hermel.
- **Secure Long-Term Funding:** Restructure debt to free up funds for investments and reduce the pressure of immediate repayment. Additionally, raise funds via public-private partnerships (PPPs), development banks, and international donors.
- **Prioritize Quick Wins:** Start small, obvious improvements like repairing roads. Quick wins rapidly enhance everyday life and let donors and citizens know that progress is being made.
- **Enhance Accountability and Transparency:** To promote co-financing and rebuild confidence, openly share project pipelines, expenses, and schedules. Moreover, to guarantee that projects are completed on schedule, use independent monitoring.
`
