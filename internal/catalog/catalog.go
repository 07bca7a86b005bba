package catalog

import (
	"fmt"
	"strings"

	"interviewlab/internal/model"
)

// Catalog is the static stage catalog for the BA curriculum. Loaded once at
// startup; stages and their required areas never change at runtime.
type Catalog struct {
	stages []model.StageDefinition
}

// Stage thresholds: exploratory stages use the lower tier, design stages
// the higher one.
const (
	ThresholdExploratory = 0.65
	ThresholdDesign      = 0.70
)

// New returns the built-in catalog.
func New() *Catalog {
	return &Catalog{stages: defaultStages()}
}

// Stage looks up a stage definition by id.
func (c *Catalog) Stage(id string) (*model.StageDefinition, bool) {
	for i := range c.stages {
		if c.stages[i].ID == id {
			return &c.stages[i], true
		}
	}
	return nil, false
}

// Stages returns all stage definitions in curriculum order.
func (c *Catalog) Stages() []model.StageDefinition {
	return c.stages
}

// Validate checks catalog/code consistency. A failure here is a build-time
// mistake, not a runtime data issue, so callers should treat it as fatal.
func (c *Catalog) Validate() error {
	if len(c.stages) == 0 {
		return fmt.Errorf("catalog: no stages defined")
	}
	seenStage := map[string]bool{}
	for _, s := range c.stages {
		if seenStage[s.ID] {
			return fmt.Errorf("catalog: duplicate stage %q", s.ID)
		}
		seenStage[s.ID] = true
		if s.PassThreshold <= 0 || s.PassThreshold >= 1 {
			return fmt.Errorf("catalog: stage %q threshold %v out of range", s.ID, s.PassThreshold)
		}
		if len(s.RequiredAreas) == 0 {
			return fmt.Errorf("catalog: stage %q has no required areas", s.ID)
		}
		seenArea := map[string]bool{}
		for _, a := range s.RequiredAreas {
			if seenArea[a.ID] {
				return fmt.Errorf("catalog: stage %q duplicate area %q", s.ID, a.ID)
			}
			seenArea[a.ID] = true
			if len(a.Keywords) == 0 {
				return fmt.Errorf("catalog: stage %q area %q has no keywords", s.ID, a.ID)
			}
			for _, kw := range a.Keywords {
				if kw != strings.ToLower(kw) {
					return fmt.Errorf("catalog: stage %q area %q keyword %q must be lowercase", s.ID, a.ID, kw)
				}
			}
			if a.NextTimeScript == "" || a.MiniLesson == "" {
				return fmt.Errorf("catalog: stage %q area %q missing coaching text", s.ID, a.ID)
			}
		}
	}
	return nil
}

func defaultStages() []model.StageDefinition {
	return []model.StageDefinition{
		{
			ID:                     "problem_exploration",
			Title:                  "Problem Exploration",
			PassThreshold:          ThresholdExploratory,
			PenalizeEarlySolutions: true,
			RequiredAreas: []model.RequiredArea{
				{
					ID:             "pain_points",
					Label:          "Pain points",
					Keywords:       []string{"pain point", "pain", "problem", "frustrat", "struggle", "difficult", "annoying"},
					NextTimeScript: "What parts of your day cause the most pain for you and your team?",
					MiniLesson:     "Start with pain, not features. Stakeholders describe problems more honestly than they evaluate solutions.",
				},
				{
					ID:             "blockers",
					Label:          "Blockers",
					Keywords:       []string{"blocker", "blocked", "stuck", "bottleneck", "waiting on", "holds you up"},
					NextTimeScript: "Where does work get stuck or blocked most often?",
					MiniLesson:     "Blockers reveal the real process. Ask what people are waiting on, not what the process document says.",
				},
				{
					ID:             "handoffs",
					Label:          "Handoffs",
					Keywords:       []string{"handoff", "hand off", "hand-off", "between teams", "passes to", "transfer"},
					NextTimeScript: "How does work move between your team and others, and what gets lost on the way?",
					MiniLesson:     "Most friction hides at team boundaries. Trace a piece of work across every handoff.",
				},
				{
					ID:             "constraints",
					Label:          "Constraints",
					Keywords:       []string{"constraint", "limit", "budget", "deadline", "restrict", "compliance", "regulation"},
					NextTimeScript: "What constraints, like budget, deadlines or compliance, shape how you work today?",
					MiniLesson:     "Constraints bound the solution space. Surface them early so later design talk stays realistic.",
				},
				{
					ID:             "customer_impact",
					Label:          "Customer impact",
					Keywords:       []string{"customer", "client", "end user", "impact on", "affect"},
					NextTimeScript: "How do these issues show up for your customers?",
					MiniLesson:     "Tie every internal problem to customer impact; it is what makes the business case land.",
				},
			},
		},
		{
			ID:                     "as_is_analysis",
			Title:                  "As-Is Analysis",
			PassThreshold:          ThresholdExploratory,
			PenalizeEarlySolutions: true,
			RequiredAreas: []model.RequiredArea{
				{
					ID:             "process_steps",
					Label:          "Process steps",
					Keywords:       []string{"step", "process", "workflow", "first", "then", "next", "walk me through"},
					NextTimeScript: "Could you walk me through the process step by step, starting from the trigger?",
					MiniLesson:     "Ask for a concrete recent example, not the ideal flow. The last real case exposes the actual steps.",
				},
				{
					ID:             "roles",
					Label:          "Roles and owners",
					Keywords:       []string{"role", "who", "owner", "responsible", "team", "approver"},
					NextTimeScript: "Who is involved at each step, and who owns the outcome?",
					MiniLesson:     "Every step needs an owner. Unowned steps are where work silently dies.",
				},
				{
					ID:             "systems",
					Label:          "Systems and tools",
					Keywords:       []string{"system", "tool", "spreadsheet", "software", "application", "manual"},
					NextTimeScript: "Which systems or tools support this today, and where do people fall back to spreadsheets?",
					MiniLesson:     "Manual workarounds mark the gap between the official system and reality. Hunt for them.",
				},
				{
					ID:             "metrics",
					Label:          "Metrics",
					Keywords:       []string{"metric", "measure", "kpi", "how long", "how many", "volume", "cycle time"},
					NextTimeScript: "How do you measure this today: volumes, cycle times, error rates?",
					MiniLesson:     "Numbers anchor the baseline. Without as-is metrics you cannot prove any to-be improvement.",
				},
				{
					ID:             "exceptions",
					Label:          "Exceptions",
					Keywords:       []string{"exception", "edge case", "goes wrong", "fails", "escalat", "rework"},
					NextTimeScript: "What happens when things go wrong; how are exceptions handled?",
					MiniLesson:     "The happy path is rarely the expensive path. Exceptions and rework usually carry the real cost.",
				},
			},
		},
		{
			ID:            "to_be_design",
			Title:         "To-Be Design",
			PassThreshold: ThresholdDesign,
			RequiredAreas: []model.RequiredArea{
				{
					ID:             "goals",
					Label:          "Goals",
					Keywords:       []string{"goal", "objective", "outcome", "achieve", "vision"},
					NextTimeScript: "What outcome would make this change a clear win for you?",
					MiniLesson:     "Design against outcomes, not feature requests. Ask what success looks like in a year.",
				},
				{
					ID:             "priorities",
					Label:          "Priorities",
					Keywords:       []string{"priorit", "most important", "first", "trade", "rank"},
					NextTimeScript: "If you could only improve one thing this quarter, what would it be and why?",
					MiniLesson:     "Forcing a single priority reveals the stakeholder's real ranking better than any scoring matrix.",
				},
				{
					ID:             "success_criteria",
					Label:          "Success criteria",
					Keywords:       []string{"success", "criteria", "measure", "target", "know it worked"},
					NextTimeScript: "How will we know the new process is working; what would you measure?",
					MiniLesson:     "Success criteria must be observable. 'Better' is not a criterion; 'under two days' is.",
				},
				{
					ID:             "risks",
					Label:          "Risks",
					Keywords:       []string{"risk", "concern", "worry", "could fail", "downside", "resist"},
					NextTimeScript: "What worries you most about changing this process?",
					MiniLesson:     "Asking about risk invites the objections now, while they are cheap to address.",
				},
			},
		},
		{
			ID:            "solution_design",
			Title:         "Solution Design",
			PassThreshold: ThresholdDesign,
			RequiredAreas: []model.RequiredArea{
				{
					ID:             "requirements",
					Label:          "Requirements",
					Keywords:       []string{"requirement", "must have", "need", "capability", "feature"},
					NextTimeScript: "What must the solution do on day one for your team to adopt it?",
					MiniLesson:     "Separate must-have from nice-to-have in the conversation itself, not afterwards at your desk.",
				},
				{
					ID:             "scope",
					Label:          "Scope",
					Keywords:       []string{"scope", "in scope", "out of scope", "include", "exclude", "boundary"},
					NextTimeScript: "What should we explicitly leave out of the first release?",
					MiniLesson:     "Scope is defined by what you exclude. An explicit out-of-scope list prevents quiet creep.",
				},
				{
					ID:             "tradeoffs",
					Label:          "Trade-offs",
					Keywords:       []string{"trade-off", "tradeoff", "versus", "instead of", "give up", "cost of"},
					NextTimeScript: "If we gain speed here, what are you willing to give up in return?",
					MiniLesson:     "Every design choice trades something away. Make the stakeholder choose, on record.",
				},
				{
					ID:             "acceptance",
					Label:          "Acceptance",
					Keywords:       []string{"accept", "sign off", "approve", "done when", "verify"},
					NextTimeScript: "What would you need to see before signing off that this is done?",
					MiniLesson:     "Acceptance criteria agreed in conversation become the contract for delivery.",
				},
			},
		},
	}
}
