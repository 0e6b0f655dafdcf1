// Package prompt builds the fixed natural-language instructions sent to the
// generation service. Each template is a fixed instruction pattern with named
// substitution slots filled from form inputs.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// TemplateID names one prompt template.
type TemplateID string

const (
	TemplateInsights       TemplateID = "insights"
	TemplateSolutions      TemplateID = "solutions"
	TemplateGreenTech      TemplateID = "greentech"
	TemplateAssistant      TemplateID = "assistant"
	TemplateCityComparison TemplateID = "city_comparison"
	TemplateTechROI        TemplateID = "tech_roi"
	TemplateImpact         TemplateID = "impact"
	TemplateTrends         TemplateID = "trends"
)

// Params holds the substitution slots. Only the fields a given template
// references are read; the rest are ignored. Values interpolate as given,
// required-field checks happen at the controller before the action runs.
type Params struct {
	Category     string   // solution category
	BuildingType string   // e.g. Residential
	ClimateZone  string   // e.g. Arid
	Question     string   // free-text assistant question
	Cities       []string // cities to compare
	Technology   string   // e.g. Solar Panels
	Investment   int      // investment amount in USD
	Scenario     string   // free-text impact scenario
	Years        int      // forecast horizon
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

var templates = map[TemplateID]*template.Template{
	TemplateInsights: parse("insights", `Provide 3 brief, current insights about smart cities and green buildings. Each insight should be 1-2 sentences. Focus on recent innovations, technologies, or trends. Format as JSON with keys: insight1, insight2, insight3`),

	TemplateSolutions: parse("solutions", `Generate 5 innovative {{.Category}} solutions for smart cities. For each solution, provide:
1. Solution name
2. Brief description (2-3 sentences)
3. Key technology used
4. Expected impact

Format as a numbered list.`),

	TemplateGreenTech: parse("greentech", `Recommend 5 specific green building technologies for a {{.BuildingType}} building in a {{.ClimateZone}} climate. For each technology:
1. Technology name
2. How it works
3. Energy savings potential
4. Cost-effectiveness
5. Implementation difficulty

Be specific and practical.`),

	TemplateAssistant: parse("assistant", `You are an expert in smart cities and green buildings. Answer this question professionally and practically: {{.Question}}

Provide actionable insights and real-world examples where relevant.`),

	TemplateCityComparison: parse("city_comparison", `Compare these cities in terms of smart city and green building initiatives: {{join .Cities ", "}}

Provide:
1. Overall sustainability ranking
2. Key strengths of each city
3. Innovative technologies used
4. Lessons learned
5. Best practices to adopt

Be specific with examples.`),

	TemplateTechROI: parse("tech_roi", `Calculate detailed ROI for {{.Technology}} with an investment of ${{.Investment}}.

Include:
1. Payback period
2. Annual savings
3. 10-year cost-benefit analysis
4. Environmental impact (CO2 reduction)
5. Maintenance costs
6. Risk factors

Use realistic industry averages.`),

	TemplateImpact: parse("impact", `Conduct a detailed environmental impact assessment for: {{.Scenario}}

Analyze:
1. Carbon emission reduction (tons/year)
2. Energy savings (MWh/year)
3. Water conservation (gallons/year)
4. Cost savings (USD/year)
5. Job creation potential
6. Social benefits
7. Implementation challenges

Provide specific numbers and calculations.`),

	TemplateTrends: parse("trends", `Predict smart city and green building trends for the next {{.Years}} years.

Cover:
1. Emerging technologies
2. Policy changes expected
3. Market evolution
4. Consumer behavior shifts
5. Major challenges ahead
6. Investment opportunities
7. Breakthrough innovations likely

Be forward-thinking but realistic.`),
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

// Build renders the template identified by id with the given parameters.
// Deterministic: the same inputs always produce the same prompt text.
func Build(id TemplateID, p Params) (string, error) {
	tpl, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", id)
	}
	sb := &strings.Builder{}
	if err := tpl.Execute(sb, p); err != nil {
		return "", fmt.Errorf("failed to build %s prompt: %w", id, err)
	}
	return sb.String(), nil
}
