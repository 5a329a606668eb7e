package report

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/cortex/pkg/errors"
)

const textTemplate = `Cortex Plan Report

Business Objective: {{.Selections.Objective}}
Brand Lifecycle Stage: {{.Selections.Stage}}
Industry Type: {{.Selections.Vertical}}
Marketing Priorities: {{join .Selections.Priorities}}
Investment: {{.Investment.Name}}

Strategic Imperatives: {{.Profile.StrategicImperative}}
KPIs: {{.Profile.KPIs}}
Core Audiences: {{.Profile.Audiences}}
Messaging Approach: {{.Profile.Messaging}}

Case Study: {{.CaseStudy}}

Recommendations:
{{- range .Recommendations}}
- {{.}}
{{- else}}
{{.RecommendationFallback}}
{{- end}}

Channel Allocation:
{{- range .Rows}}
  {{printf "%-14s" .Channel}} {{printf "%6.2f" .Percent}}%  {{money .Amount}}
{{- end}}
  {{printf "%-14s" "Total"}} {{printf "%6.2f" .Allocation.Total}}%  {{money .Budget.Total}}
`

var printer = message.NewPrinter(language.English)

var textTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join":  joinOrNone,
	"money": Money,
}).Parse(textTemplate))

// Text renders the plan as the plain-text report.
func Text(p *Plan) (string, error) {
	var sb strings.Builder
	if err := textTmpl.Execute(&sb, p); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render report")
	}
	return sb.String(), nil
}

// Money formats a dollar amount with thousands separators and no cents.
func Money(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
