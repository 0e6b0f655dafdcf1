package web

import (
	"html"
	"strings"
)

// UI layout helpers for consistent rendering.
// Use these wrappers + verdant.css classes.

// Card wraps content in a card container
func Card(content string) string {
	return `<div class="card">` + content + `</div>`
}

// Columns lays out fragments side by side
func Columns(cols ...string) string {
	var b strings.Builder
	b.WriteString(`<div class="columns">`)
	for _, c := range cols {
		b.WriteString(`<div>`)
		b.WriteString(c)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// InfoBox renders an informational callout
func InfoBox(content string) string {
	return `<div class="info-box">` + content + `</div>`
}

// ErrorBox renders an inline error message
func ErrorBox(message string) string {
	return `<div class="error-box">` + html.EscapeString(message) + `</div>`
}

// SuccessNote renders a short confirmation line
func SuccessNote(message string) string {
	return `<p class="success-note">` + html.EscapeString(message) + `</p>`
}

// Output wraps rendered completion HTML in the output container
func Output(inner string) string {
	return `<div class="output">` + inner + `</div>`
}

// Select renders a labelled single-choice dropdown, keeping the current
// selection across rerenders
func Select(name, label string, options []string, selected string) string {
	var b strings.Builder
	b.WriteString(`<label for="`)
	b.WriteString(name)
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</label><select id="`)
	b.WriteString(name)
	b.WriteString(`" name="`)
	b.WriteString(name)
	b.WriteString(`">`)
	for _, opt := range options {
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString(opt))
		b.WriteString(`"`)
		if opt == selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(opt))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}

// MultiSelect renders a labelled multi-choice list
func MultiSelect(name, label string, options []string, selected []string) string {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	var b strings.Builder
	b.WriteString(`<label for="`)
	b.WriteString(name)
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</label><select id="`)
	b.WriteString(name)
	b.WriteString(`" name="`)
	b.WriteString(name)
	b.WriteString(`" multiple size="6">`)
	for _, opt := range options {
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString(opt))
		b.WriteString(`"`)
		if chosen[opt] {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(opt))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}

// Metric renders one illustrative metric card
func Metric(label, value, delta string) string {
	return `<div class="metric"><div class="label">` + html.EscapeString(label) +
		`</div><div class="value">` + html.EscapeString(value) +
		`</div><div class="delta">` + html.EscapeString(delta) + `</div></div>`
}

// Metrics lays metric cards out in a row
func Metrics(cards ...string) string {
	return `<div class="metrics">` + strings.Join(cards, "") + `</div>`
}

// ChatTurn renders one transcript entry. The content is completion or user
// text, so it goes through the markdown renderer rather than raw escaping.
func ChatTurn(role, content string) string {
	return `<div class="turn ` + role + `"><span class="who">` + html.EscapeString(role) +
		`</span>` + RenderString(content) + `</div>`
}
