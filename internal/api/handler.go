package api

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/verdantcity/verdant/internal/db"
	"github.com/verdantcity/verdant/internal/models"
	"github.com/verdantcity/verdant/internal/prompt"
	"github.com/verdantcity/verdant/internal/web"
	"go.uber.org/zap"
)

// Completer is the generation boundary the page handlers depend on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	store  *db.Store
	llm    Completer
	logger *zap.Logger
}

func NewHandler(store *db.Store, completer Completer, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		llm:    completer,
		logger: logger,
	}
}

// Form option catalogs. These mirror the dashboard's fixed widget choices.
var (
	solutionCategories = []string{"Smart Energy", "Smart Mobility", "Smart Buildings", "Smart Waste", "Smart Water"}
	buildingTypes      = []string{"Residential", "Commercial", "Industrial", "Educational", "Healthcare"}
	climateZones       = []string{"Tropical", "Arid", "Temperate", "Cold", "Polar"}
	cityOptions        = []string{"Singapore", "Copenhagen", "Amsterdam", "Barcelona", "San Francisco", "Tokyo", "Dubai", "Stockholm", "Oslo", "Vienna"}
	technologies       = []string{"Solar Panels", "Smart HVAC", "Rainwater Harvesting", "LED Lighting", "Green Roofs", "Energy Storage", "Smart Windows", "Geothermal Cooling"}
)

const (
	analysisCityComparison = "City Comparison"
	analysisTechROI        = "Technology ROI"
	analysisImpact         = "Impact Assessment"
	analysisTrends         = "Future Trends"
)

// session resolves the caller's session, issuing a cookie on first contact.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie("session"); err == nil && c.Value != "" {
		ok, err := h.store.SessionExists(c.Value)
		if err != nil {
			return "", err
		}
		if ok {
			return c.Value, nil
		}
	}

	sess, err := h.store.CreateSession()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
	})
	return sess.ID, nil
}

// complete runs one prompt through the generation service and returns the
// rendered output or an inline error box. Failures stay on the page; the
// session remains usable.
func (h *Handler) complete(ctx context.Context, page string, id prompt.TemplateID, p prompt.Params) (output, errBox string) {
	text, err := prompt.Build(id, p)
	if err != nil {
		h.logger.Error("failed to build prompt", zap.Error(err), zap.String("page", page))
		return "", web.ErrorBox(err.Error())
	}

	completion, err := h.llm.Complete(ctx, text)
	if err != nil {
		h.logger.Error("completion failed", zap.Error(err), zap.String("page", page))
		return "", web.ErrorBox(err.Error())
	}

	h.logger.Debug("completion rendered",
		zap.String("page", page),
		zap.String("template", string(id)),
		zap.Int("chars", len(completion)))
	return web.Output(web.RenderString(completion)), ""
}

// Home serves the landing page with the AI insights action.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, err := h.session(w, r); err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var result string
	if r.Method == http.MethodPost {
		output, errBox := h.complete(r.Context(), "home", prompt.TemplateInsights, prompt.Params{})
		if errBox != "" {
			result = errBox
		} else {
			result = web.SuccessNote("Latest insights generated!") +
				`<p><strong>AI-Generated Insights (` + time.Now().Format("2006-01-02 15:04:05") + `)</strong></p>` +
				web.InfoBox(output)
		}
	}

	focus := web.RenderString(`### Key Focus Areas

- **Smart Infrastructure**: IoT-enabled urban systems
- **Green Buildings**: Energy-efficient architecture
- **Sustainable Transport**: Electric & public transit
- **Waste Management**: Smart recycling solutions
- **Energy Systems**: Renewable energy integration
- **Water Conservation**: Smart water management`)

	goals := web.RenderString(`### Project Goals

- Reduce carbon emissions by 50%
- Achieve 80% energy efficiency
- Implement 100% renewable energy
- Zero waste to landfill target
- Smart mobility for all citizens
- Improve quality of life metrics`)

	content := web.Columns(focus, goals) +
		`<h3>Real-time Urban Sustainability Insights</h3>` +
		`<form action="/" method="POST"><button>Get Latest Insights from AI</button></form>` +
		result

	w.Write([]byte(web.RenderHTML("Home", "Smart cities and green buildings dashboard", content)))
}

// Solutions serves the smart city solutions page.
func (h *Handler) Solutions(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session(w, r); err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	category := solutionCategories[0]
	var result string

	if r.Method == http.MethodPost {
		r.ParseForm()
		if v := r.Form.Get("category"); v != "" {
			category = v
		}
		output, errBox := h.complete(r.Context(), "solutions", prompt.TemplateSolutions, prompt.Params{Category: category})
		if errBox != "" {
			result = errBox
		} else {
			result = web.SuccessNote("Solutions generated!") + output
		}
	}

	content := `<h2>Smart City Solutions</h2>` +
		`<form action="/solutions" method="POST">` +
		web.Select("category", "Select solution category:", solutionCategories, category) +
		`<button>Generate Solution Ideas</button></form>` +
		result

	w.Write([]byte(web.RenderHTML("Smart Solutions", "Smart city solution ideas", content)))
}

// GreenTech serves the green building technologies page.
func (h *Handler) GreenTech(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session(w, r); err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	buildingType := buildingTypes[0]
	climateZone := climateZones[0]
	var result string

	if r.Method == http.MethodPost {
		r.ParseForm()
		if v := r.Form.Get("building_type"); v != "" {
			buildingType = v
		}
		if v := r.Form.Get("climate_zone"); v != "" {
			climateZone = v
		}
		output, errBox := h.complete(r.Context(), "greentech", prompt.TemplateGreenTech, prompt.Params{
			BuildingType: buildingType,
			ClimateZone:  climateZone,
		})
		if errBox != "" {
			result = errBox
		} else {
			// The metric cards are illustrative figures, not derived from
			// the completion.
			result = web.SuccessNote("Recommendations ready!") + output +
				web.Metrics(
					web.Metric("Potential Energy Savings", "40-60%", "+15%"),
					web.Metric("ROI Period", "5-7 years", "-2 years"),
					web.Metric("Carbon Reduction", "45%", "+12%"),
				)
		}
	}

	content := `<h2>Green Building Technologies</h2>` +
		`<form action="/greentech" method="POST">` +
		web.Columns(
			web.Select("building_type", "Building Type:", buildingTypes, buildingType),
			web.Select("climate_zone", "Climate Zone:", climateZones, climateZone),
		) +
		`<button>Get Green Technology Recommendations</button></form>` +
		result

	w.Write([]byte(web.RenderHTML("Green Technologies", "Green building technology recommendations", content)))
}

// Assistant serves the chat page. The transcript re-renders from the session
// store on every request; submissions append the user turn, run the
// completion, then append the assistant turn.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.session(w, r)
	if err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var errBox string

	if r.Method == http.MethodPost {
		r.ParseForm()
		question := r.Form.Get("prompt")
		if question == "" {
			http.Redirect(w, r, "/assistant", http.StatusFound)
			return
		}

		if _, err := h.store.AppendTurn(sessionID, models.RoleUser, question); err != nil {
			h.logger.Error("failed to append user turn", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		text, err := prompt.Build(prompt.TemplateAssistant, prompt.Params{Question: question})
		if err != nil {
			h.logger.Error("failed to build prompt", zap.Error(err), zap.String("page", "assistant"))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		answer, err := h.llm.Complete(r.Context(), text)
		if err != nil {
			h.logger.Error("completion failed", zap.Error(err), zap.String("page", "assistant"))
			errBox = web.ErrorBox(err.Error())
		} else {
			if _, err := h.store.AppendTurn(sessionID, models.RoleAssistant, answer); err != nil {
				h.logger.Error("failed to append assistant turn", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/assistant", http.StatusFound)
			return
		}
	}

	history, err := h.store.History(sessionID)
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	transcript := `<div class="chat">`
	for _, turn := range history {
		transcript += web.ChatTurn(turn.Role, turn.Content)
	}
	transcript += `</div>`

	content := `<h2>AI Sustainability Assistant</h2>` +
		`<p>Ask questions about smart cities, green buildings, and sustainable urban development!</p>` +
		transcript + errBox +
		`<form action="/assistant" method="POST">` +
		`<input type="text" name="prompt" placeholder="Ask about smart cities and green buildings..." autofocus autocomplete="off">` +
		`<button>Send</button></form>` +
		`<form action="/assistant/clear" method="POST"><button class="secondary">Clear Chat History</button></form>`

	w.Write([]byte(web.RenderHTML("AI Assistant", "AI sustainability assistant", content)))
}

// ClearChat empties the session's transcript.
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, err := h.session(w, r)
	if err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.store.ClearSession(sessionID); err != nil {
		h.logger.Error("failed to clear chat history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/assistant", http.StatusFound)
}

// analyticsForm carries the analytics page's widget state across rerenders.
type analyticsForm struct {
	Analysis   string
	Cities     []string
	Technology string
	Investment int
	Scenario   string
	Years      int
}

func defaultAnalyticsForm() analyticsForm {
	return analyticsForm{
		Analysis:   analysisCityComparison,
		Cities:     []string{"Singapore", "Copenhagen"},
		Technology: technologies[0],
		Investment: 50000,
		Years:      10,
	}
}

// Analytics serves the sustainability analytics page with its four analysis
// types, each behind its own form.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session(w, r); err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	form := defaultAnalyticsForm()
	var result string

	if r.Method == http.MethodPost {
		r.ParseForm()
		form.Analysis = r.Form.Get("analysis")

		switch form.Analysis {
		case analysisCityComparison:
			form.Cities = r.Form["cities"]
			if len(form.Cities) == 0 {
				result = web.InfoBox("Select at least one city to compare.")
				break
			}
			output, errBox := h.complete(r.Context(), "analytics", prompt.TemplateCityComparison, prompt.Params{Cities: form.Cities})
			if errBox != "" {
				result = errBox
			} else {
				result = web.SuccessNote("Analysis complete!") + output
			}

		case analysisTechROI:
			if v := r.Form.Get("technology"); v != "" {
				form.Technology = v
			}
			if n, err := strconv.Atoi(r.Form.Get("investment")); err == nil {
				form.Investment = n
			}
			output, errBox := h.complete(r.Context(), "analytics", prompt.TemplateTechROI, prompt.Params{
				Technology: form.Technology,
				Investment: form.Investment,
			})
			if errBox != "" {
				result = errBox
			} else {
				result = web.SuccessNote("ROI calculated!") + output
			}

		case analysisImpact:
			form.Scenario = r.Form.Get("scenario")
			if form.Scenario == "" {
				result = web.InfoBox("Describe a scenario to assess first.")
				break
			}
			output, errBox := h.complete(r.Context(), "analytics", prompt.TemplateImpact, prompt.Params{Scenario: form.Scenario})
			if errBox != "" {
				result = errBox
			} else {
				result = web.SuccessNote("Impact assessed!") + output
			}

		case analysisTrends:
			if n, err := strconv.Atoi(r.Form.Get("years")); err == nil {
				form.Years = n
			}
			output, errBox := h.complete(r.Context(), "analytics", prompt.TemplateTrends, prompt.Params{Years: form.Years})
			if errBox != "" {
				result = errBox
			} else {
				result = web.SuccessNote("Trends identified!") + output
			}

		default:
			result = web.InfoBox("Select an analysis type.")
		}
	}

	content := `<h2>Sustainability Analytics Dashboard</h2>` +
		h.analyticsForms(form) + result

	w.Write([]byte(web.RenderHTML("Analytics", "Sustainability analytics dashboard", content)))
}

func (h *Handler) analyticsForms(form analyticsForm) string {
	comparison := web.Card(
		`<h3>City Comparison</h3>` +
			`<form action="/analytics" method="POST">` +
			`<input type="hidden" name="analysis" value="` + analysisCityComparison + `">` +
			web.MultiSelect("cities", "Select cities to compare:", cityOptions, form.Cities) +
			`<button>Compare Cities</button></form>`)

	roi := web.Card(
		`<h3>Technology ROI</h3>` +
			`<form action="/analytics" method="POST">` +
			`<input type="hidden" name="analysis" value="` + analysisTechROI + `">` +
			web.Select("technology", "Select Technology:", technologies, form.Technology) +
			`<label for="investment">Investment Amount (USD):</label>` +
			`<input type="number" id="investment" name="investment" min="1000" step="1000" value="` + strconv.Itoa(form.Investment) + `">` +
			`<button>Calculate ROI</button></form>`)

	impact := web.Card(
		`<h3>Impact Assessment</h3>` +
			`<form action="/analytics" method="POST">` +
			`<input type="hidden" name="analysis" value="` + analysisImpact + `">` +
			`<label for="scenario">Describe your smart city/green building scenario:</label>` +
			`<textarea id="scenario" name="scenario" placeholder="E.g., Converting 100 buildings to net-zero energy in a city of 500,000 people...">` +
			html.EscapeString(form.Scenario) + `</textarea>` +
			`<button>Assess Impact</button></form>`)

	trends := web.Card(
		`<h3>Future Trends</h3>` +
			`<form action="/analytics" method="POST">` +
			`<input type="hidden" name="analysis" value="` + analysisTrends + `">` +
			`<label for="years">Select timeframe (years ahead):</label>` +
			`<input type="number" id="years" name="years" min="1" max="20" value="` + strconv.Itoa(form.Years) + `">` +
			`<button>Predict Future Trends</button></form>`)

	return fmt.Sprintf("%s%s%s%s", comparison, roi, impact, trends)
}
