package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantcity/verdant/internal/api"
	"github.com/verdantcity/verdant/internal/db"
	"github.com/verdantcity/verdant/internal/models"
	"go.uber.org/zap"
)

// stubCompleter records the prompts it receives and plays back a canned
// completion or failure.
type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestHandler(t *testing.T, stub *stubCompleter) (*api.Handler, *db.Store) {
	t.Helper()
	store, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return api.NewHandler(store, stub, zap.NewNop()), store
}

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestHomeRendersFocusAreas(t *testing.T) {
	handler, _ := newTestHandler(t, &stubCompleter{})

	rec := httptest.NewRecorder()
	handler.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Key Focus Areas")
	assert.Contains(t, rec.Body.String(), "Project Goals")
	assert.NotNil(t, sessionCookie(t, rec))
}

func TestHomeInsightsAction(t *testing.T) {
	stub := &stubCompleter{response: `{"insight1": "Digital twins are scaling."}`}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Home(rec, postForm("/", url.Values{}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Latest insights generated!")
	assert.Contains(t, rec.Body.String(), "Digital twins are scaling.")
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "insight1, insight2, insight3")
}

func TestGreenTechSubmissionBuildsPromptFromSelections(t *testing.T) {
	stub := &stubCompleter{response: "1. Cool roofs"}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.GreenTech(rec, postForm("/greentech", url.Values{
		"building_type": {"Residential"},
		"climate_zone":  {"Arid"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Residential")
	assert.Contains(t, stub.prompts[0], "Arid")
	assert.Contains(t, rec.Body.String(), "Recommendations ready!")
	assert.Contains(t, rec.Body.String(), "Potential Energy Savings")
}

func TestSolutionsErrorStaysInline(t *testing.T) {
	stub := &stubCompleter{err: errors.New("service unavailable")}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Solutions(rec, postForm("/solutions", url.Values{"category": {"Smart Water"}}))

	// The failure renders inline and the page stays usable.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "service unavailable")
	assert.Contains(t, rec.Body.String(), "Generate Solution Ideas")
}

func TestAssistantAppendsUserAndAssistantTurns(t *testing.T) {
	stub := &stubCompleter{response: "A green roof is..."}
	handler, store := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Assistant(rec, postForm("/assistant", url.Values{"prompt": {"What is a green roof?"}}))

	assert.Equal(t, http.StatusFound, rec.Code)
	cookie := sessionCookie(t, rec)

	turns, err := store.History(cookie.Value)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "What is a green roof?", turns[0].Content)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "A green roof is...", turns[1].Content)
}

func TestAssistantFailureKeepsUserTurnOnly(t *testing.T) {
	stub := &stubCompleter{err: errors.New("auth failed")}
	handler, store := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Assistant(rec, postForm("/assistant", url.Values{"prompt": {"hello?"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth failed")

	cookie := sessionCookie(t, rec)
	turns, err := store.History(cookie.Value)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleUser, turns[0].Role)
}

func TestAssistantRendersTranscript(t *testing.T) {
	handler, store := newTestHandler(t, &stubCompleter{})

	sess, err := store.CreateSession()
	require.NoError(t, err)
	_, err = store.AppendTurn(sess.ID, models.RoleUser, "What is a green roof?")
	require.NoError(t, err)
	_, err = store.AppendTurn(sess.ID, models.RoleAssistant, "A living roof.")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.Assistant(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "What is a green roof?")
	assert.Contains(t, rec.Body.String(), "A living roof.")
}

func TestClearChatEmptiesTranscript(t *testing.T) {
	handler, store := newTestHandler(t, &stubCompleter{})

	sess, err := store.CreateSession()
	require.NoError(t, err)
	_, err = store.AppendTurn(sess.ID, models.RoleUser, "remember this")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ClearChat(rec, postForm("/assistant/clear", url.Values{}, &http.Cookie{Name: "session", Value: sess.ID}))

	assert.Equal(t, http.StatusFound, rec.Code)
	turns, err := store.History(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAnalyticsTechROIPrompt(t *testing.T) {
	stub := &stubCompleter{response: "Payback period: 6 years"}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Analytics(rec, postForm("/analytics", url.Values{
		"analysis":   {"Technology ROI"},
		"technology": {"Solar Panels"},
		"investment": {"50000"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "50000")
	assert.Contains(t, stub.prompts[0], "Solar Panels")
	assert.Contains(t, rec.Body.String(), "ROI calculated!")
}

func TestAnalyticsCityComparisonJoinsSelection(t *testing.T) {
	stub := &stubCompleter{response: "Ranking: ..."}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Analytics(rec, postForm("/analytics", url.Values{
		"analysis": {"City Comparison"},
		"cities":   {"Singapore", "Copenhagen"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Singapore, Copenhagen")
}

func TestAnalyticsImpactRequiresScenario(t *testing.T) {
	stub := &stubCompleter{response: "unused"}
	handler, _ := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	handler.Analytics(rec, postForm("/analytics", url.Values{
		"analysis": {"Impact Assessment"},
		"scenario": {""},
	}))

	// No scenario, no call: the trigger is a no-op with a notice.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, stub.prompts)
	assert.Contains(t, rec.Body.String(), "Describe a scenario")
}

func TestSessionCookieIsReused(t *testing.T) {
	handler, _ := newTestHandler(t, &stubCompleter{})

	first := httptest.NewRecorder()
	handler.Home(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, first)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	handler.Home(second, req)

	for _, c := range second.Result().Cookies() {
		assert.NotEqual(t, "session", c.Name, "existing session should not be replaced")
	}
}
