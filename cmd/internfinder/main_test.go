package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/internfinder/internal/domain"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"internfinder", "--log-level", "error", "--log-format", "text"}, args...))
	return out.String(), err
}

func TestSkillsCommand(t *testing.T) {
	out, err := run(t, "", "skills", "--field", "Electronics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Circuit Design\nEmbedded Systems\n"))

	out, err = run(t, "", "skills")
	require.NoError(t, err)
	assert.Contains(t, out, "Default: Python, Java, Web Development")
	assert.Contains(t, out, "Operations: Supply Chain, Logistics")

	_, err = run(t, "", "skills", "--field", "Astrology")
	assert.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	var payload domain.FormPayload
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status": "healthy", "data_loaded": 120}`)
		case "/api/recommendations":
			_ = json.NewDecoder(r.Body).Decode(&payload)
			_, _ = io.WriteString(w, `{"success": true, "recommendations": [
				{"title": "Cloud Intern", "company": "Wipro", "location": "Pune", "match_percentage": 80}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	out, err := run(t, "", "--api-url", api.URL, "recommend",
		"--education", "Computer Science",
		"--skill", "DevOps", "--skill", "Python", "--skill", "Circuit Design",
		"--location", "Pune", "--stipend", "₹12,000",
	)
	require.NoError(t, err)

	assert.Equal(t, "Computer Science", payload.Education)
	assert.Equal(t, []string{"DevOps", "Python"}, payload.Skills)
	assert.Equal(t, 12000, payload.MinStipend)
	assert.Contains(t, out, "Found 1 PM Internship opportunities matching your profile")
	assert.Contains(t, out, "PM Internship #1  [80% Match]")
	assert.Contains(t, out, domain.DefaultStipendDisplay)
}

func TestRecommendCommand_DoesNotWaitForHealth(t *testing.T) {
	release := make(chan struct{})
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			select {
			case <-r.Context().Done():
			case <-release:
			}
		case "/api/recommendations":
			_, _ = io.WriteString(w, `{"success": true, "recommendations": [{"title": "Cloud Intern", "company": "Wipro"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()
	defer close(release)

	type outcome struct {
		out string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := run(t, "", "--api-url", api.URL, "recommend",
			"--education", "Computer Science", "--skill", "Python", "--location", "Pune")
		done <- outcome{out, err}
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "Cloud Intern")
	case <-time.After(3 * time.Second):
		t.Fatal("recommend waited on the health check")
	}
}

func TestRecommendCommand_ValidationFails(t *testing.T) {
	_, err := run(t, "", "--api-url", "http://127.0.0.1:1", "recommend", "--education", "Commerce", "--location", "Delhi")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Equal(t, "Please select at least one skill from the updated list", exitErr.Error())
}

func TestApplyCommand_Declined(t *testing.T) {
	out, err := run(t, "n\n", "apply", "--title", "Data Analyst", "--company", "TCS")
	require.NoError(t, err)

	assert.Contains(t, out, "Apply for PM Internship Scheme!")
	assert.Contains(t, out, "Position: Data Analyst")
	assert.Contains(t, out, "Cancelled")
	assert.NotContains(t, out, "Open:")
}

func TestConfirm(t *testing.T) {
	assert.True(t, confirm(strings.NewReader("y\n"), io.Discard))
	assert.True(t, confirm(strings.NewReader(" YES "), io.Discard))
	assert.False(t, confirm(strings.NewReader("\n"), io.Discard))
	assert.False(t, confirm(strings.NewReader(""), io.Discard))
}
