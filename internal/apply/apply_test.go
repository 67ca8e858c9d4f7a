package apply_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/domain"
)

const portal = "https://pminternship.mca.gov.in/"

// recorder captures everything the runner does, in order.
type recorder struct {
	events  []string
	openErr error
}

func (r *recorder) Open(_ context.Context, url string) error {
	r.events = append(r.events, "open "+url)
	return r.openErr
}

func (r *recorder) Notify(n domain.Notice) {
	r.events = append(r.events, "notify "+n.Title)
}

func (r *recorder) Dismiss() {
	r.events = append(r.events, "dismiss")
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.events = append(r.events, "wait "+d.String())
	return nil
}

func newPlanner() *apply.Planner {
	return apply.NewPlanner(catalog.DefaultCompanyDirectory(portal), portal)
}

func TestPlan_KnownCompany(t *testing.T) {
	plan := newPlanner().Plan("Software Intern", "Infosys Limited")

	assert.True(t, plan.KnownCompany)
	assert.Equal(t, "https://www.infosys.com/careers/", plan.CompanyURL)
	assert.Equal(t, portal, plan.PortalURL)
	assert.Contains(t, plan.Confirmation, "Position: Software Intern")
	assert.Contains(t, plan.Confirmation, "Infosys Limited's official careers page")
}

func TestPlan_UnknownCompanyFallsBackToPortal(t *testing.T) {
	plan := newPlanner().Plan("Java Development", "SunbaseData")

	assert.False(t, plan.KnownCompany)
	assert.Equal(t, portal, plan.CompanyURL)
}

func TestRun_OpensCompanyThenPortal(t *testing.T) {
	rec := &recorder{}
	runner := apply.NewRunner(rec, rec, apply.WithSleep(rec.sleep))

	plan := newPlanner().Plan("Data Analyst", "Flipkart")
	require.NoError(t, runner.Run(context.Background(), plan))

	assert.Equal(t, []string{
		"notify PM Internship Scheme",
		"wait 1.5s",
		"open https://www.flipkartcareers.com/",
		"dismiss",
		"notify PM Internship Portal Opened!",
		"wait 2s",
		"open " + portal,
	}, rec.events)
}

func TestRun_StopsOnOpenFailure(t *testing.T) {
	rec := &recorder{openErr: errors.New("no browser")}
	runner := apply.NewRunner(rec, rec, apply.WithSleep(rec.sleep))

	err := runner.Run(context.Background(), newPlanner().Plan("Intern", "Zomato"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://www.zomato.com/careers")
	assert.Equal(t, "open https://www.zomato.com/careers", rec.events[len(rec.events)-1])
}

func TestRun_CancelledDuringWait(t *testing.T) {
	rec := &recorder{}
	runner := apply.NewRunner(rec, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, newPlanner().Plan("Intern", "Swiggy"))
	assert.ErrorIs(t, err, context.Canceled)
	for _, e := range rec.events {
		assert.NotContains(t, e, "open")
	}
}

func TestRun_RealSleepHonoursContext(t *testing.T) {
	rec := &recorder{}
	runner := apply.NewRunner(rec, rec)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := runner.Run(ctx, newPlanner().Plan("Intern", "Swiggy"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, []string{"notify PM Internship Scheme"}, rec.events)
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := apply.NewConsoleNotifier(&buf)

	n.Notify(domain.Notice{
		Level:   domain.NoticeInfo,
		Title:   "PM Internship Scheme",
		Message: "Connecting to TCS\nData Analyst",
	})
	n.Dismiss()

	assert.Equal(t, "[info] PM Internship Scheme\n    Connecting to TCS\n    Data Analyst\n", buf.String())
}
