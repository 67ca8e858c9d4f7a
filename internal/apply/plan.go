// Package apply sequences the "apply" action: confirm, show progress, open
// the company careers page and then the PM Internship portal.
package apply

import (
	"fmt"
	"time"

	"github.com/mtlprog/internfinder/internal/config"
	"github.com/mtlprog/internfinder/internal/domain"
)

// StepKind identifies a step in an apply plan.
type StepKind string

const (
	StepNotify  StepKind = "notify"
	StepDismiss StepKind = "dismiss"
	StepWait    StepKind = "wait"
	StepOpen    StepKind = "open"
)

// Step is one action of a plan.
type Step struct {
	Kind   StepKind
	Notice *domain.Notice
	Delay  time.Duration
	URL    string
}

// Plan is the full apply sequence for one internship.
type Plan struct {
	Title        string
	Company      string
	CompanyURL   string
	PortalURL    string
	KnownCompany bool
	Confirmation string
	Steps        []Step
}

// Directory resolves a company to its careers page.
type Directory interface {
	Resolve(company string) (string, bool)
}

// Planner builds apply plans.
type Planner struct {
	directory   Directory
	portalURL   string
	openDelay   time.Duration
	portalDelay time.Duration
}

// NewPlanner creates a Planner using the site's standard delays.
func NewPlanner(directory Directory, portalURL string) *Planner {
	return &Planner{
		directory:   directory,
		portalURL:   portalURL,
		openDelay:   config.ApplyOpenDelay,
		portalDelay: config.ApplyPortalDelay,
	}
}

// Plan resolves the company and lays out the steps. The company page is
// always opened before the portal.
func (p *Planner) Plan(title, company string) Plan {
	companyURL, known := p.directory.Resolve(company)

	loading := &domain.Notice{
		Level:   domain.NoticeInfo,
		Title:   "PM Internship Scheme",
		Message: fmt.Sprintf("Connecting to %s\n%s\nOpening careers portal...", company, title),
	}
	success := &domain.Notice{
		Level: domain.NoticeSuccess,
		Title: "PM Internship Portal Opened!",
		Message: fmt.Sprintf("Application Portal: %s\nPosition: %s\nPM Internship Scheme portal will open shortly for reference",
			company, title),
		Dismissible: true,
		TTL:         config.ApplySuccessTTL,
	}

	return Plan{
		Title:        title,
		Company:      company,
		CompanyURL:   companyURL,
		PortalURL:    p.portalURL,
		KnownCompany: known,
		Confirmation: Confirmation(title, company),
		Steps: []Step{
			{Kind: StepNotify, Notice: loading},
			{Kind: StepWait, Delay: p.openDelay},
			{Kind: StepOpen, URL: companyURL},
			{Kind: StepDismiss},
			{Kind: StepNotify, Notice: success},
			{Kind: StepWait, Delay: p.portalDelay},
			{Kind: StepOpen, URL: p.portalURL},
		},
	}
}

// Confirmation is the prompt shown before applying.
func Confirmation(title, company string) string {
	return fmt.Sprintf("Apply for PM Internship Scheme!\n\n"+
		"Position: %s\n"+
		"Company: %s\n"+
		"Stipend: ₹25,000/month\n"+
		"Duration: 12 months\n\n"+
		"This will redirect you to %s's official careers page where you can apply for this PM Internship opportunity.",
		title, company, company)
}
