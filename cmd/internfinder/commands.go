package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/browser"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/selection"
	"github.com/mtlprog/internfinder/internal/service"
)

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Request internship recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "education",
				Aliases: []string{"e"},
				Usage:   "Education field",
			},
			&cli.StringSliceFlag{
				Name:    "skill",
				Aliases: []string{"s"},
				Usage:   "Skill to select, in order (repeatable)",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "Preferred work location",
			},
			&cli.StringFlag{
				Name:  "stipend",
				Value: "0",
				Usage: "Minimum monthly stipend",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the recommendations as JSON",
			},
		},
		Action: runRecommend,
	}
}

func runRecommend(c *cli.Context) error {
	ctx := c.Context
	out := c.App.Writer

	manager := selection.NewManager(catalog.DefaultSkillCatalog())
	if field := c.String("education"); field != "" {
		if _, ok := manager.SetEducationField(field); !ok {
			return cli.Exit(domain.UserMessage(domain.ErrUnknownEducationField), 1)
		}
	}
	for _, skill := range c.StringSlice("skill") {
		before := len(manager.Selected())
		if len(manager.Toggle(skill).State.Selected) <= before {
			slog.Warn("skill not selected", "skill", skill, "education", manager.Field())
		}
	}

	apiClient := newClient(c)
	flow := service.NewSubmissionService(apiClient)
	flow.OnStatusChange(func(st service.Status) {
		slog.Debug("submission status changed", "status", st)
	})

	input := domain.FormInput{
		Education:          manager.Field(),
		Skills:             manager.Selected(),
		LocationPreference: c.String("location"),
		Stipend:            c.String("stipend"),
	}

	// The health check never holds up the submission and is cancelled on return.
	healthCtx, cancelHealth := context.WithCancel(ctx)
	defer cancelHealth()
	go apiClient.CheckHealth(healthCtx)

	result, err := flow.Submit(ctx, input)
	if err != nil {
		return cli.Exit(domain.UserMessage(err), 1)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Recommendations)
	}
	printRecommendations(out, result.Recommendations)
	return nil
}

func printRecommendations(w io.Writer, recs []domain.Recommendation) {
	fmt.Fprintln(w, "Your PM Internship Recommendations")
	fmt.Fprintf(w, "Found %d PM Internship opportunities matching your profile\n\n", len(recs))

	for i, r := range recs {
		header := fmt.Sprintf("PM Internship #%d", i+1)
		if r.MatchPercentage > 0 {
			header += fmt.Sprintf("  [%d%% Match]", r.MatchPercentage)
		}
		fmt.Fprintln(w, header)
		fmt.Fprintf(w, "  %s\n  %s\n", r.Title, r.Company)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  Location:\t%s\n", r.Location)
		fmt.Fprintf(tw, "  Stipend:\t%s\n", r.StipendDisplay())
		fmt.Fprintf(tw, "  Duration:\t%s\n", r.Duration)
		fmt.Fprintf(tw, "  Starts:\t%s\n", r.StartDate)
		tw.Flush()
		fmt.Fprintln(w)
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the recommendation API",
		Action: func(c *cli.Context) error {
			status, err := newClient(c).Health(c.Context)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "status_code=%d status=%s data_loaded=%d\n",
				status.StatusCode, status.Status, status.DataLoaded)
			if !status.OK() {
				return cli.Exit("API unhealthy", 1)
			}
			return nil
		},
	}
}

func skillsCommand() *cli.Command {
	return &cli.Command{
		Name:  "skills",
		Usage: "List education fields and their skills",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Only show this education field",
			},
		},
		Action: func(c *cli.Context) error {
			skills := catalog.DefaultSkillCatalog()
			w := c.App.Writer

			if field := c.String("field"); field != "" {
				labels, ok := skills.Skills(field)
				if !ok {
					return cli.Exit(domain.UserMessage(domain.ErrUnknownEducationField), 1)
				}
				for _, l := range labels {
					fmt.Fprintln(w, l)
				}
				return nil
			}

			fmt.Fprintf(w, "Default: %s\n", strings.Join(skills.DefaultTags(), ", "))
			for _, f := range skills.All() {
				fmt.Fprintf(w, "%s: %s\n", f.Name, strings.Join(f.Skills, ", "))
			}
			return nil
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Open the careers page and the PM Internship portal for a position",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Internship title",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "company",
				Aliases:  []string{"c"},
				Usage:    "Company name",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "browser",
				Usage: "Open the pages in Chrome instead of printing them",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run Chrome headless (with --browser)",
			},
		},
		Action: runApply,
	}
}

func runApply(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	portal := c.String("portal-url")
	plan := apply.NewPlanner(catalog.DefaultCompanyDirectory(portal), portal).
		Plan(c.String("title"), c.String("company"))

	out := c.App.Writer
	fmt.Fprintln(out, plan.Confirmation)
	if !c.Bool("yes") && !confirm(c.App.Reader, out) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	var opener apply.Opener = browser.NewLogOpener(out)
	var window browser.Window
	if c.Bool("browser") {
		chrome, err := browser.NewChromeOpener(ctx, c.Bool("headless"))
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		opener, window = chrome, chrome
	}

	runner := apply.NewRunner(opener, apply.NewConsoleNotifier(out))
	err := runner.Run(ctx, plan)
	if window != nil {
		keepOpen := err == nil && !c.Bool("headless")
		if keepOpen {
			fmt.Fprintln(out, "Pages are open in Chrome. Press Ctrl+C to close the browser.")
		}
		browser.Release(ctx, window, keepOpen)
	}
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}
	return nil
}

func confirm(r io.Reader, w io.Writer) bool {
	fmt.Fprint(w, "\nProceed? [y/N]: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
