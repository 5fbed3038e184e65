package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pterm/pterm"

	"loxo-bridge/pkg/client"
)

const bannerText = `
    _       _          _   _
   (_) ___ | |__   ___| |_| |
   | |/ _ \| '_ \ / __| __| |
   | | (_) | |_) | (__| |_| |
  _/ |\___/|_.__/ \___|\__|_|
 |__/
`

func printBanner(silence bool) {
	if !silence {
		pterm.DefaultBasicText.Println(pterm.LightCyan(bannerText))
	}
}

func main() {
	apiBase := flag.String("api", "http://localhost:8080", "Base URL of the job board proxy")
	list := flag.Bool("list", false, "List published jobs")
	jobID := flag.String("job", "", "Show a single job by id")
	apply := flag.Bool("apply", false, "Submit an application (requires -job and applicant flags)")
	name := flag.String("name", "", "Applicant name")
	email := flag.String("email", "", "Applicant email")
	phone := flag.String("phone", "", "Applicant phone")
	linkedin := flag.String("linkedin", "", "Applicant LinkedIn URL")
	resumePath := flag.String("resume", "", "Path to the resume file (PDF, DOC or DOCX)")
	table := flag.Bool("table", false, "Show the job list in table format")
	silence := flag.Bool("silence", false, "Silence the banner")

	flag.Parse()

	printBanner(*silence)

	c := client.New(*apiBase)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch {
	case *apply:
		if *jobID == "" {
			log.Fatal("-apply requires -job")
		}
		runApply(ctx, c, client.Fields{
			JobID:       *jobID,
			Name:        *name,
			Email:       *email,
			Phone:       *phone,
			LinkedinURL: *linkedin,
		}, *resumePath)
	case *jobID != "":
		runDetail(ctx, c, *jobID)
	case *list:
		runList(ctx, c, *table)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runList(ctx context.Context, c *client.Client, asTable bool) {
	spinner, _ := pterm.DefaultSpinner.Start("Fetching job listings...")
	jobs, err := c.ListJobs(ctx)
	if err != nil {
		spinner.Fail("Unable to load job listings")
		log.Fatalf("list jobs: %v", err)
	}
	spinner.Success(fmt.Sprintf("Fetched %d jobs", len(jobs)))

	if asTable {
		data := pterm.TableData{{"ID", "Title", "Company", "Location", "Published"}}
		for _, job := range jobs {
			published := ""
			if !job.PublishedAt.IsZero() {
				published = job.PublishedAt.Format("Jan 2, 2006")
			}
			data = append(data, []string{job.ID, job.Title, job.Company, job.Location, published})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}

	for _, job := range jobs {
		pterm.DefaultBasicText.Printf("%s  %s\n", pterm.LightGreen(job.ID), pterm.Bold.Sprint(job.Title))
		pterm.DefaultBasicText.Printf("      %s · %s\n", job.Company, job.Location)
	}
}

func runDetail(ctx context.Context, c *client.Client, jobID string) {
	job, err := c.GetJob(ctx, jobID)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			pterm.Warning.Println("The job you're looking for doesn't exist or has been removed.")
			os.Exit(1)
		}
		log.Fatalf("get job: %v", err)
	}

	pterm.DefaultSection.Println(job.Title)
	rows := pterm.TableData{
		{"ID", job.ID},
		{"Location", locationLine(job.City, job.StateCode)},
		{"Category", job.Category},
		{"Type", job.JobType},
		{"Salary", job.Salary},
	}
	pterm.DefaultTable.WithData(rows).Render()

	if job.DescriptionText != "" {
		pterm.DefaultBasicText.Println("\n" + job.DescriptionText)
	}
}

func runApply(ctx context.Context, c *client.Client, fields client.Fields, resumePath string) {
	if resumePath == "" {
		log.Fatal("-apply requires -resume")
	}

	form := c.NewSubmissionForm(&client.FileSource{Path: resumePath})

	// Bounded wait for the resume file to exist
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := form.AwaitResumeSource(waitCtx, 250*time.Millisecond); err != nil {
		log.Fatalf("resume not available: %v", err)
	}

	if err := form.Bind(fields); err != nil {
		log.Fatalf("bind form: %v", err)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Submitting your application...")
	receipt, err := form.Submit(ctx)
	if err != nil {
		spinner.Fail("Application failed")
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			log.Fatalf("server rejected the application: %s", apiErr.Message)
		}
		log.Fatalf("submit application: %v", err)
	}
	spinner.Success("Your application was successfully sent!")

	if receipt.RequestID != "" {
		pterm.DefaultBasicText.Printf("Reference: %s\n", receipt.RequestID)
	}

	form.Reset()
}

func locationLine(city, stateCode string) string {
	if city == "" {
		return ""
	}
	if stateCode == "" {
		return city
	}
	return city + ", " + stateCode
}
