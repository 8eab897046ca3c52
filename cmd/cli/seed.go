package main

import (
	"context"
	"fmt"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
)

// runSeed loads the demo data set: one tenant, one recruiter, three jobs,
// five candidates and a spread of applications across the pipeline.
func runSeed() {
	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "Acme Corporation", OrgID: "org_seed_acme"}
	if err := store.Tenants().Create(ctx, tenant); err != nil {
		fatal(fmt.Errorf("create tenant: %w", err))
	}
	fmt.Printf("created tenant %s (%s)\n", tenant.Name, tenant.ID)

	recruiter := &domain.User{
		TenantID:       tenant.ID,
		ExternalUserID: "seed_user_001",
		Email:          "recruiter@acme.com",
		Name:           "Jane Recruiter",
	}
	if err := store.Users().Create(ctx, recruiter); err != nil {
		fatal(fmt.Errorf("create recruiter: %w", err))
	}

	jobSpecs := []struct {
		title, description string
	}{
		{"Senior Frontend Engineer", "Looking for an experienced React developer with TypeScript expertise."},
		{"Backend Developer (Node.js)", "Build scalable APIs and services using Node.js and PostgreSQL."},
		{"Full Stack Engineer", "Work across the entire stack - React frontend and Node.js backend."},
	}
	jobs := make([]*domain.Job, 0, len(jobSpecs))
	for _, spec := range jobSpecs {
		job := &domain.Job{
			TenantID:    tenant.ID,
			Title:       spec.title,
			Description: spec.description,
			CreatedByID: recruiter.ID,
		}
		if err := store.Jobs().Create(ctx, job); err != nil {
			fatal(fmt.Errorf("create job: %w", err))
		}
		jobs = append(jobs, job)
	}
	fmt.Printf("created %d jobs\n", len(jobs))

	candidateSpecs := []struct {
		fullName, email, phone string
	}{
		{"Alice Johnson", "alice@example.com", "+1-555-0101"},
		{"Bob Smith", "bob@example.com", "+1-555-0102"},
		{"Carol Davis", "carol@example.com", "+1-555-0103"},
		{"David Wilson", "david@example.com", "+1-555-0104"},
		{"Eve Brown", "eve@example.com", "+1-555-0105"},
	}
	stages := []domain.Stage{
		domain.StageNew, domain.StageScreened, domain.StageShortlisted,
		domain.StageScheduled, domain.StageInterviewed,
	}

	for i, spec := range candidateSpecs {
		email, phone := spec.email, spec.phone
		candidate := &domain.Candidate{
			TenantID: tenant.ID,
			FullName: spec.fullName,
			Email:    &email,
			Phone:    &phone,
		}
		if err := store.Candidates().Create(ctx, candidate); err != nil {
			fatal(fmt.Errorf("create candidate: %w", err))
		}

		stage := stages[i]
		score := 0
		if stage != domain.StageNew {
			score = 60 + i*8
		}
		app := &domain.Application{
			TenantID:    tenant.ID,
			JobID:       jobs[i%len(jobs)].ID,
			CandidateID: candidate.ID,
			Stage:       stage,
			Score:       score,
		}
		if err := store.Applications().Create(ctx, app); err != nil {
			fatal(fmt.Errorf("create application: %w", err))
		}
		fmt.Printf("created application: %s -> %s (%s)\n", spec.fullName, jobs[i%len(jobs)].Title, stage)

		if stage != domain.StageNew {
			answers := []*domain.Answer{
				{
					ApplicationID: app.ID,
					QuestionKey:   "yearsExperience",
					AnswerText:    fmt.Sprintf("%d", 2+i),
				},
				{
					ApplicationID: app.ID,
					QuestionKey:   "systemDesign",
					AnswerText:    "Designed a microservices platform with API gateway routing, a distributed cache and a message queue for async processing.",
				},
			}
			if err := store.Applications().CreateAnswers(ctx, answers); err != nil {
				fatal(fmt.Errorf("create answers: %w", err))
			}
		}

		if stage == domain.StageScheduled {
			now := time.Now()
			slots := []*domain.InterviewSlot{
				{
					TenantID:      tenant.ID,
					ApplicationID: app.ID,
					StartsAt:      now.Add(24 * time.Hour),
					EndsAt:        now.Add(25 * time.Hour),
					Status:        domain.SlotFree,
				},
				{
					TenantID:      tenant.ID,
					ApplicationID: app.ID,
					StartsAt:      now.Add(48 * time.Hour),
					EndsAt:        now.Add(49 * time.Hour),
					Status:        domain.SlotBooked,
				},
			}
			for _, slot := range slots {
				if err := store.InterviewSlots().Create(ctx, slot); err != nil {
					fatal(fmt.Errorf("create slot: %w", err))
				}
			}
			fmt.Println("created 2 interview slots")
		}
	}

	fmt.Println("seeding completed")
}
