package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the catalog reference data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	count, err := s.repo.CountInterviewers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seeding state: %w", err)
	}
	if count > 0 {
		slog.Info("Database seeding already completed, skipping")
		return nil
	}

	interviewers := []models.Interviewer{
		{
			Name:        "Sarah Chen",
			Description: "Technical recruiter specializing in software engineering roles. Warm but thorough.",
			Specialties: []string{"system design", "coding", "career growth"},
			Rapport:     80, Exploration: 60, Empathy: 75, Speed: 50,
			AgentKey: "agent_sarah_chen",
			IsActive: true,
		},
		{
			Name:        "Marcus Johnson",
			Description: "Senior product manager who probes for strategic thinking and user focus.",
			Specialties: []string{"product sense", "prioritization", "stakeholders"},
			Rapport:     65, Exploration: 85, Empathy: 60, Speed: 55,
			AgentKey: "agent_marcus_johnson",
			IsActive: true,
		},
		{
			Name:        "Dr. Emily Rodriguez",
			Description: "Lead data scientist. Direct and analytical, expects precise answers.",
			Specialties: []string{"machine learning", "statistics", "experimentation"},
			Rapport:     45, Exploration: 90, Empathy: 40, Speed: 70,
			AgentKey: "agent_emily_rodriguez",
			IsActive: true,
		},
		{
			Name:        "Lisa Wang",
			Description: "Backend engineer focused on distributed systems and scalability trade-offs.",
			Specialties: []string{"distributed systems", "databases", "apis"},
			Rapport:     55, Exploration: 75, Empathy: 55, Speed: 65,
			AgentKey: "agent_lisa_wang",
			IsActive: true,
		},
		{
			Name:        "David Kim",
			Description: "Engineering manager who emphasizes collaboration and ownership stories.",
			Specialties: []string{"behavioral", "leadership", "conflict resolution"},
			Rapport:     85, Exploration: 55, Empathy: 90, Speed: 40,
			AgentKey: "agent_david_kim",
			IsActive: true,
		},
	}

	for _, interviewer := range interviewers {
		i := interviewer
		if err := s.repo.CreateInterviewer(ctx, &i); err != nil {
			slog.Error("Failed to seed interviewer", "name", interviewer.Name, "error", err)
		}
	}

	popular := []models.PopularInterview{
		{Category: "Algorithms", Title: "Arrays and Strings Deep Dive", IsActive: true},
		{Category: "Algorithms", Title: "Graphs and Dynamic Programming", IsActive: true},
		{Category: "System Design", Title: "Design a URL Shortener", IsActive: true},
		{Category: "System Design", Title: "Design a News Feed", IsActive: true},
		{Category: "Databases", Title: "SQL and Schema Design Essentials", IsActive: true},
		{Category: "Frontend", Title: "React Patterns and Performance", IsActive: true},
	}

	for _, interview := range popular {
		p := interview
		if err := s.repo.CreatePopularInterview(ctx, &p); err != nil {
			slog.Error("Failed to seed popular interview", "title", interview.Title, "error", err)
		}
	}

	behavioral := []models.BehavioralInterview{
		{Category: "Leadership", Title: "Leading Without Authority", IsActive: true},
		{Category: "Teamwork", Title: "Resolving a Team Conflict", IsActive: true},
		{Category: "Ownership", Title: "A Project You Drove End to End", IsActive: true},
		{Category: "Failure", Title: "A Mistake and What You Learned", IsActive: true},
	}

	for _, interview := range behavioral {
		b := interview
		if err := s.repo.CreateBehavioralInterview(ctx, &b); err != nil {
			slog.Error("Failed to seed behavioral interview", "title", interview.Title, "error", err)
		}
	}

	questions := []models.Question{
		{JobRole: models.JobRoleFrontend, Text: "How does the browser render a page from HTML to pixels?"},
		{JobRole: models.JobRoleFrontend, Text: "When would you reach for server-side rendering over a SPA?"},
		{JobRole: models.JobRoleBackend, Text: "Walk through what happens when two transactions update the same row."},
		{JobRole: models.JobRoleBackend, Text: "How would you design idempotent retry handling for a payment API?"},
		{JobRole: models.JobRoleFullstack, Text: "Describe how you would paginate a large list end to end."},
		{JobRole: models.JobRoleData, Text: "How do you detect and handle data drift in a production model?"},
		{JobRole: models.JobRoleDevOps, Text: "Explain blue-green versus canary deployments and when to use each."},
		{JobRole: models.JobRoleMobile, Text: "How do you keep a mobile app responsive while syncing large payloads?"},
		{JobRole: models.JobRoleProduct, Text: "How would you decide what to cut when a launch is slipping?"},
		{JobRole: models.JobRoleQA, Text: "How do you prioritize test coverage for a feature with no specs?"},
	}

	for _, question := range questions {
		q := question
		if err := s.repo.CreateQuestion(ctx, &q); err != nil {
			slog.Error("Failed to seed question", "job_role", question.JobRole, "error", err)
		}
	}

	slog.Info("Database seeding completed successfully")
	return nil
}
