package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-matcher/internal/config"
	"github.com/jonathan/career-matcher/internal/db"
	"github.com/jonathan/career-matcher/internal/matching"
	"github.com/jonathan/career-matcher/internal/schemas"
)

var (
	seedDataFile string
	seedWipe     bool
)

// SeedPassword is the login password for every seeded account.
const SeedPassword = "Passw0rd!demo"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into the database",
	Long:  `Validate a seed JSON file against its schema and load subjects, students with grades, companies with jobs, and applications. Every seeded account logs in with the same demo password.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedDataFile, "file", "f", "schemas/seed.json", "Path to seed data JSON file")
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "Truncate all tables before seeding")
	rootCmd.AddCommand(seedCmd)
}

// Seed file shapes. Cross-references use natural keys (subject code, student
// email, job title) so the file stays hand-editable.
type seedSubject struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Course      string `json:"course"`
	Semester    int    `json:"semester"`
	Credits     int    `json:"credits"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type seedGrade struct {
	SubjectCode string  `json:"subject_code"`
	Grade       float64 `json:"grade"`
	TermLabel   string  `json:"term_label"`
}

type seedStudent struct {
	Email              string      `json:"email"`
	FullName           string      `json:"full_name"`
	RegistrationNumber string      `json:"registration_number"`
	Course             string      `json:"course"`
	Semester           int         `json:"semester"`
	Phone              string      `json:"phone,omitempty"`
	GithubURL          string      `json:"github_url,omitempty"`
	Bio                string      `json:"bio,omitempty"`
	Skills             string      `json:"skills,omitempty"`
	Grades             []seedGrade `json:"grades"`
}

type seedRequirement struct {
	SubjectCode  string  `json:"subject_code"`
	MinimumGrade float64 `json:"minimum_grade"`
	Weight       float64 `json:"weight"`
	IsMandatory  bool    `json:"is_mandatory"`
}

type seedJob struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Location         string            `json:"location"`
	WorkType         string            `json:"work_type"`
	JobType          string            `json:"job_type"`
	SalaryRange      string            `json:"salary_range,omitempty"`
	MinimumGPA       float64           `json:"minimum_gpa,omitempty"`
	MinimumSemester  *int              `json:"minimum_semester,omitempty"`
	PreferredCourses []string          `json:"preferred_courses,omitempty"`
	Vacancies        int               `json:"vacancies,omitempty"`
	Requirements     []seedRequirement `json:"requirements,omitempty"`
}

type seedCompany struct {
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	CNPJ        string    `json:"cnpj"`
	Industry    string    `json:"industry,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Website     string    `json:"website,omitempty"`
	Jobs        []seedJob `json:"jobs"`
}

type seedApplication struct {
	StudentEmail string `json:"student_email"`
	JobTitle     string `json:"job_title"`
	CoverLetter  string `json:"cover_letter,omitempty"`
}

type seedFile struct {
	Subjects     []seedSubject     `json:"subjects"`
	Students     []seedStudent     `json:"students"`
	Companies    []seedCompany     `json:"companies"`
	Applications []seedApplication `json:"applications"`
}

func runSeed(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	schemaPath := schemas.ResolveSchemaPath("schemas/seed.schema.json")
	if schemaPath == "" {
		return fmt.Errorf("seed schema not found: schemas/seed.schema.json")
	}
	if err := schemas.ValidateJSON(schemaPath, seedDataFile); err != nil {
		return fmt.Errorf("seed file is invalid: %w", err)
	}

	raw, err := os.ReadFile(seedDataFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if _, err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if seedWipe {
		if err := database.Truncate(ctx); err != nil {
			return fmt.Errorf("failed to wipe database: %w", err)
		}
		fmt.Println("Wiped existing data")
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password configuration: %w", err)
	}
	passwordHash, err := passwordConfig.HashPassword(SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	// Phase 1: subjects, shared by both sides of phase 2.
	created, skipped, err := database.CreateSubjects(ctx, subjectsFromSeed(seed.Subjects))
	if err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}
	subjectIDs, err := subjectCodeIndex(ctx, database)
	if err != nil {
		return err
	}
	fmt.Printf("Subjects: %d created, %d already present\n", created, len(skipped))

	// Phase 2: students with grades and companies with jobs, concurrently.
	studentIDs := make(map[string]uuid.UUID, len(seed.Students))
	jobIDs := make(map[string]uuid.UUID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seedStudents(gctx, database, seed.Students, passwordHash, subjectIDs, studentIDs)
	})
	g.Go(func() error {
		return seedCompanies(gctx, database, seed.Companies, passwordHash, subjectIDs, jobIDs)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Students: %d with grades\n", len(studentIDs))
	fmt.Printf("Companies: %d with %d jobs\n", len(seed.Companies), len(jobIDs))

	// Phase 3: applications, scored with the same engine the API uses.
	applied, err := seedApplications(ctx, database, seed.Applications, studentIDs, jobIDs)
	if err != nil {
		return err
	}
	fmt.Printf("Applications: %d\n", applied)
	fmt.Printf("All seeded accounts log in with password %q\n", SeedPassword)

	return nil
}

func subjectsFromSeed(in []seedSubject) []db.Subject {
	subjects := make([]db.Subject, 0, len(in))
	for _, s := range in {
		subjects = append(subjects, db.Subject{
			Code:        s.Code,
			Name:        s.Name,
			Course:      s.Course,
			Semester:    s.Semester,
			Credits:     s.Credits,
			Category:    s.Category,
			Description: nilIfEmpty(s.Description),
		})
	}
	return subjects
}

// subjectCodeIndex maps subject codes to IDs for resolving seed references.
func subjectCodeIndex(ctx context.Context, database *db.DB) (map[string]uuid.UUID, error) {
	subjects, err := database.ListSubjects(ctx, db.SubjectFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to index subjects: %w", err)
	}
	index := make(map[string]uuid.UUID, len(subjects))
	for _, s := range subjects {
		index[s.Code] = s.ID
	}
	return index, nil
}

func seedStudents(ctx context.Context, database *db.DB, students []seedStudent, passwordHash string,
	subjectIDs map[string]uuid.UUID, studentIDs map[string]uuid.UUID) error {
	for _, s := range students {
		accountID, err := database.CreateAccount(ctx, s.Email, passwordHash, db.RoleStudent)
		if err != nil {
			return fmt.Errorf("failed to create account for %s: %w", s.Email, err)
		}
		student, err := database.CreateStudent(ctx, &db.Student{
			AccountID:          accountID,
			FullName:           s.FullName,
			RegistrationNumber: s.RegistrationNumber,
			Course:             s.Course,
			Semester:           s.Semester,
			Phone:              nilIfEmpty(s.Phone),
			GithubURL:          nilIfEmpty(s.GithubURL),
			Bio:                nilIfEmpty(s.Bio),
			Skills:             nilIfEmpty(s.Skills),
		})
		if err != nil {
			return fmt.Errorf("failed to create student %s: %w", s.Email, err)
		}
		for _, grade := range s.Grades {
			subjectID, ok := subjectIDs[grade.SubjectCode]
			if !ok {
				return fmt.Errorf("student %s references unknown subject %q", s.Email, grade.SubjectCode)
			}
			if _, err := database.UpsertGrade(ctx, student.ID, subjectID, grade.Grade, grade.TermLabel); err != nil {
				return fmt.Errorf("failed to record grade for %s in %s: %w", s.Email, grade.SubjectCode, err)
			}
		}
		studentIDs[s.Email] = student.ID
	}
	return nil
}

func seedCompanies(ctx context.Context, database *db.DB, companies []seedCompany, passwordHash string,
	subjectIDs map[string]uuid.UUID, jobIDs map[string]uuid.UUID) error {
	for _, c := range companies {
		accountID, err := database.CreateAccount(ctx, c.Email, passwordHash, db.RoleCompany)
		if err != nil {
			return fmt.Errorf("failed to create account for %s: %w", c.Email, err)
		}
		company, err := database.CreateCompany(ctx, &db.Company{
			AccountID:   accountID,
			CompanyName: c.CompanyName,
			CNPJ:        c.CNPJ,
			Industry:    nilIfEmpty(c.Industry),
			City:        nilIfEmpty(c.City),
			State:       nilIfEmpty(c.State),
			Website:     nilIfEmpty(c.Website),
		})
		if err != nil {
			return fmt.Errorf("failed to create company %s: %w", c.CompanyName, err)
		}
		for _, j := range c.Jobs {
			job, err := database.CreateJob(ctx, &db.Job{
				CompanyID:        company.ID,
				Title:            j.Title,
				Description:      j.Description,
				Location:         j.Location,
				WorkType:         j.WorkType,
				JobType:          j.JobType,
				SalaryRange:      nilIfEmpty(j.SalaryRange),
				MinimumGPA:       j.MinimumGPA,
				MinimumSemester:  j.MinimumSemester,
				PreferredCourses: j.PreferredCourses,
				Vacancies:        j.Vacancies,
			})
			if err != nil {
				return fmt.Errorf("failed to create job %q: %w", j.Title, err)
			}
			if len(j.Requirements) > 0 {
				requirements := make([]db.JobRequirement, 0, len(j.Requirements))
				for _, req := range j.Requirements {
					subjectID, ok := subjectIDs[req.SubjectCode]
					if !ok {
						return fmt.Errorf("job %q references unknown subject %q", j.Title, req.SubjectCode)
					}
					requirements = append(requirements, db.JobRequirement{
						SubjectID:    subjectID,
						MinimumGrade: req.MinimumGrade,
						Weight:       req.Weight,
						IsMandatory:  req.IsMandatory,
					})
				}
				if _, err := database.ReplaceJobRequirements(ctx, job.ID, requirements); err != nil {
					return fmt.Errorf("failed to set requirements for %q: %w", j.Title, err)
				}
			}
			jobIDs[j.Title] = job.ID
		}
	}
	return nil
}

func seedApplications(ctx context.Context, database *db.DB, applications []seedApplication,
	studentIDs, jobIDs map[string]uuid.UUID) (int, error) {
	engine := matching.NewEngine(database, nil, nil)
	applied := 0
	for _, a := range applications {
		studentID, ok := studentIDs[a.StudentEmail]
		if !ok {
			return applied, fmt.Errorf("application references unknown student %q", a.StudentEmail)
		}
		jobID, ok := jobIDs[a.JobTitle]
		if !ok {
			return applied, fmt.Errorf("application references unknown job %q", a.JobTitle)
		}

		var matchScore *float64
		breakdown, err := engine.Score(ctx, studentID, jobID, matching.ScoreOptions{})
		if err == nil && breakdown.Err == "" {
			matchScore = &breakdown.FinalScore
		}

		if _, err := database.CreateApplication(ctx, studentID, jobID, matchScore, nilIfEmpty(a.CoverLetter)); err != nil {
			return applied, fmt.Errorf("failed to create application for %s to %q: %w", a.StudentEmail, a.JobTitle, err)
		}
		applied++
	}
	return applied, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
