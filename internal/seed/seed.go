package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/taallocation/internal/app/models"
	appRepos "github.com/yigit/taallocation/internal/app/repositories"
)

// CreateDefaultData creates a demo coordinator, professors, courses and
// students when the store holds no courses yet, and opens round 1 when no
// round was ever started. Everything is written in one unit of work.
func CreateDefaultData(ctx context.Context, store appRepos.Store, lgr zerolog.Logger) error {
	existing, err := store.ListCourses(ctx, appRepos.CourseFilter{})
	if err != nil {
		return fmt.Errorf("error checking existing courses: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("courses", len(existing)).Msg("Default data already present, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating default data (JM/Professors/Courses/Students)...")

	return store.WithinTx(ctx, func(ctx context.Context, tx appRepos.Tx) error {
		jm := &appModels.Coordinator{Name: "CSE Junior Manager", EmailID: "jm.cse@college.edu"}
		if err := tx.CreateCoordinator(ctx, jm); err != nil {
			return fmt.Errorf("error creating coordinator: %w", err)
		}

		// --- Professors --- //
		profs := []*appModels.Professor{
			{Name: "Dr. Meera Iyer", EmailID: "meera.iyer@college.edu"},
			{Name: "Dr. Rahul Sen", EmailID: "rahul.sen@college.edu"},
		}
		for _, p := range profs {
			if err := tx.CreateProfessor(ctx, p); err != nil {
				return fmt.Errorf("error creating professor %s: %w", p.EmailID, err)
			}
		}

		// --- Courses --- //
		courses := []*appModels.Course{
			{Name: "Introduction to Programming", Code: "CSE101", Acronym: "IP", Credits: 4,
				TotalStudents: 180, TAStudentRatio: 40, DepartmentID: &jm.ID, ProfessorID: &profs[0].ID},
			{Name: "Data Structures and Algorithms", Code: "CSE102", Acronym: "DSA", Credits: 4,
				TotalStudents: 60, TAStudentRatio: 30, DepartmentID: &jm.ID, ProfessorID: &profs[1].ID},
			{Name: "Operating Systems", Code: "CSE231", Acronym: "OS", Credits: 4,
				TotalStudents: 95, TAStudentRatio: 25, DepartmentID: &jm.ID, ProfessorID: &profs[0].ID},
		}
		for _, c := range courses {
			if err := tx.CreateCourse(ctx, c); err != nil {
				return fmt.Errorf("error creating course %s: %w", c.Code, err)
			}
		}

		// --- Students --- //
		students := []*appModels.Student{
			{Name: "Asha Verma", EmailID: "asha21@college.edu", RollNo: "MT21045", Program: "M.Tech", Department: "CSE", Year: 2, MandatoryTA: true},
			{Name: "Kabir Nair", EmailID: "kabir22@college.edu", RollNo: "MT22011", Program: "M.Tech", Department: "CSE", Year: 1, MandatoryTA: true},
			{Name: "Ishita Rao", EmailID: "ishita20@college.edu", RollNo: "PHD20003", Program: "PhD", Department: "CSE", Year: 4},
			{Name: "Dev Malhotra", EmailID: "dev21@college.edu", RollNo: "BT21150", Program: "B.Tech", Department: "CSE", Year: 4},
			{Name: "Nisha Paul", EmailID: "nisha22@college.edu", RollNo: "MT22078", Program: "M.Tech", Department: "ECE", Year: 1, MandatoryTA: true},
		}
		for _, s := range students {
			if err := tx.CreateStudent(ctx, s); err != nil {
				return fmt.Errorf("error creating student %s: %w", s.RollNo, err)
			}
		}

		// --- Round 1 --- //
		last, err := tx.MaxRoundNumber(ctx)
		if err != nil {
			return fmt.Errorf("error reading rounds: %w", err)
		}
		if last == 0 {
			if err := tx.InsertRound(ctx, &appModels.Round{CurrentRound: 1, Ongoing: true, StartDate: time.Now().UTC()}); err != nil {
				return fmt.Errorf("error opening first round: %w", err)
			}
		}

		lgr.Info().
			Int("professors", len(profs)).
			Int("courses", len(courses)).
			Int("students", len(students)).
			Msg("Default data created")
		return nil
	})
}
