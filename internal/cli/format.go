package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/session"
)

func printPrograms(w io.Writer, programs []models.Program) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tCOUNTRY\tTERM")
	for _, p := range programs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ProgramID, p.Name, p.City, p.Country, p.AcademicCalendar)
	}
	_ = tw.Flush()
}

func printProgram(w io.Writer, p *models.Program) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ProgramID)
	if p.City != "" || p.Country != "" {
		fmt.Fprintf(w, "  Location: %s\n", strings.Trim(p.City+", "+p.Country, ", "))
	}
	fmt.Fprintf(w, "  Coordinates: %.4f, %.4f\n", p.Latitude, p.Longitude)
	if p.ProgramType != "" {
		fmt.Fprintf(w, "  Type: %s\n", p.ProgramType)
	}
	if p.AcademicCalendar != "" {
		fmt.Fprintf(w, "  Calendar: %s\n", p.AcademicCalendar)
	}
	if p.MinimumGPA > 0 {
		fmt.Fprintf(w, "  Minimum GPA: %.2f\n", p.MinimumGPA)
	}
	if p.LanguagePrerequisite != "" {
		fmt.Fprintf(w, "  Language: %s\n", p.LanguagePrerequisite)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
}

func printSession(w io.Writer, s session.Session) {
	switch s.Kind {
	case session.KindStudent:
		u := s.Student()
		fmt.Fprintf(w, "Signed in as student %s <%s>\n", u.Username, u.Email)
		if p := s.Identity.Profile; p != nil && (p.Year != "" || p.Major != "") {
			fmt.Fprintf(w, "  %s %s %s\n", p.Year, p.Major, p.StudyAbroadTerm)
		}
	case session.KindAlumni:
		a := s.Alumni()
		fmt.Fprintf(w, "Signed in as alumni %s %s <%s>\n", a.FirstName, a.LastName, a.Email)
		if a.Program != nil {
			fmt.Fprintf(w, "  Program: %s\n", a.Program.Name)
		}
	case session.KindResolving:
		fmt.Fprintln(w, "Resolving session...")
	default:
		fmt.Fprintln(w, "Not signed in")
	}
}

func printFavorites(w io.Writer, favs []models.Favorite) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED")
	for _, f := range favs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Program.ProgramID, f.Program.Name, f.CreatedAt)
	}
	_ = tw.Flush()
}

func printAlumni(w io.Writer, alumni []models.Alumni) {
	if len(alumni) == 0 {
		fmt.Fprintln(w, "No alumni for this program yet")
		return
	}
	for _, a := range alumni {
		fmt.Fprintf(w, "- %s %s <%s>", a.FirstName, a.LastName, a.Email)
		if a.GraduationYear != 0 {
			fmt.Fprintf(w, " class of %d", a.GraduationYear)
		}
		fmt.Fprintln(w)
		if a.Bio != "" {
			fmt.Fprintf(w, "  %s\n", a.Bio)
		}
	}
}

func printReviews(w io.Writer, reviews []models.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet")
		return
	}
	for _, r := range reviews {
		fmt.Fprintf(w, "[%s] %s %s by %s\n", r.ID, strings.Repeat("*", r.Rating), r.CreatedAt, r.Author)
		fmt.Fprintf(w, "  %s\n", r.Content)
	}
}
