package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/session"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  whoami                                       show the current session
  programs [country]                           list programs
  program <id>                                 show one program
  login student <username> <password>
  login alumni <email> <password>
  signup student <username> <email> <password>
  signup alumni <email> <password> <program-id> [graduation-year]
  logout
  profile                                      show your profile
  profile set <year|major|study_abroad_term> <value> [--form]
  favorites                                    list your favorites
  favorite add|rm|check <program-id>
  alumni <program-id>                          list alumni of a program
  reviews <program-id>
  review add <program-id> <rating 1-5> <text...>
  review rm <program-id> <review-id>
  help
  quit`

var errQuit = errors.New("quit")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session against the backend",
	Long: `Start an interactive shell that keeps one backend session for its lifetime.
Type "help" inside the shell for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := app.Start(cmd.Context())
		return NewShell(app, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// Shell executes line-oriented commands against one App
type Shell struct {
	app *App
	out io.Writer
}

// NewShell creates a shell writing to out
func NewShell(app *App, out io.Writer) *Shell {
	return &Shell{app: app, out: out}
}

// Run reads commands from in until EOF or quit. Command errors are printed and
// do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	unsubscribe := s.app.Session.Subscribe(func(sess session.Session) {
		if sess.Kind == session.KindAnonymous {
			fmt.Fprintln(s.out, "(signed out)")
		}
	})
	defer unsubscribe()

	printSession(s.out, s.app.Session.Current())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		err := s.Exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs a single command line
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "whoami":
		printSession(s.out, s.app.Session.Current())
		return nil
	case "programs":
		return s.programs(ctx, args[1:])
	case "program":
		return s.program(ctx, args[1:])
	case "login":
		return s.login(ctx, args[1:])
	case "signup":
		return s.signup(ctx, args[1:])
	case "logout":
		s.app.Session.Logout(ctx)
		return nil
	case "profile":
		return s.profile(ctx, args[1:])
	case "favorites":
		favs, err := s.app.Client.ListFavorites(ctx)
		if err != nil {
			return err
		}
		printFavorites(s.out, favs)
		return nil
	case "favorite":
		return s.favorite(ctx, args[1:])
	case "alumni":
		if len(args) != 2 {
			return usage("alumni <program-id>")
		}
		alumni, err := s.app.Client.ListAlumniByProgram(ctx, args[1])
		if err != nil {
			return err
		}
		printAlumni(s.out, alumni)
		return nil
	case "reviews":
		if len(args) != 2 {
			return usage("reviews <program-id>")
		}
		reviews, err := s.app.Client.ListReviews(ctx, args[1])
		if err != nil {
			return err
		}
		printReviews(s.out, reviews)
		return nil
	case "review":
		return s.review(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q, type help", args[0])
	}
}

func (s *Shell) programs(ctx context.Context, args []string) error {
	programs, err := s.app.Programs.Get(ctx)
	if err != nil {
		return err
	}
	printPrograms(s.out, filterByCountry(programs, strings.Join(args, " ")))
	return nil
}

func (s *Shell) program(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("program <id>")
	}
	program, err := s.app.Programs.Find(ctx, args[0])
	if err != nil {
		return err
	}
	printProgram(s.out, program)
	return nil
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("login student|alumni <username-or-email> <password>")
	}

	role := models.Role(args[0])
	creds := session.Credentials{Password: args[2]}
	if role == models.RoleAlumni {
		creds.Email = args[1]
	} else {
		creds.Username = args[1]
	}

	sess, err := s.app.Session.Login(ctx, role, creds)
	if err != nil {
		return err
	}
	printSession(s.out, sess)
	return nil
}

func (s *Shell) signup(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("signup student|alumni ...")
	}

	var payload session.SignupPayload
	role := models.Role(args[0])

	switch role {
	case models.RoleStudent:
		if len(args) != 4 {
			return usage("signup student <username> <email> <password>")
		}
		payload.Student = models.SignupRequest{
			Username:        args[1],
			Email:           args[2],
			Password:        args[3],
			PasswordConfirm: args[3],
		}
	case models.RoleAlumni:
		if len(args) != 4 && len(args) != 5 {
			return usage("signup alumni <email> <password> <program-id> [graduation-year]")
		}
		payload.Alumni = models.AlumniSignupRequest{
			Email:           args[1],
			Password:        args[2],
			PasswordConfirm: args[2],
			ProgramID:       args[3],
		}
		if len(args) == 5 {
			year, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("graduation year must be a number")
			}
			payload.Alumni.GraduationYear = year
		}
	default:
		return usage("signup student|alumni ...")
	}

	sess, err := s.app.Session.Signup(ctx, role, payload)
	if err != nil {
		return err
	}
	printSession(s.out, sess)
	return nil
}

func (s *Shell) profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		resp, err := s.app.Client.GetProfile(ctx)
		if err != nil {
			return err
		}
		printSession(s.out, session.FromIdentity(resp.Identity()))
		return nil
	}

	if args[0] != "set" || len(args) < 3 {
		return usage("profile set <year|major|study_abroad_term> <value> [--form]")
	}

	asForm := false
	values := args[2:]
	if values[len(values)-1] == "--form" {
		asForm = true
		values = values[:len(values)-1]
	}
	value := strings.Join(values, " ")

	var update models.ProfileUpdate
	switch args[1] {
	case "year":
		update.Year = &value
	case "major":
		update.Major = &value
	case "study_abroad_term":
		update.StudyAbroadTerm = &value
	default:
		return fmt.Errorf("unknown profile field %q", args[1])
	}

	if _, err := s.app.Client.UpdateProfile(ctx, update, asForm); err != nil {
		return err
	}
	// The session snapshot carries the profile, so refresh it from the backend
	printSession(s.out, s.app.Session.Resolve(ctx))
	return nil
}

func (s *Shell) favorite(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("favorite add|rm|check <program-id>")
	}

	switch args[0] {
	case "add":
		fav, err := s.app.Client.AddFavorite(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved %s\n", fav.Program.Name)
	case "rm":
		if err := s.app.Client.RemoveFavorite(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Removed %s\n", args[1])
	case "check":
		ok, err := s.app.Client.CheckFavorite(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "favorite: %t\n", ok)
	default:
		return usage("favorite add|rm|check <program-id>")
	}
	return nil
}

func (s *Shell) review(ctx context.Context, args []string) error {
	if len(args) >= 4 && args[0] == "add" {
		rating, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("rating must be a number from 1 to 5")
		}
		review, err := s.app.Client.AddReview(ctx, args[1], models.AddReviewRequest{
			Rating:  rating,
			Content: strings.Join(args[3:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Posted review %s\n", review.ID)
		return nil
	}

	if len(args) == 3 && args[0] == "rm" {
		if err := s.app.Client.DeleteReview(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Deleted review %s\n", args[2])
		return nil
	}

	return usage("review add <program-id> <rating> <text...> | review rm <program-id> <review-id>")
}

func usage(text string) error {
	return &apiclient.Error{Kind: apiclient.KindRequest, Message: "usage: " + text}
}
