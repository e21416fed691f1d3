package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"seguimientos/backend/internal/dto"
	pkgerrors "seguimientos/backend/pkg/errors"
)

var errPasswordMismatch = errors.New("passwords do not match")

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance commands for the seguimientos backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect()
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config.yaml (defaults to ./config or .)")

	root.AddCommand(
		newMigrateCmd(a),
		newCreateAdminCmd(a),
		newSetPasswordCmd(a),
		newSetCurrentYearCmd(a),
		newCloneYearCmd(a),
	)
	return root
}

// ── migrate ──

func newMigrateCmd(a *app) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			down := args[0] == "down"
			if down && steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			if err := a.migrate(down, steps); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "migrate %s: done\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}

// ── teachers ──

func newCreateAdminCmd(a *app) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := a.promptNewPassword()
			if err != nil {
				return err
			}
			req := &dto.CreateTeacherRequest{Email: email, Name: name, Password: pwd, IsAdmin: true}
			if err := validate(req); err != nil {
				return err
			}

			teacher, err := a.teachers.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created admin %s (id %d)\n", teacher.Email, teacher.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSetPasswordCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Reset a teacher's password; the new password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teacher, err := a.teachers.GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("%s: %w", email, err)
			}
			pwd, err := a.promptNewPassword()
			if err != nil {
				return err
			}
			if err := validate(&dto.SetPasswordRequest{Password: pwd}); err != nil {
				return err
			}
			if err := a.teachers.SetPassword(cmd.Context(), teacher.ID, pwd); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "password updated for %s\n", teacher.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// ── academic years ──

func newSetCurrentYearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-current-year YEAR",
		Short: "Flag YEAR (YYYY-YY) as the current academic year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.years.SetCurrent(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(a.out, "current academic year: %s\n", args[0])
			return nil
		},
	}
}

func newCloneYearCmd(a *app) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "clone-year SOURCE TARGET",
		Short: "Copy the structure of SOURCE into the new year TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.CloneYearRequest{TargetYear: args[1], Scope: scope}
			if err := validate(req); err != nil {
				return err
			}
			res, err := a.cloner.Clone(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "cloned %s into %s: %d cycles, %d groups, %d modules, %d work units, %d assignments\n",
				res.SourceYear, res.TargetYear, res.Cycles, res.Groups, res.Modules, res.WorkUnits, res.Assignments)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", dto.CloneScopeAssignments, "cycles, modules or assignments")
	return cmd
}

// ── helpers ──

func (a *app) promptNewPassword() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	pwd, err := a.readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}

	fmt.Fprint(a.out, "Repeat password: ")
	again, err := a.readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pwd, again) {
		return "", errPasswordMismatch
	}
	return string(pwd), nil
}

// validate runs the same binding rules the HTTP layer applies.
func validate(req interface{}) error {
	v := validator.New()
	v.SetTagName("binding")
	if err := dto.RegisterOn(v); err != nil {
		return err
	}
	if err := v.Struct(req); err != nil {
		return pkgerrors.FieldErrors(dto.ValidationMessages(err))
	}
	return nil
}
