package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
	"github.com/mkunit/mkunit/internal/validate"
)

var (
	restartPolicies = []string{"no", "on-failure", "always", "on-success"}
	serviceTypes    = []string{"simple", "exec", "forking", "oneshot", "notify"}
)

// ServiceOptions holds service command options.
type ServiceOptions struct {
	CreateOptions
	Exec        string
	Description string
	WorkDir     string
	User        string
	Group       string
	Restart     string
	RestartSec  uint32
	Type        string
	Env         []string
	EnvFile     string
	After       string
	Wants       string
	Requires    string
	WantedBy    string
	Hardening   bool
}

// ServiceDeps holds service dependencies.
type ServiceDeps struct {
	CommonDeps
}

// ServiceCommand represents the service creation command.
type ServiceCommand struct{}

// NewServiceCommand creates a new ServiceCommand.
func NewServiceCommand() *ServiceCommand {
	return &ServiceCommand{}
}

// GetCobraCommand returns the cobra command for creating service units.
func (c *ServiceCommand) GetCobraCommand() *cobra.Command {
	var opts ServiceOptions

	serviceCmd := &cobra.Command{
		Use:   "service NAME",
		Short: "Create a service unit",
		Long: `Create a service unit that runs a command.

The command is prompted for when --exec is not given. Relative or missing
executables and scripts without a shebang produce warnings but do not stop
the unit from being written.`,
		Example: `  mkunit service web --exec "/usr/bin/python3 -m http.server 8080"
  mkunit service backup -e /usr/local/bin/backup.sh --type oneshot --install`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			if err := checkName(args[0]); err != nil {
				return err
			}
			if err := checkEnum("restart", opts.Restart, restartPolicies); err != nil {
				return err
			}
			return checkEnum("type", opts.Type, serviceTypes)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := serviceCmd.Flags()
	f.StringVarP(&opts.Exec, "exec", "e", "", "Command to run (ExecStart)")
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringVarP(&opts.WorkDir, "workdir", "w", "", "Working directory")
	f.StringVarP(&opts.User, "user", "u", "", "User to run as")
	f.StringVarP(&opts.Group, "group", "g", "", "Group to run as")
	f.StringVarP(&opts.Restart, "restart", "r", "on-failure", "Restart policy (no, on-failure, always, on-success)")
	f.Uint32Var(&opts.RestartSec, "restart-sec", 5, "Seconds between restarts")
	f.StringVarP(&opts.Type, "type", "t", "simple", "Service type (simple, exec, forking, oneshot, notify)")
	f.StringArrayVar(&opts.Env, "env", nil, "Environment variable KEY=VALUE (repeatable)")
	f.StringVar(&opts.EnvFile, "env-file", "", "Environment file")
	f.StringVar(&opts.After, "after", "network.target", "Start after these units")
	f.StringVar(&opts.Wants, "wants", "", "Weak dependencies")
	f.StringVar(&opts.Requires, "requires", "", "Strong dependencies")
	f.StringVar(&opts.WantedBy, "wanted-by", "default.target", "Install target")
	f.BoolVar(&opts.Hardening, "hardening", false, "Add common security hardening directives")
	addCreateFlags(serviceCmd, &opts.CreateOptions, true)

	_ = serviceCmd.RegisterFlagCompletionFunc("restart", fixedCompletion(restartPolicies))
	_ = serviceCmd.RegisterFlagCompletionFunc("type", fixedCompletion(serviceTypes))

	return serviceCmd
}

func (c *ServiceCommand) buildDeps(app *App) ServiceDeps {
	return ServiceDeps{CommonDeps: NewRootDeps(app)}
}

// Run executes the service command with injected dependencies.
func (c *ServiceCommand) Run(ctx context.Context, app *App, opts ServiceOptions, deps ServiceDeps, name string) error {
	var err error
	if opts.Exec == "" {
		if opts.Exec, err = app.Prompter.Required("Command to run"); err != nil {
			return err
		}
	}

	if opts.WorkDir == "" {
		if cwd, err := deps.Getwd(); err == nil {
			useCwd, err := app.Prompter.Confirm(fmt.Sprintf("Use current directory as working directory (%s)?", cwd), false)
			if err != nil {
				return err
			}
			if useCwd {
				opts.WorkDir = cwd
			}
		}
	}

	if opts.User == "" && opts.System {
		if opts.User, err = app.Prompter.Optional("Run as user (leave empty for root)", ""); err != nil {
			return err
		}
	}

	if err := checkSingleLine(
		"exec", opts.Exec,
		"description", opts.Description,
		"workdir", opts.WorkDir,
		"user", opts.User,
		"group", opts.Group,
		"env-file", opts.EnvFile,
		"after", opts.After,
		"wants", opts.Wants,
		"requires", opts.Requires,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}

	rec := unit.NewServiceRecord(name, opts.Exec)
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	rec.After = opts.After
	rec.Wants = opts.Wants
	rec.Requires = opts.Requires
	rec.ServiceType = opts.Type
	rec.WorkDir = opts.WorkDir
	rec.User = opts.User
	rec.Group = opts.Group
	rec.Restart = opts.Restart
	rec.RestartSec = opts.RestartSec
	rec.EnvFile = opts.EnvFile
	rec.Hardening = opts.Hardening
	rec.WantedBy = opts.WantedBy

	afs := app.FSService.Fs()
	warnings := preflightExec(afs, opts.Exec)
	warnings = append(warnings, preflightWorkDir(afs, opts.WorkDir)...)

	for _, entry := range opts.Env {
		envWarnings, err := validate.EnvAssignment(entry)
		if err != nil {
			return &InvalidArgumentError{Message: err.Error()}
		}
		for _, w := range envWarnings {
			warnings = append(warnings, preflightWarning{Message: w})
		}
		key, value, _ := strings.Cut(entry, "=")
		deps.Logger.Debug("Adding environment variable", "key", key, "value", validate.SanitizeForLogging(key, value))
		rec.Env = append(rec.Env, entry)
	}

	deps.Logger.Debug("Creating service unit", "name", name, "scope", opts.Scope().String())
	return createUnit(ctx, app, unitRequest{
		Name:     name,
		Kind:     unit.Service,
		Record:   rec,
		Warnings: warnings,
	}, opts.CreateOptions)
}
