package cmd

import (
	"context"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/unit"
)

// bareDuration matches time spans such as "5m" or "90s" that are not calendar expressions.
var bareDuration = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?\s*(us|ms|s|sec|seconds?|m|min|minutes?|h|hr|hours?)$`)

// TimerOptions holds timer command options.
type TimerOptions struct {
	CreateOptions
	Unit           string
	Description    string
	OnCalendar     string
	OnBoot         string
	OnStartup      string
	OnActive       string
	OnUnitActive   string
	OnUnitInactive string
	Persistent     bool
	RandomizeDelay string
	WantedBy       string
}

func (o TimerOptions) hasTrigger() bool {
	return o.OnCalendar != "" || o.OnBoot != "" || o.OnStartup != "" ||
		o.OnActive != "" || o.OnUnitActive != "" || o.OnUnitInactive != ""
}

// TimerCommand represents the timer creation command.
type TimerCommand struct{}

// NewTimerCommand creates a new TimerCommand.
func NewTimerCommand() *TimerCommand {
	return &TimerCommand{}
}

// GetCobraCommand returns the cobra command for creating timer units.
func (c *TimerCommand) GetCobraCommand() *cobra.Command {
	var opts TimerOptions

	timerCmd := &cobra.Command{
		Use:   "timer NAME",
		Short: "Create a timer unit",
		Long: `Create a timer unit that activates another unit on a schedule.

At least one trigger is required. Without one, a calendar expression is
prompted for. Boot-relative triggers must be given with --on-boot.`,
		Example: `  mkunit timer backup --on-calendar daily --persistent
  mkunit timer cleanup --on-boot 15min --unit tmp-cleanup.service`,
		Args: exactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			return checkName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return c.Run(cmd.Context(), app, opts, NewRootDeps(app), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := timerCmd.Flags()
	f.StringVarP(&opts.Unit, "unit", "u", "", "Unit to activate (default NAME.service)")
	f.StringVarP(&opts.Description, "description", "d", "", "Unit description")
	f.StringVar(&opts.OnCalendar, "on-calendar", "", "Calendar expression (OnCalendar)")
	f.StringVar(&opts.OnBoot, "on-boot", "", "Time after boot (OnBootSec)")
	f.StringVar(&opts.OnStartup, "on-startup", "", "Time after the service manager started (OnStartupSec)")
	f.StringVar(&opts.OnActive, "on-active", "", "Time after the timer was activated (OnActiveSec)")
	f.StringVar(&opts.OnUnitActive, "on-unit-active", "", "Time after the unit was last activated (OnUnitActiveSec)")
	f.StringVar(&opts.OnUnitInactive, "on-unit-inactive", "", "Time after the unit was last deactivated (OnUnitInactiveSec)")
	f.BoolVar(&opts.Persistent, "persistent", false, "Catch up on runs missed while powered off")
	f.StringVar(&opts.RandomizeDelay, "randomize-delay", "", "Random delay added to each run (RandomizedDelaySec)")
	f.StringVar(&opts.WantedBy, "wanted-by", "timers.target", "Install target")
	addCreateFlags(timerCmd, &opts.CreateOptions, false)

	return timerCmd
}

// Run executes the timer command with injected dependencies.
func (c *TimerCommand) Run(ctx context.Context, app *App, opts TimerOptions, deps CommonDeps, name string) error {
	if !opts.hasTrigger() {
		trigger, err := app.Prompter.Required("Timer trigger (e.g., 'daily', '*-*-* 04:00:00', or '5m' for on-boot)")
		if err != nil {
			return err
		}
		trigger = strings.TrimSpace(trigger)
		if bareDuration.MatchString(trigger) {
			return invalidArgf("'%s' looks like a duration, not a calendar expression. For boot-relative timers, use --on-boot flag explicitly", trigger)
		}
		opts.OnCalendar = trigger
	}

	if err := checkSingleLine(
		"unit", opts.Unit,
		"description", opts.Description,
		"on-calendar", opts.OnCalendar,
		"on-boot", opts.OnBoot,
		"on-startup", opts.OnStartup,
		"on-active", opts.OnActive,
		"on-unit-active", opts.OnUnitActive,
		"on-unit-inactive", opts.OnUnitInactive,
		"randomize-delay", opts.RandomizeDelay,
		"wanted-by", opts.WantedBy,
	); err != nil {
		return err
	}

	rec := unit.NewTimerRecord(name)
	if opts.Description != "" {
		rec.Description = opts.Description
	}
	if opts.Unit != "" {
		rec.Unit = serviceName(opts.Unit)
	}
	rec.OnCalendar = opts.OnCalendar
	rec.OnBootSec = opts.OnBoot
	rec.OnStartupSec = opts.OnStartup
	rec.OnActiveSec = opts.OnActive
	rec.OnUnitActiveSec = opts.OnUnitActive
	rec.OnUnitInactiveSec = opts.OnUnitInactive
	rec.Persistent = opts.Persistent
	rec.RandomizedDelay = opts.RandomizeDelay
	rec.WantedBy = opts.WantedBy

	deps.Logger.Debug("Creating timer unit", "name", name, "unit", rec.Unit)
	return createUnit(ctx, app, unitRequest{Name: name, Kind: unit.Timer, Record: rec}, opts.CreateOptions)
}
