package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

type contextKey string

const appContextKey contextKey = "app"

// getApp retrieves the App from the command context.
func getApp(cmd *cobra.Command) *App {
	return cmd.Context().Value(appContextKey).(*App)
}

// hasApp reports whether ctx already carries an App.
func hasApp(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	_, ok := ctx.Value(appContextKey).(*App)
	return ok
}
