package main

import (
	"fmt"
	"os"

	"github.com/bazaargo/storefront/internal/api"
)

// termNavigator is the CLI stand-in for the SPA's error pages: each
// navigation becomes a message on stderr.
type termNavigator struct{}

func (termNavigator) Unauthorized() {
	fmt.Fprintln(os.Stderr, "session expired, please log in again")
}

func (termNavigator) Forbidden(ctx api.ErrorContext) {
	fmt.Fprintf(os.Stderr, "access denied: %s (ref %s)\n", ctx.Message, ctx.RequestID)
}

func (termNavigator) ServerError(ctx api.ErrorContext) {
	fmt.Fprintf(os.Stderr, "server error, try again later (ref %s)\n", ctx.RequestID)
}

func (termNavigator) NetworkError(ctx api.ErrorContext) {
	fmt.Fprintln(os.Stderr, "network unreachable, check your connection and retry")
}
