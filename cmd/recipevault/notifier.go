package main

import (
	"context"
	"fmt"
	"os"
)

// terminalNotifier renders session notifications on the terminal, the
// stand-in for the app's toast feedback.
type terminalNotifier struct{}

func (terminalNotifier) Success(ctx context.Context, message string) {
	fmt.Println(message)
}

func (terminalNotifier) Error(ctx context.Context, message string) {
	fmt.Fprintln(os.Stderr, message)
}
