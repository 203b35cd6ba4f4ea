// shade is a light/dark theme service: it resolves, applies, persists and
// toggles the theme for a web page, backed by a per-profile preference store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	log "github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"
)

var opts struct {
	Debug bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("shade %s\n", revision)

	p := flags.NewParser(&opts, flags.PassDoubleDash|flags.HelpFlag)

	if _, err := p.AddCommand("server", "run the theme server", "start the HTTP server", &ServerCmd{}); err != nil {
		fmt.Printf("failed to register server command: %v\n", err)
		os.Exit(1)
	}
	if _, err := p.AddCommand("detect", "detect host color scheme", "probe the host OS color scheme and print it", &DetectCmd{}); err != nil {
		fmt.Printf("failed to register detect command: %v\n", err)
		os.Exit(1)
	}

	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			p.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func setupLogs(dbg bool) io.Writer {
	log.Setup(log.Msec)
	if dbg {
		log.Setup(log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
	return os.Stdout
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			switch sig {
			case syscall.SIGQUIT:
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
			case syscall.SIGTERM, syscall.SIGINT:
				cancel()
			}
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}

// validateBaseURL normalizes and validates the base URL path.
func validateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}
	if !strings.HasPrefix(baseURL, "/") {
		return "", fmt.Errorf("must start with /, got %q", baseURL)
	}
	if strings.Contains(baseURL, "//") {
		return "", fmt.Errorf("must not contain //, got %q", baseURL)
	}
	return strings.TrimSuffix(baseURL, "/"), nil
}
