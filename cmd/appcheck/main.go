// cmd/appcheck validates declarative app documents offline: schema
// conformance via the embedded CUE definition, plus a report of screens
// and template bindings that reference nothing resolvable at startup.
//
// Usage:
//
//	appcheck app.json [more.json ...]
//
// Exits non-zero if any document fails validation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/matthewbaird/appdeck/internal/binding"
	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/validate"
)

func main() {
	verbose := flag.Bool("v", false, "list screens and template bindings per document")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: appcheck [-v] <app.json> [more.json ...]")
		os.Exit(2)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := checkFile(path, *verbose); err != nil {
			log.Printf("%s: %v", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func checkFile(path string, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := validate.Document(data); err != nil {
		return err
	}

	app, err := document.Decode(data)
	if err != nil {
		return err
	}

	if verbose {
		report(app)
	}

	// Structural checks the CUE schema cannot express.
	if app.DefaultScreenID() == "" {
		return fmt.Errorf("document declares no screens")
	}
	if initial := app.InitialScreen; initial != "" && !document.IsAuthScreen(initial) {
		if app.ScreenByID(initial) == nil {
			return fmt.Errorf("initial screen %q does not exist", initial)
		}
	}
	if app.Auth != nil && app.Auth.PostLoginScreen != "" {
		if !document.IsAuthScreen(app.Auth.PostLoginScreen) && app.ScreenByID(app.Auth.PostLoginScreen) == nil {
			return fmt.Errorf("postLoginScreen %q does not exist", app.Auth.PostLoginScreen)
		}
	}
	return nil
}

func report(app *document.App) {
	fmt.Printf("  app %s (%d screens)\n", app.ID, len(app.Screens))
	for _, screen := range app.Screens {
		gate := ""
		if screen.RequiresAuth {
			gate = " [requires auth]"
		}
		fmt.Printf("  screen %s%s\n", screen.ID, gate)
		for _, c := range screen.Components {
			listBindings(c)
		}
	}
}

func listBindings(c document.Component) {
	for key, value := range c.Props {
		s, ok := value.(string)
		if !ok || !binding.HasTemplateVariables(s) {
			continue
		}
		for _, path := range binding.ExtractTemplateVariables(s) {
			fmt.Printf("    binding %s.%s -> {{%s}}\n", c.Type, key, path)
		}
	}
	for _, child := range c.Children {
		listBindings(child)
	}
}
