package main

import (
	"errors"
	"flag"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/domain/guard"
	"github.com/target/marketplace-ui/internal/domain/route"
)

func runRoutes(cmdCtx *commandContext, _ []string) error {
	return printRoutes(cmdCtx.Out, route.Default())
}

func printRoutes(w io.Writer, table *route.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "PATTERN\tGUARD\tPAGE\tLAYOUT\tOVERRIDE\n"); err != nil {
		return err
	}
	for _, e := range table.Entries() {
		page := e.Page
		if e.Redirect != "" {
			page = "-> " + e.Redirect
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Pattern, e.Guard, dash(page), dash(string(e.Layout)), dash(e.RedirectOverride)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type resolveOptions struct {
	Path      string
	Loading   bool
	Anonymous bool
	Seller    bool
}

func parseResolveFlags(args []string) (resolveOptions, error) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := resolveOptions{}
	fs.StringVar(&opts.Path, "path", "", "Request path to resolve")
	fs.BoolVar(&opts.Loading, "loading", false, "Resolve while the auth state is still loading")
	fs.BoolVar(&opts.Anonymous, "anonymous", false, "Resolve without a signed-in user")
	fs.BoolVar(&opts.Seller, "seller", false, "Resolve as a seller instead of a buyer")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Path = strings.TrimSpace(opts.Path)
	if opts.Path == "" {
		return opts, errors.New("-path is required")
	}
	if !strings.HasPrefix(opts.Path, "/") {
		return opts, errors.New("-path must start with /")
	}
	if opts.Anonymous && opts.Seller {
		return opts, errors.New("-anonymous and -seller are mutually exclusive")
	}
	return opts, nil
}

func (o resolveOptions) state() auth.AuthState {
	if o.Loading {
		return auth.AuthState{Loading: true}
	}
	if o.Anonymous {
		return auth.AuthState{}
	}
	return auth.AuthState{User: &auth.User{ID: "synthetic-user", IsSeller: auth.SellerFlag(o.Seller)}}
}

func runResolve(cmdCtx *commandContext, args []string) error {
	opts, err := parseResolveFlags(args)
	if err != nil {
		return err
	}
	return printOutcome(cmdCtx.Out, opts.Path, route.Default().Resolve(opts.Path, opts.state()))
}

func printOutcome(w io.Writer, path string, out route.Outcome) error {
	if out.NotFound {
		return writef(w, "%s: no route, render %s (404)\n", path, route.PageNotFound)
	}
	e := out.Match.Entry
	switch out.Decision.Action {
	case guard.Redirect:
		return writef(w, "%s: matched %s [%s], redirect to %s\n", path, e.Pattern, e.Guard, out.Decision.Target)
	case guard.ShowLoading:
		return writef(w, "%s: matched %s [%s], show loading\n", path, e.Pattern, e.Guard)
	default:
		if err := writef(w, "%s: matched %s [%s], render %s\n", path, e.Pattern, e.Guard, e.Page); err != nil {
			return err
		}
		for name, value := range out.Match.Params {
			if err := writef(w, "  %s = %s\n", name, value); err != nil {
				return err
			}
		}
		return nil
	}
}
