package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/target/marketplace-ui/internal/data"
	apperrors "github.com/target/marketplace-ui/internal/errors"
	"github.com/target/marketplace-ui/internal/service"
)

type sellerFlagSetter interface {
	SetSeller(ctx context.Context, userID string, isSeller bool) error
}

type sellerFlagOptions struct {
	UserID string
}

func parseSellerFlagFlags(name string, args []string) (sellerFlagOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := sellerFlagOptions{}
	fs.StringVar(&opts.UserID, "user", "", "User ID whose profile to change")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.UserID = strings.TrimSpace(opts.UserID)
	if opts.UserID == "" {
		return opts, errors.New("-user is required")
	}
	return opts, nil
}

func runPromoteSeller(cmdCtx *commandContext, args []string) error {
	return runSellerFlag(cmdCtx, "promote-seller", args, true)
}

func runDemoteSeller(cmdCtx *commandContext, args []string) error {
	return runSellerFlag(cmdCtx, "demote-seller", args, false)
}

func runSellerFlag(cmdCtx *commandContext, name string, args []string, isSeller bool) error {
	opts, err := parseSellerFlagFlags(name, args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx.Ctx, cmdCtx, func(db *sql.DB) error {
		svc := service.NewProfileService(service.ProfileServiceOptions{
			Repo:   data.NewProfileRepo(db),
			Logger: cmdCtx.Logger,
		})
		return applySellerFlag(cmdCtx.Ctx, cmdCtx.Out, svc, opts.UserID, isSeller)
	})
}

func applySellerFlag(ctx context.Context, w io.Writer, profiles sellerFlagSetter, userID string, isSeller bool) error {
	if err := profiles.SetSeller(ctx, userID, isSeller); err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("no profile for user %q, the user must sign in once first: %w", userID, err)
		}
		return err
	}
	role := "buyer"
	if isSeller {
		role = "seller"
	}
	return writef(w, "%s is now a %s (applies at next sign-in)\n", userID, role)
}
