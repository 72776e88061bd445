package main

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/client"
	"github.com/urfave/cli/v3"
)

// OwnerCreate registers a new owner and persists the issued token.
func (r *Runner) OwnerCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")

	// A configured remote registers against the server; otherwise the
	// local store issues the identity directly.
	var id string
	if remote := r.config.Client.RemoteURL; remote != "" {
		c := client.NewClient(remote, "", nil)
		owner, err := c.RegisterOwner(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to register owner: %w", err)
		}
		id = owner.ID
	} else {
		s, err := r.openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		owner, err := s.CreateOwner(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}
		id = owner.ID
	}

	if err := r.saveToken(id); err != nil {
		return err
	}

	r.logger.Info("owner registered", "id", id)
	r.writePlain("✓ Owner registered\n")
	r.writePlain("Token saved to: %s\n", r.tokenPath())
	return r.writePlain("Token: %s\n", id)
}

// OwnerWhoami resolves the saved token into an owner.
func (r *Runner) OwnerWhoami(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		return err
	}

	if remote := r.config.Client.RemoteURL; remote != "" {
		c := client.NewClient(remote, token, nil)
		owner, err := c.Whoami(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve token: %w", err)
		}
		return r.writePlain("%s (%s)\n", owner.Name, owner.ID)
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	owner, err := s.VerifyOwner(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resolve token: %w", err)
	}

	return r.writePlain("%s (%s)\n", owner.Name, owner.ID)
}
