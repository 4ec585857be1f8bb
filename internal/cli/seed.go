package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/quill/blog"
	"github.com/jacentio/quill/validate"
)

// NewSeedCommand creates the seed command, which writes a small demo
// dataset through the engine so every record passes the same validation
// as API traffic.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, posts, and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), rootOpts)
		},
	}
}

func runSeed(ctx context.Context, opts *RootOptions) error {
	logger := newLogger(opts.Verbose)

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if opts.Storage != "" {
		cfg.Storage = opts.Storage
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	engine := blog.NewEngine(store, logger)

	users := []map[string]string{
		{"name": "Grace Hopper", "email": "grace@example.com"},
		{"name": "Alan Turing", "email": "alan@example.com"},
	}

	for _, fields := range users {
		user, fieldErrs, err := engine.CreateUser(ctx, fields)
		if err != nil {
			return err
		}
		if err := checkFieldErrs("user", fieldErrs); err != nil {
			return err
		}
		logger.Info("seeded user", "id", user.ID, "name", user.Name)

		post, fieldErrs, err := engine.CreatePost(ctx, map[string]string{
			"userId": user.ID,
			"title":  fmt.Sprintf("Hello from %s", user.Name),
			"text":   "This is a seeded post.",
		})
		if err != nil {
			return err
		}
		if err := checkFieldErrs("post", fieldErrs); err != nil {
			return err
		}
		logger.Info("seeded post", "id", post.ID, "title", post.Title)

		comment, fieldErrs, err := engine.CreateComment(ctx, map[string]string{
			"postId": post.ID,
			"userId": user.ID,
			"text":   "First comment!",
		})
		if err != nil {
			return err
		}
		if err := checkFieldErrs("comment", fieldErrs); err != nil {
			return err
		}
		logger.Info("seeded comment", "id", comment.ID)
	}

	return nil
}

func checkFieldErrs(entity string, fieldErrs []validate.FieldError) error {
	if len(fieldErrs) == 0 {
		return nil
	}
	return fmt.Errorf("seed %s rejected: %s: %s", entity, fieldErrs[0].Field, fieldErrs[0].Message)
}
