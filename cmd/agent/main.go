package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bazaarlabs/bazaar-agent/internal/agent"
	"github.com/bazaarlabs/bazaar-agent/internal/config"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/bazaarlabs/bazaar-agent/internal/marketplace"
	"github.com/spf13/cobra"
)

const commandTimeout = 60 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, initializes logging, and wires the agent.
func bootstrap() (*agent.FromConfigResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg.Stage)
	return agent.FromConfig(cfg)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bazaar-agent",
		Short:         "Discover, execute, and pay for marketplace tools",
		Long:          "bazaar-agent is a local agent that discovers and executes tools on the bazaar marketplace, paying per call from a self-custodied wallet when no API key is configured.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newWalletCommand(),
		newSearchCommand(),
		newToolsCommand(),
		newCallCommand(),
		newReviewCommand(),
		newFavoritesCommand(),
	)
	return root
}

func newWalletCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show the agent's payment address",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bootstrap()
			if err != nil {
				return err
			}
			fmt.Println(res.Identity.Address().Hex())
			return nil
		},
	}
}

func newSearchCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the marketplace for tools",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			tools, err := res.Agent.Discover(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(tools)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func newToolsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List marketplace tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			tools, err := res.Marketplace.ListTools(ctx, limit)
			if err != nil {
				return err
			}
			return printJSON(tools)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	return cmd
}

func newCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool-id> [json-args]",
		Short: "Execute a tool, paying per call if required",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]interface{}{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
					return fmt.Errorf("invalid tool arguments: %w", err)
				}
			}

			res, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			result, err := res.Agent.Execute(ctx, args[0], toolArgs)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newReviewCommand() *cobra.Command {
	var rating int
	var comment string
	cmd := &cobra.Command{
		Use:   "review <tool-id>",
		Short: "Submit a review for a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			review, err := res.Marketplace.AddReview(ctx, args[0], marketplace.AddReviewParams{
				Rating:  rating,
				Comment: comment,
			})
			if err != nil {
				return err
			}
			return printJSON(review)
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 5, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review comment")
	return cmd
}

func newFavoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage bookmarked tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			tools, err := res.Marketplace.ListFavorites(ctx)
			if err != nil {
				return err
			}
			return printJSON(tools)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <tool-id>",
			Short: "Bookmark a tool",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := bootstrap()
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				defer cancel()
				return res.Marketplace.AddFavorite(ctx, args[0])
			},
		},
		&cobra.Command{
			Use:   "remove <tool-id>",
			Short: "Remove a bookmark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := bootstrap()
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				defer cancel()
				return res.Marketplace.RemoveFavorite(ctx, args[0])
			},
		},
	)
	return cmd
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
