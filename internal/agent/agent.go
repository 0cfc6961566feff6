// Package agent ties the wallet, payment, and marketplace layers together:
// it owns the process-lifetime identity and exposes the discover/execute
// operations the CLI drives.
package agent

import (
	"context"

	"github.com/bazaarlabs/bazaar-agent/internal/config"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/bazaarlabs/bazaar-agent/internal/marketplace"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FromConfigResult carries everything wired up by FromConfig. The CLI needs
// the concrete marketplace client for operations outside the agent's
// discover/execute surface (reviews, favorites, registration).
type FromConfigResult struct {
	Agent       *Agent
	Marketplace *marketplace.Client
	Identity    *wallet.Identity
}

// Marketplace is the subset of the marketplace client the agent drives.
type Marketplace interface {
	SearchTools(ctx context.Context, query string, limit int) (*marketplace.SearchResponse, error)
	GetTool(ctx context.Context, toolID string) (*marketplace.Tool, error)
	ExecuteTool(ctx context.Context, toolID string, args map[string]interface{}) (*marketplace.ExecutionResult, error)
}

// Agent discovers and executes marketplace tools, paying per call when the
// session has no API key.
type Agent struct {
	market   Marketplace
	identity *wallet.Identity
	session  *marketplace.Session
}

// New creates an agent around an already-loaded identity.
func New(market Marketplace, identity *wallet.Identity, session *marketplace.Session) *Agent {
	return &Agent{
		market:   market,
		identity: identity,
		session:  session,
	}
}

// FromConfig wires up a full agent: loads (or creates) the wallet identity and
// builds the marketplace client against the configured base URL.
func FromConfig(cfg *config.Config) (*FromConfigResult, error) {
	ks := wallet.NewKeyStore(cfg.WalletPath)
	identity, err := ks.LoadOrCreate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load wallet identity")
	}

	session := marketplace.NewSession(cfg.APIKey)
	market := marketplace.NewClient(cfg.MarketplaceURL, identity, session)

	logger.Info("agent initialized",
		zap.String("marketplace", cfg.MarketplaceURL),
		zap.String("address", identity.Address().Hex()),
		zap.Bool("authenticated", cfg.APIKey != ""),
	)
	return &FromConfigResult{
		Agent:       New(market, identity, session),
		Marketplace: market,
		Identity:    identity,
	}, nil
}

// Address returns the agent's payment address.
func (a *Agent) Address() common.Address {
	return a.identity.Address()
}

// Session returns the marketplace session; the agent is its single owner.
func (a *Agent) Session() *marketplace.Session {
	return a.session
}

// Discover searches the marketplace for tools matching the query.
func (a *Agent) Discover(ctx context.Context, query string, limit int) ([]marketplace.Tool, error) {
	page, err := a.market.SearchTools(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered tools",
		zap.String("query", query),
		zap.Int("count", len(page.Tools)),
	)
	return page.Tools, nil
}

// Execute looks up a tool and runs it with the given arguments. A 402 from
// the marketplace is settled transparently by the payment layer.
func (a *Agent) Execute(ctx context.Context, toolID string, args map[string]interface{}) (*marketplace.ExecutionResult, error) {
	tool, err := a.market.GetTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	logger.Info("executing tool",
		zap.String("tool_id", tool.ID),
		zap.String("name", tool.Name),
		zap.String("price", tool.Price),
		zap.String("network", tool.Network),
	)

	return a.market.ExecuteTool(ctx, toolID, args)
}
