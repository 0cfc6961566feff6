package agent_test

import (
	"context"
	"testing"

	"github.com/bazaarlabs/bazaar-agent/internal/agent"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/bazaarlabs/bazaar-agent/internal/marketplace"
	"github.com/bazaarlabs/bazaar-agent/internal/mocks"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

const testSecret = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newAgent(t *testing.T, market agent.Marketplace) *agent.Agent {
	t.Helper()
	id, err := wallet.FromHex(testSecret)
	require.NoError(t, err)
	return agent.New(market, id, marketplace.NewSession(""))
}

func TestAgent_Discover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	market := mocks.NewMockMarketplace(ctrl)
	ctx := context.Background()

	market.EXPECT().
		SearchTools(ctx, "weather", 5).
		Return(&marketplace.SearchResponse{
			Tools: []marketplace.Tool{{ID: "abc", Name: "weather"}},
			Total: 1,
		}, nil).
		Times(1)

	tools, err := newAgent(t, market).Discover(ctx, "weather", 5)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "abc", tools[0].ID)
}

func TestAgent_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	market := mocks.NewMockMarketplace(ctrl)
	ctx := context.Background()
	args := map[string]interface{}{"city": "NYC"}

	market.EXPECT().
		GetTool(ctx, "abc").
		Return(&marketplace.Tool{ID: "abc", Name: "weather", Price: "1000000", Network: "eip155:8453"}, nil).
		Times(1)
	market.EXPECT().
		ExecuteTool(ctx, "abc", args).
		Return(&marketplace.ExecutionResult{ToolID: "abc", DurationMs: 12}, nil).
		Times(1)

	result, err := newAgent(t, market).Execute(ctx, "abc", args)
	require.NoError(t, err)
	assert.Equal(t, "abc", result.ToolID)
}

func TestAgent_Execute_UnknownTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	market := mocks.NewMockMarketplace(ctrl)
	ctx := context.Background()

	market.EXPECT().
		GetTool(ctx, "missing").
		Return(nil, assert.AnError).
		Times(1)

	_, err := newAgent(t, market).Execute(ctx, "missing", nil)
	assert.Error(t, err)
}

func TestAgent_Address(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newAgent(t, mocks.NewMockMarketplace(ctrl))
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", a.Address().Hex())
}
