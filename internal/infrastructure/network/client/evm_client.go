package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/utils"
)

// EVMClient implements the port.BlockchainClient interface for
// EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
}

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	erc20MethodID   []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		erc20MethodID = balanceOfMethod.ID
	})
}

// NewEVMClient dials the network's RPC endpoints in order and keeps the
// first one that answers.
func NewEVMClient(netDef entity.NetworkDefinition, connectTimeout, rpcCallTimeout time.Duration) (port.BlockchainClient, error) {
	initParsedERC20ABI()

	var lastErr error
	for _, rpcURL := range netDef.RPCURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		ethClient, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return &EVMClient{ethClient: ethClient, netDef: netDef, rpcCallTimeout: rpcCallTimeout}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC endpoints configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// GetBalances resolves all requests in a single JSON-RPC batch call. Item
// failures stay on their result entry; only a transport-level failure is
// returned as the call error.
func (c *EVMClient) GetBalances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	if len(requests) == 0 {
		return []entity.BalanceResultItem{}, nil
	}

	batchElems := make([]rpc.BatchElem, len(requests))
	results := make([]entity.BalanceResultItem, len(requests))

	for i, reqItem := range requests {
		results[i] = entity.BalanceResultItem{
			WalletAddress: reqItem.WalletAddress,
			TokenAddress:  reqItem.TokenAddress,
			TokenSymbol:   reqItem.TokenSymbol,
			Decimals:      reqItem.TokenDecimals,
			IsNative:      reqItem.Type == entity.NativeBalanceRequest,
		}

		switch reqItem.Type {
		case entity.NativeBalanceRequest:
			batchElems[i] = rpc.BatchElem{
				Method: "eth_getBalance",
				Args:   []interface{}{common.HexToAddress(reqItem.WalletAddress), "latest"},
				Result: new(*hexutil.Big),
			}
		case entity.TokenBalanceRequest:
			paddedWalletAddress := common.LeftPadBytes(common.HexToAddress(reqItem.WalletAddress).Bytes(), 32)
			callData := append(erc20MethodID, paddedWalletAddress...)

			callArgs := map[string]interface{}{
				"to":   common.HexToAddress(reqItem.TokenAddress),
				"data": hexutil.Bytes(callData),
			}
			batchElems[i] = rpc.BatchElem{
				Method: "eth_call",
				Args:   []interface{}{callArgs, "latest"},
				Result: new(hexutil.Bytes),
			}
		default:
			results[i].Error = fmt.Errorf("unknown balance request type: %v for %s", reqItem.Type, reqItem.TokenSymbol)
		}
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.ethClient.Client().BatchCallContext(rpcCallCtx, batchElems); err != nil {
		return results, fmt.Errorf("RPC batch call failed on %s: %w", c.netDef.Identifier, err)
	}

	for i, elem := range batchElems {
		if results[i].Error != nil {
			continue
		}
		if elem.Error != nil {
			results[i].Error = fmt.Errorf("failed to fetch %s for wallet %s: %w",
				requests[i].TokenSymbol, requests[i].WalletAddress, elem.Error)
			continue
		}

		switch requests[i].Type {
		case entity.NativeBalanceRequest:
			results[i].Balance, results[i].Error = decodeNativeBalance(elem.Result, requests[i].TokenSymbol)
		case entity.TokenBalanceRequest:
			results[i].Balance, results[i].Error = decodeTokenBalance(elem.Result, requests[i].TokenSymbol)
		}
		if results[i].Error != nil {
			continue
		}

		formatted, err := utils.FormatBigInt(results[i].Balance, results[i].Decimals)
		if err != nil {
			results[i].Error = fmt.Errorf("failed to format balance for %s: %w", requests[i].TokenSymbol, err)
			continue
		}
		results[i].FormattedBalance = formatted
	}
	return results, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

func decodeNativeBalance(raw interface{}, symbol string) (*big.Int, error) {
	result, ok := raw.(**hexutil.Big)
	if !ok || result == nil || *result == nil {
		return nil, fmt.Errorf("failed to decode native balance for %s: unexpected type or nil result", symbol)
	}
	return (*big.Int)(*result), nil
}

func decodeTokenBalance(raw interface{}, symbol string) (*big.Int, error) {
	result, ok := raw.(*hexutil.Bytes)
	if !ok || result == nil {
		return nil, fmt.Errorf("failed to decode token balance for %s: unexpected type or nil result", symbol)
	}
	// Некоторые ноды возвращают пустой ответ для несуществующего контракта.
	if len(*result) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", *result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result for %s: %w. Raw: %s", symbol, err, hexutil.Encode(*result))
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", symbol)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", symbol, unpacked[0])
	}
	return balance, nil
}
