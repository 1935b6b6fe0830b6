package audit

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/scaleaudit/scaleaudit/internal/config"
	"github.com/scaleaudit/scaleaudit/internal/identity"
)

const (
	testContractAddr = "0x1234567890AbcdEF1234567890aBcdef12345678"
	testKeyHex       = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
)

// mockGateway is a scripted in-memory ledger. It decodes calldata with the
// real ABI so the full pack/unpack path is exercised, tracks the confirmed
// nonce the way a chain does, and applies writes only when the scripted
// settlement succeeds.
type mockGateway struct {
	mu          sync.Mutex
	contractABI abi.ABI

	chainID  *big.Int
	gasPrice *big.Int
	nonce    uint64 // confirmed transaction count
	now      int64  // ledger clock, unix seconds

	authorized map[common.Address]bool
	owner      common.Address
	records    map[string][]metricsTuple
	actions    map[string][]string // nodeID -> actions, from logScalingAction

	broadcasts []*ethtypes.Transaction

	// fault injection
	nonceErr      error
	gasPriceErr   error
	chainIDErr    error
	broadcastErr  error
	callErr       error
	waitErr       error
	receiptStatus uint64
}

func newMockGateway(t *testing.T) *mockGateway {
	t.Helper()
	contractABI, err := abi.JSON(strings.NewReader(AuditLoggerABI))
	if err != nil {
		t.Fatalf("failed to parse embedded ABI: %v", err)
	}
	return &mockGateway{
		contractABI:   contractABI,
		chainID:       big.NewInt(1337),
		gasPrice:      big.NewInt(2e9),
		now:           1700000000,
		authorized:    make(map[common.Address]bool),
		records:       make(map[string][]metricsTuple),
		actions:       make(map[string][]string),
		receiptStatus: ethtypes.ReceiptStatusSuccessful,
	}
}

func (m *mockGateway) ChainID(ctx context.Context) (*big.Int, error) {
	if m.chainIDErr != nil {
		return nil, m.chainIDErr
	}
	return m.chainID, nil
}

func (m *mockGateway) Nonce(ctx context.Context, addr common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nonceErr != nil {
		return 0, m.nonceErr
	}
	return m.nonce, nil
}

func (m *mockGateway) GasPrice(ctx context.Context) (*big.Int, error) {
	if m.gasPriceErr != nil {
		return nil, m.gasPriceErr
	}
	return m.gasPrice, nil
}

func (m *mockGateway) Broadcast(ctx context.Context, tx *ethtypes.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.broadcastErr != nil {
		return m.broadcastErr
	}
	m.broadcasts = append(m.broadcasts, tx)

	// A transaction that never settles consumes no nonce.
	if m.waitErr != nil {
		return nil
	}
	m.nonce++
	if m.receiptStatus == ethtypes.ReceiptStatusSuccessful {
		m.applyWrite(tx.Data())
	}
	return nil
}

func (m *mockGateway) applyWrite(data []byte) {
	method, err := m.contractABI.MethodById(data[:4])
	if err != nil {
		return
	}
	vals, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return
	}

	switch method.Name {
	case "logNodeMetrics":
		nodeID := vals[0].(string)
		m.records[nodeID] = append(m.records[nodeID], metricsTuple{
			NodeId:          nodeID,
			Timestamp:       big.NewInt(m.now),
			MemoryUsage:     vals[1].(*big.Int),
			CpuLoad:         vals[2].(*big.Int),
			AllocatedMemory: vals[3].(*big.Int),
			Status:          vals[4].(uint8),
		})
		m.now++
	case "logScalingAction":
		nodeID := vals[0].(string)
		m.actions[nodeID] = append(m.actions[nodeID], vals[1].(string))
	}
}

func (m *mockGateway) WaitForReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	return &ethtypes.Receipt{
		Status:      m.receiptStatus,
		TxHash:      txHash,
		BlockNumber: big.NewInt(int64(len(m.broadcasts))),
	}, nil
}

func (m *mockGateway) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.callErr != nil {
		return nil, m.callErr
	}

	method, err := m.contractABI.MethodById(data[:4])
	if err != nil {
		return nil, fmt.Errorf("unknown method: %w", err)
	}
	vals, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("bad calldata: %w", err)
	}

	switch method.Name {
	case "authorizedLoggers":
		return method.Outputs.Pack(m.authorized[vals[0].(common.Address)])
	case "owner":
		return method.Outputs.Pack(m.owner)
	case "getLatestNodeMetrics":
		rows := m.records[vals[0].(string)]
		if len(rows) == 0 {
			return method.Outputs.Pack(emptyTuple())
		}
		return method.Outputs.Pack(rows[len(rows)-1])
	case "getNodeMetricsHistory":
		rows := m.records[vals[0].(string)]
		start := vals[1].(*big.Int).Uint64()
		count := vals[2].(*big.Int).Uint64()
		if start >= uint64(len(rows)) {
			return method.Outputs.Pack([]metricsTuple{})
		}
		end := start + count
		if end > uint64(len(rows)) {
			end = uint64(len(rows))
		}
		return method.Outputs.Pack(rows[start:end])
	default:
		return nil, fmt.Errorf("unhandled method %s", method.Name)
	}
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

// emptyTuple is the contract's absence sentinel for getLatestNodeMetrics.
func emptyTuple() metricsTuple {
	return metricsTuple{
		Timestamp:       big.NewInt(0),
		MemoryUsage:     big.NewInt(0),
		CpuLoad:         big.NewInt(0),
		AllocatedMemory: big.NewInt(0),
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Ledger.ContractAddress = testContractAddr
	cfg.Identity.PrivateKeyHex = testKeyHex
	return cfg
}

func mustSigner(t *testing.T) *identity.Signer {
	t.Helper()
	signer, err := identity.FromHex(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	return signer
}

// newTestClient builds a client over the mock with the test identity
// registered as an authorized logger.
func newTestClient(t *testing.T, m *mockGateway) *Client {
	t.Helper()
	signer, err := identity.FromHex(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	m.authorized[signer.Address()] = true

	client, err := NewClient(context.Background(), testConfig(), signer, m)
	if err != nil {
		t.Fatalf("failed to construct client: %v", err)
	}
	return client
}
