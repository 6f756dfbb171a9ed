package raft_service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/lni/dragonboat/v4"
	dbconfig "github.com/lni/dragonboat/v4/config"
	"github.com/lni/dragonboat/v4/statemachine"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Result values returned by Update.
const (
	ResultRejected uint64 = iota
	ResultApplied
)

// SupplyStateMachine replicates a supply session. Commands are journal
// entries encoded as JSON lines, so a committed log reads like a journal file.
type SupplyStateMachine struct {
	ShardID   uint64
	ReplicaID uint64
	manager   *supply.Manager
	codec     types.LogFormatter
	applied   uint64
}

// NewSupplyStateMachine creates a new SupplyStateMachine.
func NewSupplyStateMachine(shardID uint64, replicaID uint64) statemachine.IStateMachine {
	return &SupplyStateMachine{
		ShardID:   shardID,
		ReplicaID: replicaID,
		manager:   supply.NewManager(),
		codec:     formatter.NewJSONFormatter(),
	}
}

// Update applies a committed command. Entries that no longer fit the current
// state, like a replace racing another one, are rejected with the reason in
// Result.Data rather than failing the replica.
func (s *SupplyStateMachine) Update(entry statemachine.Entry) (statemachine.Result, error) {
	entries, err := s.codec.Decode(entry.Cmd)
	if err != nil {
		return statemachine.Result{Value: ResultRejected, Data: []byte(err.Error())}, nil
	}
	for _, e := range entries {
		if err := replay.ApplyEntry(s.manager, e); err != nil {
			return statemachine.Result{Value: ResultRejected, Data: []byte(err.Error())}, nil
		}
		s.applied++
	}
	return statemachine.Result{Value: ResultApplied}, nil
}

// Lookup returns the current supply.View. The query is ignored.
func (s *SupplyStateMachine) Lookup(query interface{}) (interface{}, error) {
	return s.manager.View(), nil
}

// SaveSnapshot writes the full session state, history included.
func (s *SupplyStateMachine) SaveSnapshot(w io.Writer, fc statemachine.ISnapshotFileCollection, done <-chan struct{}) error {
	state := s.manager.Export()
	state.LastSeq = s.applied
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RecoverFromSnapshot restores the state machine from a snapshot.
func (s *SupplyStateMachine) RecoverFromSnapshot(r io.Reader, files []statemachine.SnapshotFile, done <-chan struct{}) error {
	var state types.SessionState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	s.manager.Import(state)
	s.applied = state.LastSeq
	return nil
}

func (s *SupplyStateMachine) Close() error {
	return nil
}

// Node is a wrapper around the dragonboat NodeHost.
type Node struct {
	nh       *dragonboat.NodeHost
	shardID  uint64
	shuffler types.Shuffler
	codec    types.LogFormatter
	logger   *slog.Logger
}

// NodeOptions tunes a Node. Zero values pick the defaults.
type NodeOptions struct {
	RTTMillisecond uint64
	Shuffler       types.Shuffler
	Logger         *slog.Logger
}

// NewNode creates and starts a new dragonboat node.
func NewNode(cfg config.YAMLConfigRaft, opts NodeOptions) (*Node, error) {
	if opts.RTTMillisecond == 0 {
		opts.RTTMillisecond = 200
	}
	if opts.Shuffler == nil {
		opts.Shuffler = supply.NewRandShuffler(nil)
	}

	rc := dbconfig.Config{
		ReplicaID:          cfg.ReplicaID,
		ShardID:            cfg.ShardID,
		ElectionRTT:        10,
		HeartbeatRTT:       1,
		CheckQuorum:        true,
		SnapshotEntries:    10000,
		CompactionOverhead: 5000,
	}

	nhc := dbconfig.NodeHostConfig{
		WALDir:         filepath.Join(cfg.DataDir, "wal"),
		NodeHostDir:    filepath.Join(cfg.DataDir, "nodehost"),
		RaftAddress:    cfg.Addr,
		RTTMillisecond: opts.RTTMillisecond,
	}

	nh, err := dragonboat.NewNodeHost(nhc)
	if err != nil {
		return nil, err
	}

	members := make(map[uint64]dragonboat.Target, len(cfg.InitialMembers))
	for id, addr := range cfg.InitialMembers {
		members[id] = addr
	}
	if err := nh.StartReplica(members, cfg.Join, NewSupplyStateMachine, rc); err != nil {
		nh.Close()
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Info("raft replica started", "replica", cfg.ReplicaID, "shard", cfg.ShardID, "addr", cfg.Addr)
	}

	return &Node{
		nh:       nh,
		shardID:  cfg.ShardID,
		shuffler: opts.Shuffler,
		codec:    formatter.NewJSONFormatter(),
		logger:   opts.Logger,
	}, nil
}

// GetLeaderID returns the leader id, its term and whether the answer is valid.
func (n *Node) GetLeaderID() (uint64, uint64, bool, error) {
	return n.nh.GetLeaderID(n.shardID)
}

// GetState performs a linearizable read of the replicated session.
func (n *Node) GetState(ctx context.Context) (supply.View, error) {
	res, err := n.nh.SyncRead(ctx, n.shardID, nil)
	if err != nil {
		return supply.View{}, err
	}
	view, ok := res.(supply.View)
	if !ok {
		return supply.View{}, fmt.Errorf("unexpected lookup result %T", res)
	}
	return view, nil
}

// Initialize deals locally and replicates the dealt market and pool, so every
// replica installs the same session without sharing a random source.
func (n *Node) Initialize(ctx context.Context, items []string, size int, sel supply.Selection) (supply.View, error) {
	if sel == nil {
		sel = supply.Random{}
	}
	market, pool, err := supply.Deal(items, size, sel, n.shuffler)
	if err != nil {
		return supply.View{}, err
	}
	if err := n.propose(ctx, types.NewInitItem(size, sel.Mode(), market, pool)); err != nil {
		return supply.View{}, err
	}
	return n.GetState(ctx)
}

// ReplaceSlot draws from the pool it reads and proposes the result. A
// concurrent replace of the same state makes one of the two proposals fail
// with ErrProposalRejected.
func (n *Node) ReplaceSlot(ctx context.Context, slot int) (supply.Replacement, error) {
	view, err := n.GetState(ctx)
	if err != nil {
		return supply.Replacement{}, err
	}
	if slot < 0 || slot >= len(view.Market) {
		return supply.Replacement{}, fmt.Errorf("%w: %d not in [0, %d)", types.ErrIndexOutOfRange, slot, len(view.Market))
	}
	added, _, err := supply.Draw(view.Pool, n.shuffler)
	if err != nil {
		return supply.Replacement{}, err
	}
	rep := supply.Replacement{Slot: slot, Removed: view.Market[slot], Added: added}
	if err := n.propose(ctx, types.NewReplaceItem(rep.Slot, rep.Removed, rep.Added)); err != nil {
		return supply.Replacement{}, err
	}
	return rep, nil
}

func (n *Node) Undo(ctx context.Context) error {
	return n.propose(ctx, types.NewUndoItem())
}

func (n *Node) Reset(ctx context.Context) error {
	return n.propose(ctx, types.NewResetItem())
}

func (n *Node) propose(ctx context.Context, entry types.JournalEntry) error {
	cmd, err := n.codec.Encode([]types.JournalEntry{entry})
	if err != nil {
		return err
	}
	res, err := n.nh.SyncPropose(ctx, n.nh.GetNoOPSession(n.shardID), cmd)
	if err != nil {
		return err
	}
	if res.Value != ResultApplied {
		if n.logger != nil {
			n.logger.Debug("proposal rejected", "type", entry.GetType(), "reason", string(res.Data))
		}
		return fmt.Errorf("%w: %s", types.ErrProposalRejected, res.Data)
	}
	return nil
}

// Close stops the NodeHost.
func (n *Node) Close() {
	n.nh.Close()
}
