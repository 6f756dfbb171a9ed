package supply_grpc_service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SupplySystem is the part of actor.System the service needs.
type SupplySystem interface {
	View() (supply.View, error)
	Initialize(items []string, size int, sel supply.Selection) (supply.View, error)
	ReplaceSlot(slot int) (supply.Replacement, supply.View, error)
	Undo() (supply.View, bool, error)
	Reset() (supply.View, error)
}

// SupplyService is a gRPC service that exposes a supply session.
type SupplyService struct {
	system SupplySystem
	store  types.CatalogStore
}

var _ SupplyServiceServer = (*SupplyService)(nil)

// NewSupplyService creates a new SupplyService. store is used when an
// Initialize request carries no items; nil means the built-in catalog.
func NewSupplyService(system SupplySystem, store types.CatalogStore) *SupplyService {
	return &SupplyService{system: system, store: store}
}

// ListenAndServe starts the gRPC server and stops it when ctx is done.
func ListenAndServe(ctx context.Context, system SupplySystem, store types.CatalogStore, listenAddress string) error {
	lis, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return err
	}
	s := grpc.NewServer()
	RegisterSupplyServiceServer(s, NewSupplyService(system, store))

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	return s.Serve(lis)
}

// GetState returns the current supply view.
func (s *SupplyService) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	view, err := s.system.View()
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view)
}

// intField reads a whole number from a struct field. A missing field is 0.
func intField(v *structpb.Value, name string) (int, error) {
	if v == nil {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number, got %v", name, f)
	}
	return int(f), nil
}

// Initialize deals a new market. Fields: items (list), size (number),
// mode ("random" | "manual"), selection (list).
func (s *SupplyService) Initialize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	size, err := intField(fields["size"], "size")
	if err != nil {
		return nil, err
	}
	mode, err := types.ParseSelectionMode(fields["mode"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items := stringList(fields["items"])
	if len(items) == 0 {
		if s.store == nil {
			items = catalog.Defaults()
		} else if items, err = s.store.Load(ctx); err != nil {
			return nil, toStatus(err)
		}
	}

	view, err := s.system.Initialize(items, size, supply.SelectionFor(mode, stringList(fields["selection"])))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view)
}

// ReplaceSlot retires the item at the given slot.
func (s *SupplyService) ReplaceSlot(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.Struct, error) {
	rep, view, err := s.system.ReplaceSlot(int(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(struct {
		Replacement supply.Replacement `json:"replacement"`
		State       supply.View        `json:"state"`
	}{rep, view})
}

func (s *SupplyService) Undo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	view, changed, err := s.system.Undo()
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(struct {
		Changed bool        `json:"changed"`
		State   supply.View `json:"state"`
	}{changed, view})
}

func (s *SupplyService) Reset(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	view, err := s.system.Reset()
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view)
}

// toStatus maps supply error kinds to gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrPoolExhausted), errors.Is(err, types.ErrEmptyCatalogEdit):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, types.ErrInsufficientCatalog),
		errors.Is(err, types.ErrInvalidManualCount),
		errors.Is(err, types.ErrIndexOutOfRange),
		errors.Is(err, types.ErrInvalidSupplySize),
		errors.Is(err, types.ErrUnknownSelectionMode):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, types.ErrShuttingDown):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// toStruct converts v through its JSON form so field names match the HTTP API.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func stringList(v *structpb.Value) []string {
	values := v.GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, item := range values {
		out = append(out, item.GetStringValue())
	}
	return out
}

// StringList reads a list of strings from a response field.
func StringList(s *structpb.Struct, field string) []string {
	return stringList(s.GetFields()[field])
}
